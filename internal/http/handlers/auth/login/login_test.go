package login

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	args := m.Called(ctx, email, rawPassword)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход",
			body: `{"email":"edison@example.com","password":"secreto123"}`,
			setupMock: func(m *MockService) {
				user := &models.User{UID: "uid-1", Email: "edison@example.com", Status: models.StatusActive}
				m.On("Login", mock.Anything, "edison@example.com", "secreto123").
					Return(user, "signed-token", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"signed-token"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{email}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "ошибка валидации email",
			body:           `{"email":"not-an-email","password":"secreto123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email must be a valid email address`,
		},
		{
			name: "неверный пароль",
			body: `{"email":"edison@example.com","password":"incorrecta1"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "edison@example.com", "incorrecta1").
					Return(nil, "", domain.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"code":"auth/invalid-credential"`,
		},
		{
			name: "деактивированная учетная запись",
			body: `{"email":"borrado@example.com","password":"secreto123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "borrado@example.com", "secreto123").
					Return(nil, "", domain.ErrAccountDisabled)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"code":"auth/user-disabled"`,
		},
		{
			name: "учетная запись не найдена",
			body: `{"email":"nadie@example.com","password":"secreto123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "nadie@example.com", "secreto123").
					Return(nil, "", domain.ErrNotFound)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"code":"auth/user-not-found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

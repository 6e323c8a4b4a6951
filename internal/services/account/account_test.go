package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/jwt"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/password"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UserRepoMock) UpdateProfile(ctx context.Context, userUID string, update models.ProfileUpdate) error {
	return m.Called(ctx, userUID, update).Error(0)
}
func (m *UserRepoMock) UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error {
	return m.Called(ctx, userUID, passwordHash).Error(0)
}
func (m *UserRepoMock) UpdateStatus(ctx context.Context, userUID, status string) error {
	return m.Called(ctx, userUID, status).Error(0)
}
func (m *UserRepoMock) FindAccountByEmail(ctx context.Context, email string) (*models.AccountInfo, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccountInfo), args.Error(1)
}

type PlanRepoMock struct{ mock.Mock }

func (m *PlanRepoMock) GetDefaultPlan(ctx context.Context) (*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

type SessionMock struct{ mock.Mock }

func (m *SessionMock) Save(ctx context.Context, key string, value any) {
	m.Called(ctx, key, value)
}
func (m *SessionMock) Get(ctx context.Context, key string, result any) bool {
	args := m.Called(ctx, key, result)
	return args.Bool(0)
}
func (m *SessionMock) Remove(ctx context.Context, key string) {
	m.Called(ctx, key)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestService(users *UserRepoMock, plans *PlanRepoMock, sessions *SessionMock, events *PublisherMock) *AccountService {
	maker := jwt.NewJWTMaker("test_secret", 15*time.Minute)
	return NewAccountService(users, plans, sessions, events, maker, newNoopLogger())
}

func TestAccountService_Register(t *testing.T) {
	defaultPlan := &models.Plan{
		ID:           "plan-1",
		Name:         "Plan Gratuito",
		Rank:         1,
		ValidityDays: 30,
	}

	tests := []struct {
		name       string
		input      RegisterInput
		setupMocks func(u *UserRepoMock, p *PlanRepoMock, e *PublisherMock)
		wantUID    string
		wantErr    error
	}{
		{
			name: "success with default plan snapshot",
			input: RegisterInput{
				FirstNames:  "Edison",
				LastNames:   "Santiago",
				Email:       "edison@example.com",
				RawPassword: "secreto123",
			},
			setupMocks: func(u *UserRepoMock, p *PlanRepoMock, e *PublisherMock) {
				p.On("GetDefaultPlan", mock.Anything).Return(defaultPlan, nil).Once()
				u.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "edison@example.com" &&
						user.Status == models.StatusActive &&
						user.Role == "user" &&
						user.PlanAssigned != nil &&
						user.PlanAssigned.PlanID == "plan-1" &&
						user.PlanAssigned.ValidityDays == 30
				})).Return("uid-1", nil).Once()
				e.On("Publish", "lifecycle", mock.Anything).Return(nil).Once()
			},
			wantUID: "uid-1",
		},
		{
			name: "success without default plan",
			input: RegisterInput{
				FirstNames:  "Maria",
				LastNames:   "Lopez",
				Email:       "maria@example.com",
				RawPassword: "secreto123",
			},
			setupMocks: func(u *UserRepoMock, p *PlanRepoMock, e *PublisherMock) {
				p.On("GetDefaultPlan", mock.Anything).Return(nil, domain.ErrNotFound).Once()
				u.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.PlanAssigned == nil
				})).Return("uid-2", nil).Once()
				e.On("Publish", "lifecycle", mock.Anything).Return(nil).Once()
			},
			wantUID: "uid-2",
		},
		{
			name: "weak password rejected before any round trip",
			input: RegisterInput{
				Email:       "edison@example.com",
				RawPassword: "corta",
			},
			setupMocks: func(_ *UserRepoMock, _ *PlanRepoMock, _ *PublisherMock) {},
			wantErr:    domain.ErrWeakPassword,
		},
		{
			name: "duplicate email",
			input: RegisterInput{
				Email:       "edison@example.com",
				RawPassword: "secreto123",
			},
			setupMocks: func(u *UserRepoMock, p *PlanRepoMock, _ *PublisherMock) {
				p.On("GetDefaultPlan", mock.Anything).Return(defaultPlan, nil).Once()
				u.On("CreateUser", mock.Anything, mock.Anything).
					Return("", domain.ErrEmailTaken).Once()
			},
			wantErr: domain.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			plans := new(PlanRepoMock)
			sessions := new(SessionMock)
			events := new(PublisherMock)
			tt.setupMocks(users, plans, events)

			svc := newTestService(users, plans, sessions, events)
			uid, err := svc.Register(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUID, uid)
			}
			users.AssertExpectations(t)
			plans.AssertExpectations(t)
			events.AssertExpectations(t)
		})
	}
}

func TestAccountService_Login(t *testing.T) {
	hash, err := password.GetHash("secreto123")
	require.NoError(t, err)

	activeUser := &models.User{
		UID:          "uid-1",
		Email:        "edison@example.com",
		Role:         "user",
		PasswordHash: hash,
		Status:       models.StatusActive,
	}
	deletedUser := &models.User{
		UID:          "uid-2",
		Email:        "borrado@example.com",
		Role:         "user",
		PasswordHash: hash,
		Status:       models.StatusDeleted,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(u *UserRepoMock, s *SessionMock)
		wantErr    error
	}{
		{
			name:     "success stores session and returns token",
			email:    "edison@example.com",
			password: "secreto123",
			setupMocks: func(u *UserRepoMock, s *SessionMock) {
				u.On("GetUserByEmail", mock.Anything, "edison@example.com").
					Return(activeUser, nil).Once()
				s.On("Save", mock.Anything, "session:uid-1", activeUser).Once()
			},
		},
		{
			name:     "missing profile",
			email:    "nadie@example.com",
			password: "secreto123",
			setupMocks: func(u *UserRepoMock, _ *SessionMock) {
				u.On("GetUserByEmail", mock.Anything, "nadie@example.com").
					Return(nil, domain.ErrNotFound).Once()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:     "wrong password",
			email:    "edison@example.com",
			password: "incorrecta",
			setupMocks: func(u *UserRepoMock, _ *SessionMock) {
				u.On("GetUserByEmail", mock.Anything, "edison@example.com").
					Return(activeUser, nil).Once()
			},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:     "deleted account blocks login and session stays empty",
			email:    "borrado@example.com",
			password: "secreto123",
			setupMocks: func(u *UserRepoMock, _ *SessionMock) {
				u.On("GetUserByEmail", mock.Anything, "borrado@example.com").
					Return(deletedUser, nil).Once()
			},
			wantErr: domain.ErrAccountDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			sessions := new(SessionMock)
			tt.setupMocks(users, sessions)

			svc := newTestService(users, new(PlanRepoMock), sessions, new(PublisherMock))
			user, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
				sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, "uid-1", user.UID)

				authCtx, err := svc.ValidateToken(context.Background(), token)
				require.NoError(t, err)
				assert.Equal(t, "uid-1", authCtx.UserUID)
				assert.Equal(t, "edison@example.com", authCtx.Email)
			}
			users.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAccountService_GetCurrentUser(t *testing.T) {
	authCtx := domain.AuthContext{UserUID: "uid-1", Email: "edison@example.com", Role: "user"}
	stored := &models.User{UID: "uid-1", Email: "edison@example.com", Status: models.StatusActive}

	t.Run("not authenticated", func(t *testing.T) {
		svc := newTestService(new(UserRepoMock), new(PlanRepoMock), new(SessionMock), new(PublisherMock))
		user, err := svc.GetCurrentUser(context.Background(), domain.AuthContext{})
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
		assert.Nil(t, user)
	})

	t.Run("session snapshot wins", func(t *testing.T) {
		sessions := new(SessionMock)
		sessions.On("Get", mock.Anything, "session:uid-1", mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(2).(*models.User) = *stored
			}).Return(true).Once()

		svc := newTestService(new(UserRepoMock), new(PlanRepoMock), sessions, new(PublisherMock))
		user, err := svc.GetCurrentUser(context.Background(), authCtx)
		require.NoError(t, err)
		assert.Equal(t, "uid-1", user.UID)
		sessions.AssertExpectations(t)
	})

	t.Run("falls back to storage", func(t *testing.T) {
		sessions := new(SessionMock)
		sessions.On("Get", mock.Anything, "session:uid-1", mock.Anything).Return(false).Once()
		users := new(UserRepoMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(stored, nil).Once()

		svc := newTestService(users, new(PlanRepoMock), sessions, new(PublisherMock))
		user, err := svc.GetCurrentUser(context.Background(), authCtx)
		require.NoError(t, err)
		assert.Equal(t, "uid-1", user.UID)
	})

	t.Run("missing profile returns empty", func(t *testing.T) {
		sessions := new(SessionMock)
		sessions.On("Get", mock.Anything, "session:uid-1", mock.Anything).Return(false).Once()
		users := new(UserRepoMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(nil, domain.ErrNotFound).Once()

		svc := newTestService(users, new(PlanRepoMock), sessions, new(PublisherMock))
		user, err := svc.GetCurrentUser(context.Background(), authCtx)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestAccountService_ChangePassword(t *testing.T) {
	hash, err := password.GetHash("actual123")
	require.NoError(t, err)
	user := &models.User{UID: "uid-1", Email: "edison@example.com", PasswordHash: hash}
	authCtx := domain.AuthContext{UserUID: "uid-1", Email: "edison@example.com"}

	t.Run("wrong current password leaves credential untouched", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()

		svc := newTestService(users, new(PlanRepoMock), new(SessionMock), new(PublisherMock))
		err := svc.ChangePassword(context.Background(), authCtx, "incorrecta", "nueva12345")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		users.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("weak new password rejected", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()

		svc := newTestService(users, new(PlanRepoMock), new(SessionMock), new(PublisherMock))
		err := svc.ChangePassword(context.Background(), authCtx, "actual123", "corta")
		assert.ErrorIs(t, err, domain.ErrWeakPassword)
	})

	t.Run("success", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
		users.On("UpdatePasswordHash", mock.Anything, "uid-1", mock.MatchedBy(func(h string) bool {
			return password.CompareHash(h, "nueva12345") == nil
		})).Return(nil).Once()

		svc := newTestService(users, new(PlanRepoMock), new(SessionMock), new(PublisherMock))
		err := svc.ChangePassword(context.Background(), authCtx, "actual123", "nueva12345")
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("not authenticated", func(t *testing.T) {
		svc := newTestService(new(UserRepoMock), new(PlanRepoMock), new(SessionMock), new(PublisherMock))
		err := svc.ChangePassword(context.Background(), domain.AuthContext{}, "a", "b")
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}

func TestAccountService_DeactivateAndReactivate(t *testing.T) {
	hash, err := password.GetHash("secreto123")
	require.NoError(t, err)
	user := &models.User{
		UID:          "uid-1",
		Email:        "edison@example.com",
		PasswordHash: hash,
		Status:       models.StatusActive,
	}
	authCtx := domain.AuthContext{UserUID: "uid-1", Email: "edison@example.com"}

	t.Run("deactivate flips status and drops session", func(t *testing.T) {
		users := new(UserRepoMock)
		sessions := new(SessionMock)
		events := new(PublisherMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
		users.On("UpdateStatus", mock.Anything, "uid-1", models.StatusDeleted).Return(nil).Once()
		sessions.On("Remove", mock.Anything, "session:uid-1").Once()
		events.On("Publish", "lifecycle", mock.MatchedBy(func(e models.AccountEvent) bool {
			return e.Kind == models.EventDeactivated && e.UserUID == "uid-1"
		})).Return(nil).Once()

		svc := newTestService(users, new(PlanRepoMock), sessions, events)
		err := svc.DeactivateAccount(context.Background(), authCtx, "secreto123")
		require.NoError(t, err)
		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("deactivate with wrong password", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()

		svc := newTestService(users, new(PlanRepoMock), new(SessionMock), new(PublisherMock))
		err := svc.DeactivateAccount(context.Background(), authCtx, "incorrecta")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		users.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reactivate restores active status", func(t *testing.T) {
		deleted := *user
		deleted.Status = models.StatusDeleted

		users := new(UserRepoMock)
		events := new(PublisherMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(&deleted, nil).Once()
		users.On("UpdateStatus", mock.Anything, "uid-1", models.StatusActive).Return(nil).Once()
		events.On("Publish", "lifecycle", mock.MatchedBy(func(e models.AccountEvent) bool {
			return e.Kind == models.EventReactivated
		})).Return(nil).Once()

		svc := newTestService(users, new(PlanRepoMock), new(SessionMock), events)
		err := svc.ReactivateAccount(context.Background(), "uid-1")
		require.NoError(t, err)
		users.AssertExpectations(t)
		events.AssertExpectations(t)
	})
}

func TestAccountService_RequestPasswordReset(t *testing.T) {
	t.Run("empty email", func(t *testing.T) {
		svc := newTestService(new(UserRepoMock), new(PlanRepoMock), new(SessionMock), new(PublisherMock))
		err := svc.RequestPasswordReset(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrEmailRequired)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("FindAccountByEmail", mock.Anything, "nadie@example.com").
			Return(nil, domain.ErrNotFound).Once()

		svc := newTestService(users, new(PlanRepoMock), new(SessionMock), new(PublisherMock))
		err := svc.RequestPasswordReset(context.Background(), "nadie@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("success publishes reset request", func(t *testing.T) {
		users := new(UserRepoMock)
		events := new(PublisherMock)
		users.On("FindAccountByEmail", mock.Anything, "edison@example.com").
			Return(&models.AccountInfo{UID: "uid-1", Status: models.StatusActive}, nil).Once()
		events.On("Publish", "password_reset", mock.MatchedBy(func(r models.PasswordResetRequest) bool {
			return r.Email == "edison@example.com" && r.ResetToken != ""
		})).Return(nil).Once()

		svc := newTestService(users, new(PlanRepoMock), new(SessionMock), events)
		err := svc.RequestPasswordReset(context.Background(), "edison@example.com")
		require.NoError(t, err)
		events.AssertExpectations(t)
	})

	t.Run("publish failure surfaces", func(t *testing.T) {
		users := new(UserRepoMock)
		events := new(PublisherMock)
		users.On("FindAccountByEmail", mock.Anything, "edison@example.com").
			Return(&models.AccountInfo{UID: "uid-1", Status: models.StatusActive}, nil).Once()
		events.On("Publish", "password_reset", mock.Anything).
			Return(errors.New("broker down")).Once()

		svc := newTestService(users, new(PlanRepoMock), new(SessionMock), events)
		err := svc.RequestPasswordReset(context.Background(), "edison@example.com")
		assert.Error(t, err)
	})
}

func TestAccountService_FindByEmail(t *testing.T) {
	users := new(UserRepoMock)
	users.On("FindAccountByEmail", mock.Anything, "borrado@example.com").
		Return(&models.AccountInfo{UID: "uid-2", Status: models.StatusDeleted}, nil).Once()

	svc := newTestService(users, new(PlanRepoMock), new(SessionMock), new(PublisherMock))
	info, err := svc.FindByEmail(context.Background(), "borrado@example.com")
	require.NoError(t, err)
	assert.Equal(t, "uid-2", info.UID)
	assert.Equal(t, models.StatusDeleted, info.Status)
}

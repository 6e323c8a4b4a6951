package content

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

type ParamsMock struct{ mock.Mock }

func (m *ParamsMock) GetByTag(ctx context.Context, tag string) (*models.Parameter, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Parameter), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestContentService_URLs(t *testing.T) {
	authCtx := domain.AuthContext{UserUID: "uid-1", Email: "edison@example.com"}

	t.Run("parameter overrides fallback", func(t *testing.T) {
		params := new(ParamsMock)
		params.On("GetByTag", mock.Anything, "url_base_web").Return(&models.Parameter{
			Tag:    "url_base_web",
			Status: models.ParameterActive,
			Value:  "https://carbontrackerweb.netlify.app/",
		}, nil).Twice()

		svc := NewContentService(params, "https://fallback.example.com", newNoopLogger())

		calc, err := svc.CalculatorURL(context.Background(), authCtx)
		require.NoError(t, err)
		assert.Equal(t, "https://carbontrackerweb.netlify.app/calculadora/uid-1", calc)

		results, err := svc.ResultsURL(context.Background(), authCtx)
		require.NoError(t, err)
		assert.Equal(t, "https://carbontrackerweb.netlify.app/resultados/uid-1", results)
	})

	t.Run("fallback used when parameter missing", func(t *testing.T) {
		params := new(ParamsMock)
		params.On("GetByTag", mock.Anything, "url_base_web").Return(nil, nil).Once()

		svc := NewContentService(params, "https://carbontrackerweb.netlify.app", newNoopLogger())
		calc, err := svc.CalculatorURL(context.Background(), authCtx)
		require.NoError(t, err)
		assert.Equal(t, "https://carbontrackerweb.netlify.app/calculadora/uid-1", calc)
	})

	t.Run("not authenticated", func(t *testing.T) {
		svc := NewContentService(new(ParamsMock), "https://fallback.example.com", newNoopLogger())
		_, err := svc.CalculatorURL(context.Background(), domain.AuthContext{})
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}

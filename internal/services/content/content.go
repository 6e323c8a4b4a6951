// Package content собирает ссылки на веб-представления калькулятора и
// результатов. База URL берется из параметра url_base_web, при его
// отсутствии применяется значение из конфигурации.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

// Тег параметра с базовым URL веб-приложения.
const baseURLTag = "url_base_web"

// ParameterReader возвращает активный параметр по тегу либо nil.
type ParameterReader interface {
	GetByTag(ctx context.Context, tag string) (*models.Parameter, error)
}

// ContentService строит персональные ссылки на веб-контент.
type ContentService struct {
	params      ParameterReader
	fallbackURL string
	log         *slog.Logger
}

// NewContentService создает новый экземпляр ContentService.
func NewContentService(params ParameterReader, fallbackURL string, log *slog.Logger) *ContentService {
	return &ContentService{params: params, fallbackURL: fallbackURL, log: log}
}

// CalculatorURL возвращает ссылку на калькулятор следа пользователя.
func (s *ContentService) CalculatorURL(ctx context.Context, authCtx domain.AuthContext) (string, error) {
	return s.buildURL(ctx, authCtx, "calculadora")
}

// ResultsURL возвращает ссылку на страницу результатов пользователя.
func (s *ContentService) ResultsURL(ctx context.Context, authCtx domain.AuthContext) (string, error) {
	return s.buildURL(ctx, authCtx, "resultados")
}

func (s *ContentService) buildURL(ctx context.Context, authCtx domain.AuthContext, section string) (string, error) {
	const op = "services.content.buildURL"

	if !authCtx.IsAuthenticated() {
		return "", fmt.Errorf("%s: %w", op, domain.ErrNotAuthenticated)
	}

	base := s.fallbackURL
	param, err := s.params.GetByTag(ctx, baseURLTag)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if param != nil && param.Value != "" {
		base = param.Value
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), section, authCtx.UserUID), nil
}

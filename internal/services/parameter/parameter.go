// Package parameter предоставляет чтение конфигурационных параметров
// приложения: первый активный параметр по тегу, без кэширования.
package parameter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

// ParameterRepository описывает контракт чтения параметров из хранилища.
type ParameterRepository interface {
	// GetParameterByTag возвращает первый активный параметр с тегом
	// или domain.ErrNotFound.
	GetParameterByTag(ctx context.Context, tag string) (*models.Parameter, error)
}

// ParameterService читает параметры приложения из хранилища.
type ParameterService struct {
	repo ParameterRepository
	log  *slog.Logger
}

// NewParameterService создает новый экземпляр ParameterService.
func NewParameterService(repo ParameterRepository, log *slog.Logger) *ParameterService {
	return &ParameterService{repo: repo, log: log}
}

// GetByTag возвращает значение параметра по тегу. Отсутствие активного
// параметра не ошибка: возвращается nil, вызывающий применяет свой
// дефолт. Каждое обращение идет в хранилище, результаты не кэшируются.
func (s *ParameterService) GetByTag(ctx context.Context, tag string) (*models.Parameter, error) {
	const op = "services.parameter.GetByTag"

	param, err := s.repo.GetParameterByTag(ctx, tag)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Warn("parameter not found", slog.String("tag", tag))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return param, nil
}

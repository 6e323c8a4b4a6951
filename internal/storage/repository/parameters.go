package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

// GetParameterByTag возвращает первый активный параметр с данным тегом.
// Уникальность тега не гарантируется хранилищем: при дубликатах берется
// первая запись по дате создания. Отсутствие совпадений транслируется
// в domain.ErrNotFound.
func (s *Storage) GetParameterByTag(ctx context.Context, tag string) (*models.Parameter, error) {
	const op = "storage.GetParameterByTag"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, tag, status, value, detail
			  FROM parameters
			  WHERE tag = $1 AND status = $2
			  ORDER BY created_at
			  LIMIT 1`
	p := &models.Parameter{}
	err := s.DB.QueryRowContext(ctx, query, tag, models.ParameterActive).
		Scan(&p.ID, &p.Tag, &p.Status, &p.Value, &p.Detail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

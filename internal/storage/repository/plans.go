package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

// GetDefaultPlan возвращает план с порядковым номером 1, назначаемый при
// регистрации. Один сетевой запрос: выборка и чтение в одном обращении.
func (s *Storage) GetDefaultPlan(ctx context.Context) (*models.Plan, error) {
	const op = "storage.GetDefaultPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, rank, description, validity_days, features
			  FROM plans
			  WHERE rank = 1
			  ORDER BY rank
			  LIMIT 1`
	plan, err := scanPlan(s.DB.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plan, nil
}

// ListPlans возвращает каталог планов, отсортированный по полю rank.
func (s *Storage) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, rank, description, validity_days, features
			  FROM plans
			  ORDER BY rank`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, plan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*models.Plan, error) {
	p := &models.Plan{}
	var featuresJSON []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Rank, &p.Description,
		&p.ValidityDays, &featuresJSON); err != nil {
		return nil, err
	}
	if len(featuresJSON) > 0 {
		if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
			return nil, err
		}
	}
	return p, nil
}

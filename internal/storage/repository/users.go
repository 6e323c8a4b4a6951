package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

// uniqueViolation код PostgreSQL для нарушения уникального индекса.
const uniqueViolation = "23505"

// CreateUser сохраняет новый профиль и возвращает его UID.
// Повторный email транслируется в domain.ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	planJSON, err := marshalAssignment(user.PlanAssigned)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newUID string
	query := `INSERT INTO users (first_names, last_names, national_id, email, address,
			      role, password_hash, status, plan_assigned)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.FirstNames, user.LastNames, user.NationalID, user.Email, user.Address,
		user.Role, user.PasswordHash, user.Status, planJSON).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", fmt.Errorf("%s: %w", op, domain.ErrEmailTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает профиль по email или domain.ErrNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + ` WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает профиль по его UID или domain.ErrNotFound.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + ` WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// UpdateProfile сливает непустые поля update в профиль и ставит отметку
// времени обновления. Возвращает domain.ErrNotFound для чужого UID.
func (s *Storage) UpdateProfile(ctx context.Context, userUID string, update models.ProfileUpdate) error {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET first_names = COALESCE($1, first_names),
			      last_names  = COALESCE($2, last_names),
			      national_id = COALESCE($3, national_id),
			      address     = COALESCE($4, address),
			      updated_at  = $5
			  WHERE uid = $6`
	res, err := s.DB.ExecContext(ctx, query,
		update.FirstNames, update.LastNames, update.NationalID, update.Address,
		time.Now().UTC(), userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// UpdatePasswordHash заменяет хэш пароля пользователя.
func (s *Storage) UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdatePasswordHash"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1,
			      updated_at = $2
			  WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, time.Now().UTC(), userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// UpdateStatus переключает статус учетной записи. Для status = eliminado
// заполняется deleted_at, для activo отметка снимается.
func (s *Storage) UpdateStatus(ctx context.Context, userUID, status string) error {
	const op = "storage.UpdateStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var deletedAt *time.Time
	if status == models.StatusDeleted {
		now := time.Now().UTC()
		deletedAt = &now
	}

	query := `UPDATE users
			  SET status = $1,
			      deleted_at = $2
			  WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, status, deletedAt, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// FindAccountByEmail возвращает {uid, status} профиля без аутентификации.
func (s *Storage) FindAccountByEmail(ctx context.Context, email string) (*models.AccountInfo, error) {
	const op = "storage.FindAccountByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, status FROM users WHERE email = $1`
	info := &models.AccountInfo{}
	err := s.DB.QueryRowContext(ctx, query, email).Scan(&info.UID, &info.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return info, nil
}

const userSelect = `SELECT uid, first_names, last_names, national_id, email, address,
			      role, password_hash, status, created_at, updated_at, deleted_at, plan_assigned
			  FROM users`

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}

	var updatedAt, deletedAt sql.NullTime
	var planJSON []byte
	err := row.Scan(&u.UID, &u.FirstNames, &u.LastNames, &u.NationalID, &u.Email,
		&u.Address, &u.Role, &u.PasswordHash, &u.Status, &u.CreatedAt,
		&updatedAt, &deletedAt, &planJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if updatedAt.Valid {
		u.UpdatedAt = &updatedAt.Time
	}
	if deletedAt.Valid {
		u.DeletedAt = &deletedAt.Time
	}
	if len(planJSON) > 0 {
		var assignment models.PlanAssignment
		if err := json.Unmarshal(planJSON, &assignment); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.PlanAssigned = &assignment
	}
	return u, nil
}

func marshalAssignment(assignment *models.PlanAssignment) ([]byte, error) {
	if assignment == nil {
		return nil, nil
	}
	return json.Marshal(assignment)
}

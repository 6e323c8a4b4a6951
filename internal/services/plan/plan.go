// Package plan предоставляет чтение каталога планов и расчет остатка
// дней по назначенному плану пользователя.
package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

// PlanRepository описывает контракт чтения каталога планов.
type PlanRepository interface {
	// ListPlans возвращает каталог планов по возрастанию rank.
	ListPlans(ctx context.Context) ([]*models.Plan, error)
}

// UserRepository читает профиль для определения назначенного плана.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// CurrentPlan снимок назначенного плана вместе с остатком дней.
type CurrentPlan struct {
	Assignment    *models.PlanAssignment `json:"assignment"`
	RemainingDays int                    `json:"remaining_days"`
	Expired       bool                   `json:"expired"`
}

// PlanService реализует операции над каталогом планов.
type PlanService struct {
	plans PlanRepository
	users UserRepository
	log   *slog.Logger
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(plans PlanRepository, users UserRepository, log *slog.Logger) *PlanService {
	return &PlanService{plans: plans, users: users, log: log}
}

// List возвращает каталог планов, отсортированный по rank.
func (s *PlanService) List(ctx context.Context) ([]*models.Plan, error) {
	const op = "services.plan.List"

	plans, err := s.plans.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plans, nil
}

// Current возвращает назначенный план пользователя с остатком дней.
// Остаток считается от момента назначения и срока действия плана и не
// опускается ниже нуля. Профиль без назначенного плана дает nil.
func (s *PlanService) Current(ctx context.Context, authCtx domain.AuthContext) (*CurrentPlan, error) {
	const op = "services.plan.Current"

	if !authCtx.IsAuthenticated() {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotAuthenticated)
	}
	user, err := s.users.GetUser(ctx, authCtx.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.PlanAssigned == nil {
		return nil, nil
	}

	remaining := user.PlanAssigned.RemainingDays(time.Now().UTC())
	return &CurrentPlan{
		Assignment:    user.PlanAssigned,
		RemainingDays: remaining,
		Expired:       remaining == 0,
	}, nil
}

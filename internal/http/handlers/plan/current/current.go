// Package current реализует HTTP-обработчик назначенного плана
// текущего пользователя вместе с остатком дней действия.
package current

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/middlewarectx"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/response"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/sl"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/services/plan"
)

// Service описывает интерфейс чтения назначенного плана.
type Service interface {
	Current(ctx context.Context, authCtx domain.AuthContext) (*plan.CurrentPlan, error)
}

// Handler обрабатывает HTTP-запросы назначенного плана.
type Handler struct {
	log   *slog.Logger
	plans Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, plans Service) *Handler {
	return &Handler{log: log, plans: plans}
}

// ServeHTTP godoc
// @Summary Назначенный план пользователя
// @Description Возвращает снимок назначенного плана и остаток дней действия.
// @Tags Plans
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Назначенный план или null"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /plans/current [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.current"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	authCtx, ok := middlewarectx.AuthContextFrom(r.Context())
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	currentPlan, err := h.plans.Current(r.Context(), authCtx)
	if err != nil {
		log.Error("failed to load current plan", sl.Err(err))
		if errors.Is(err, domain.ErrNotAuthenticated) {
			w.WriteHeader(http.StatusUnauthorized)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		render.JSON(w, r, response.ErrorWithCode(domain.CodeOf(err), domain.UserMessage(err)))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(currentPlan))
}

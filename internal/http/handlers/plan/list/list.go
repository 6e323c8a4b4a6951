// Package list реализует HTTP-обработчик каталога планов подписки.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/response"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/sl"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

// Service описывает интерфейс чтения каталога планов.
type Service interface {
	List(ctx context.Context) ([]*models.Plan, error)
}

// Handler обрабатывает HTTP-запросы каталога планов.
type Handler struct {
	log   *slog.Logger
	plans Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, plans Service) *Handler {
	return &Handler{log: log, plans: plans}
}

// ServeHTTP godoc
// @Summary Каталог планов
// @Description Возвращает доступные планы, отсортированные по порядковому номеру.
// @Tags Plans
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список планов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.plans.List(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list plans"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(plans))
}

// Package reactivate реализует административный HTTP-обработчик
// реактивации учетной записи. Маршрут закрыт проверкой роли admin,
// конечному пользователю операция напрямую недоступна.
package reactivate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/response"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики реактивации.
type Service interface {
	ReactivateAccount(ctx context.Context, userUID string) error
}

// Handler обрабатывает HTTP-запросы реактивации учетной записи.
type Handler struct {
	log      *slog.Logger
	accounts Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, accounts Service) *Handler {
	return &Handler{log: log, accounts: accounts}
}

// ServeHTTP godoc
// @Summary Реактивация учетной записи
// @Description Возвращает профиль в статус activo. Только для роли admin.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID учетной записи"
// @Success 200 {object} map[string]any "Учетная запись реактивирована"
// @Failure 401 {object} response.ErrorResponse "Нет аутентификации"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Учетная запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/accounts/{uid}/reactivate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.reactivate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")
	if userUID == "" {
		log.Error("missing uid path parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing uid path parameter"))
		return
	}

	if err := h.accounts.ReactivateAccount(r.Context(), userUID); err != nil {
		log.Error("reactivation failed", sl.Err(err))
		if errors.Is(err, domain.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		render.JSON(w, r, response.ErrorWithCode(domain.CodeOf(err), domain.UserMessage(err)))
		return
	}

	log.Info("account reactivated", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "Cuenta reactivada.",
	}))
}

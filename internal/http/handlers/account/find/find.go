// Package find реализует HTTP-обработчик поиска учетной записи по email
// без аутентификации. Возвращает только uid и статус: экран входа по
// ним решает, предлагать ли реактивацию.
package find

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/response"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/sl"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

// Service описывает интерфейс поиска учетной записи.
type Service interface {
	FindByEmail(ctx context.Context, email string) (*models.AccountInfo, error)
}

// Handler обрабатывает HTTP-запросы поиска учетной записи.
type Handler struct {
	log      *slog.Logger
	accounts Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, accounts Service) *Handler {
	return &Handler{log: log, accounts: accounts}
}

// ServeHTTP godoc
// @Summary Поиск учетной записи по email
// @Description Возвращает uid и статус учетной записи. Аутентификация не требуется.
// @Tags Account
// @Produce  json
// @Param email query string true "Email учетной записи"
// @Success 200 {object} map[string]any "Учетная запись найдена"
// @Failure 400 {object} response.ErrorResponse "Пустой email"
// @Failure 404 {object} response.ErrorResponse "Учетная запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /accounts/find [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.find"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := r.URL.Query().Get("email")
	if email == "" {
		log.Error("missing email query parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing email query parameter"))
		return
	}

	info, err := h.accounts.FindByEmail(r.Context(), email)
	if err != nil {
		log.Error("account lookup failed", sl.Err(err))
		if errors.Is(err, domain.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		render.JSON(w, r, response.ErrorWithCode(domain.CodeOf(err), domain.UserMessage(err)))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(info))
}

// Package deactivate реализует HTTP-обработчик мягкого удаления
// учетной записи. Операция требует повторного подтверждения паролем:
// мягкое удаление сохраняет данные, но блокирует вход до реактивации.
package deactivate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/middlewarectx"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/response"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/sl"
)

// Request — входные данные для деактивации: текущий пароль.
type Request struct {
	Password string `json:"password" validate:"required"`
}

// Service описывает интерфейс бизнес-логики деактивации.
type Service interface {
	DeactivateAccount(ctx context.Context, authCtx domain.AuthContext, currentPassword string) error
}

// Handler обрабатывает HTTP-запросы деактивации учетной записи.
type Handler struct {
	log      *slog.Logger
	accounts Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, accounts Service) *Handler {
	return &Handler{
		log:      log,
		accounts: accounts,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Деактивация учетной записи
// @Description Помечает профиль как eliminado после подтверждения текущим паролем.
// @Tags Account
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Текущий пароль"
// @Success 200 {object} map[string]any "Учетная запись деактивирована"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверный пароль или нет аутентификации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /account/deactivate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.deactivate"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.accounts.DeactivateAccount(r.Context(), authCtx, req.Password); err != nil {
		log.Error("deactivation failed", sl.Err(err))
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrNotAuthenticated):
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		render.JSON(w, r, response.ErrorWithCode(domain.CodeOf(err), domain.UserMessage(err)))
		return
	}

	log.Info("account deactivated", slog.String("user_uid", authCtx.UserUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "Cuenta desactivada.",
	}))
}

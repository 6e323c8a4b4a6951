// Package register реализует HTTP-обработчик регистрации пользователя.
//
// В нём определяется структура Request для входных данных, выполняется
// декодирование JSON, валидация полей и делегирование операции сервису
// учетных записей. Новый профиль создается со статусом activo и снимком
// плана по умолчанию.
package register

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
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/response"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/sl"
	services "github.com/EdisonSantiago93/carbontracker-backend/internal/services/account"
)

// Request — входные данные для регистрации.
type Request struct {
	FirstNames string `json:"first_names" validate:"required,max=100"`
	LastNames  string `json:"last_names" validate:"required,max=100"`
	NationalID string `json:"national_id" validate:"omitempty,max=20"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"omitempty,max=200"`
	Password   string `json:"password" validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, input services.RegisterInput) (string, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация пользователя
// @Description Создает профиль со статусом activo и назначает план по умолчанию.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового профиля"
// @Success 200 {object} map[string]any "Профиль создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	uid, err := h.accounts.Register(r.Context(), services.RegisterInput{
		FirstNames:  req.FirstNames,
		LastNames:   req.LastNames,
		NationalID:  req.NationalID,
		Email:       req.Email,
		Address:     req.Address,
		RawPassword: req.Password,
	})
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			w.WriteHeader(http.StatusConflict)
		case errors.Is(err, domain.ErrWeakPassword):
			w.WriteHeader(http.StatusUnprocessableEntity)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		render.JSON(w, r, response.ErrorWithCode(domain.CodeOf(err), domain.UserMessage(err)))
		return
	}

	log.Info("user registered", slog.String("user_uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid": uid,
		"email":    req.Email,
	}))
}

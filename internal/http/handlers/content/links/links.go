// Package links реализует HTTP-обработчики персональных ссылок на
// веб-представления калькулятора и результатов. Один пакет на оба
// маршрута: обработчики различаются только секцией ссылки.
package links

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
)

// Service описывает интерфейс построения персональных ссылок.
type Service interface {
	CalculatorURL(ctx context.Context, authCtx domain.AuthContext) (string, error)
	ResultsURL(ctx context.Context, authCtx domain.AuthContext) (string, error)
}

// Handler обрабатывает HTTP-запросы персональных ссылок.
type Handler struct {
	log     *slog.Logger
	content Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, content Service) *Handler {
	return &Handler{log: log, content: content}
}

// Calculator godoc
// @Summary Ссылка на калькулятор
// @Description Возвращает персональную ссылку на веб-калькулятор следа.
// @Tags Content
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Ссылка на калькулятор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /content/calculator [get]
func (h *Handler) Calculator(w http.ResponseWriter, r *http.Request) {
	h.serveLink(w, r, "handlers.content.calculator", h.content.CalculatorURL)
}

// Results godoc
// @Summary Ссылка на результаты
// @Description Возвращает персональную ссылку на страницу результатов.
// @Tags Content
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Ссылка на результаты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /content/results [get]
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	h.serveLink(w, r, "handlers.content.results", h.content.ResultsURL)
}

func (h *Handler) serveLink(w http.ResponseWriter, r *http.Request, op string,
	build func(context.Context, domain.AuthContext) (string, error)) {
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

	url, err := build(r.Context(), authCtx)
	if err != nil {
		log.Error("failed to build link", sl.Err(err))
		if errors.Is(err, domain.ErrNotAuthenticated) {
			w.WriteHeader(http.StatusUnauthorized)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		render.JSON(w, r, response.Error("failed to build link"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"url": url,
	}))
}

// Package get реализует HTTP-обработчик чтения конфигурационного
// параметра по тегу. Отсутствующий параметр возвращается как null,
// клиент применяет свои значения по умолчанию.
package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/response"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/sl"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

// Service описывает интерфейс чтения параметров.
type Service interface {
	GetByTag(ctx context.Context, tag string) (*models.Parameter, error)
}

// Handler обрабатывает HTTP-запросы чтения параметров.
type Handler struct {
	log    *slog.Logger
	params Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, params Service) *Handler {
	return &Handler{log: log, params: params}
}

// ServeHTTP godoc
// @Summary Параметр приложения по тегу
// @Description Возвращает первый активный параметр с указанным тегом либо null.
// @Tags Parameters
// @Produce  json
// @Param tag path string true "Тег параметра"
// @Success 200 {object} map[string]any "Параметр или null"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /parameters/{tag} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.parameter.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tag := chi.URLParam(r, "tag")
	if tag == "" {
		log.Error("missing tag path parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing tag path parameter"))
		return
	}

	param, err := h.params.GetByTag(r.Context(), tag)
	if err != nil {
		log.Error("failed to read parameter", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read parameter"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(param))
}

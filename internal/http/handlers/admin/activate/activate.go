// Package activate реализует HTTP-обработчик возобновления заведения.
package activate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики возобновления заведения.
type Service interface {
	Activate(ctx context.Context, restaurantID string) error
}

// Handler обрабатывает запросы на возобновление заведения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Возобновить заведение
// @Description Переводит подписку заведения в active. Только для платформенного администратора.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Param id path string true "ID заведения"
// @Success 200 {object} response.Response "Заведение возобновлено"
// @Failure 403 {object} response.ErrorResponse "Не платформенный администратор"
// @Failure 404 {object} response.ErrorResponse "Заведение не найдено"
// @Router /admin/restaurants/{id}/activate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.activate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.service.Activate(r.Context(), id); err != nil {
		log.Error("failed to activate restaurant", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("restaurant activated", sl.Restaurant(id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"restaurant_id": id,
		"status":        "active",
	}))
}

// Package restaurantlist реализует HTTP-обработчик обзора заведений платформы.
package restaurantlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// Service описывает интерфейс бизнес-логики обзора заведений.
type Service interface {
	ListRestaurants(ctx context.Context, limit, offset int) ([]*models.Restaurant, error)
}

// Handler обрабатывает запросы на обзор всех заведений платформы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список заведений платформы
// @Description Возвращает страницу всех заведений. Только для платформенного администратора.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список заведений"
// @Failure 403 {object} response.ErrorResponse "Не платформенный администратор"
// @Router /admin/restaurants [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.restaurantlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	items, err := h.service.ListRestaurants(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list restaurants", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("restaurants listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":       len(items),
		"restaurants": items,
	}))
}

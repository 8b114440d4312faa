// Package suspend реализует HTTP-обработчик приостановки заведения.
package suspend

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
)

// Request — причина приостановки. Необязательна.
type Request struct {
	Reason string `json:"reason"`
}

// Service описывает интерфейс бизнес-логики приостановки заведения.
type Service interface {
	Suspend(ctx context.Context, restaurantID, reason string) error
}

// Handler обрабатывает запросы на приостановку заведения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Приостановить заведение
// @Description Переводит подписку заведения в suspended. Только для платформенного администратора.
// @Tags Admin
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param id path string true "ID заведения"
// @Param request body Request false "Причина приостановки"
// @Success 200 {object} response.Response "Заведение приостановлено"
// @Failure 403 {object} response.ErrorResponse "Не платформенный администратор"
// @Failure 404 {object} response.ErrorResponse "Заведение не найдено"
// @Router /admin/restaurants/{id}/suspend [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.suspend"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if r.Body != nil {
		// Тело опционально, ошибки разбора пустого тела не считаются отказом.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Suspend(r.Context(), id, req.Reason); err != nil {
		log.Error("failed to suspend restaurant", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("restaurant suspended", sl.Restaurant(id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"restaurant_id": id,
		"status":        "suspended",
	}))
}

// Package public реализует HTTP-обработчик гостевого меню по QR-коду.
//
// Единственный маршрут без авторизации, работающий с данными заведения:
// токен QR-кода сам по себе является credential-ом чтения меню.
package public

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/services/tenant"
)

// Service описывает интерфейс бизнес-логики гостевого меню.
type Service interface {
	GetPublicMenu(ctx context.Context, token string) (*tenant.PublicMenu, error)
}

// Handler обрабатывает запросы гостей на просмотр меню.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Гостевое меню по QR-коду
// @Description Возвращает доступные позиции меню заведения по токену QR-кода столика. Авторизация не требуется.
// @Tags Menu
// @Produce  json
// @Param token path string true "Токен QR-кода столика"
// @Success 200 {object} response.Response "Меню заведения"
// @Failure 404 {object} response.ErrorResponse "Токен не найден или заведение неактивно"
// @Router /qr/{token}/menu [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.menu.public"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	menu, err := h.service.GetPublicMenu(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		log.Error("failed to build public menu", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.OKWithData(menu))
}

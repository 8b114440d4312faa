// Package profile реализует HTTP-обработчик профиля заведения
// с витриной использования тарифа.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/middlewarectx"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/services/tenant"
)

// Service описывает интерфейс бизнес-логики профиля заведения.
type Service interface {
	GetProfile(ctx context.Context, user authctx.TenantUser) (*tenant.Profile, error)
}

// Handler обрабатывает запросы на профиль заведения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль заведения
// @Description Возвращает заведение пользователя вместе со счетчиками и лимитами тарифа.
// @Tags Restaurant
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} response.Response "Профиль заведения"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /restaurant [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.restaurant.profile"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.TenantFromContext(r.Context())
	if !ok {
		log.Error("tenant user not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	p, err := h.service.GetProfile(r.Context(), user)
	if err != nil {
		log.Error("failed to read restaurant profile", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.OKWithData(p))
}

// Package list реализует HTTP-обработчик списка гостей заведения.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/middlewarectx"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// Service описывает интерфейс бизнес-логики списка гостей.
type Service interface {
	List(ctx context.Context, user authctx.TenantUser, limit, offset int) ([]*models.Customer, error)
}

// Handler обрабатывает запросы на список гостей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.customer.list"
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

	user, ok := middlewarectx.TenantFromContext(r.Context())
	if !ok {
		log.Error("tenant user not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	items, err := h.service.List(r.Context(), user, limit, offset)
	if err != nil {
		log.Error("failed to list customers", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("customers listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":     len(items),
		"customers": items,
	}))
}

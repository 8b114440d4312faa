// Package create реализует HTTP-обработчик добавления позиции меню.
//
// Handler принимает JSON-запрос с данными позиции, валидирует их, извлекает
// контекст заведения из запроса и возвращает созданную позицию в JSON-формате.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/middlewarectx"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// Service описывает интерфейс бизнес-логики создания позиции меню.
type Service interface {
	Create(ctx context.Context, user authctx.TenantUser, req models.DummyProduct) (*models.Product, error)
}

// Handler управляет HTTP-запросами на добавление позиций меню.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить позицию меню
// @Description Создает позицию меню в заведении пользователя. Учитывается в лимите products тарифа.
// @Tags Products
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyProduct true "Данные позиции"
// @Success 200 {object} response.Response "Созданная позиция"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 402 {object} response.ErrorResponse "Лимит тарифа исчерпан"
// @Failure 403 {object} response.ErrorResponse "Подписка неактивна"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или чужой restaurant_id"
// @Router /products [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyProduct
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, ok := middlewarectx.TenantFromContext(r.Context())
	if !ok {
		log.Error("tenant user not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	p, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		log.Error("failed to create product", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("product created",
		sl.Restaurant(user.RestaurantID),
		slog.String("product_id", p.ID))
	render.JSON(w, r, response.OKWithData(p))
}

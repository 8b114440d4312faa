// Package create реализует HTTP-обработчик оформления заказа.
//
// Handler принимает состав заказа, валидирует его и возвращает созданный
// заказ с рассчитанными суммами. Цены позиций берутся из меню на стороне
// сервера; клиентские цены не принимаются.
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

// Service описывает интерфейс бизнес-логики оформления заказа.
type Service interface {
	Create(ctx context.Context, user authctx.TenantUser, req models.DummyOrder) (*models.Order, error)
}

// Handler управляет HTTP-запросами на оформление заказов.
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
// @Summary Оформить заказ
// @Description Создает заказ в заведении пользователя. Учитывается в месячном лимите orders тарифа.
// @Tags Orders
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyOrder true "Состав заказа"
// @Success 200 {object} response.Response "Созданный заказ"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 402 {object} response.ErrorResponse "Месячный лимит заказов исчерпан"
// @Failure 403 {object} response.ErrorResponse "Подписка неактивна"
// @Failure 404 {object} response.ErrorResponse "Позиция, гость или столик не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или чужой restaurant_id"
// @Router /orders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyOrder
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

	o, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		log.Error("failed to create order", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("order created",
		sl.Restaurant(user.RestaurantID),
		slog.String("order_id", o.ID))
	render.JSON(w, r, response.OKWithData(o))
}

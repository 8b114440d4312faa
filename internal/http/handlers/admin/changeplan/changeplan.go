// Package changeplan реализует HTTP-обработчик смены тарифа заведения.
package changeplan

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
)

// Request — название нового тарифа.
type Request struct {
	Plan string `json:"plan" validate:"required"`
}

// Service описывает интерфейс бизнес-логики смены тарифа.
type Service interface {
	ChangePlan(ctx context.Context, restaurantID, planName string) error
}

// Handler обрабатывает запросы на смену тарифа заведения.
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
// @Summary Сменить тариф заведения
// @Description Переводит заведение на другой тариф и копирует его лимиты. Только для платформенного администратора.
// @Tags Admin
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param id path string true "ID заведения"
// @Param request body Request true "Название тарифа"
// @Success 200 {object} response.Response "Тариф сменен"
// @Failure 403 {object} response.ErrorResponse "Не платформенный администратор"
// @Failure 404 {object} response.ErrorResponse "Заведение или тариф не найдены"
// @Router /admin/restaurants/{id}/plan [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.changeplan"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	id := chi.URLParam(r, "id")
	if err := h.service.ChangePlan(r.Context(), id, req.Plan); err != nil {
		log.Error("failed to change plan", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("plan changed",
		sl.Restaurant(id),
		slog.String("plan", req.Plan))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"restaurant_id": id,
		"plan":          req.Plan,
	}))
}

// Package register реализует HTTP-обработчик регистрации заведения.
//
// Handler принимает JSON-запрос с данными заведения и владельца, валидирует их,
// вызывает бизнес-логику регистрации и возвращает идентификаторы созданных записей.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/services/auth"
)

// Request — данные регистрации заведения и его владельца.
type Request struct {
	RestaurantName string `json:"restaurant_name" validate:"required"`
	Slug           string `json:"slug"`
	Email          string `json:"email" validate:"required,email"`
	Username       string `json:"username" validate:"required"`
	Password       string `json:"password" validate:"required,min=8"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, restaurantName, restaurantSlug, email, username, rawPassword string) (*auth.RegisterResult, error)
}

// Handler обрабатывает запросы на регистрацию заведения.
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
// @Summary Зарегистрировать заведение
// @Description Создает заведение на trial-тарифе и учетную запись владельца.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные заведения и владельца"
// @Success 200 {object} response.Response "Заведение создано"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Slug или email уже заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
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

	res, err := h.service.Register(r.Context(), req.RestaurantName, req.Slug, req.Email, req.Username, req.Password)
	if err != nil {
		log.Error("failed to register restaurant", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("restaurant registered",
		sl.Restaurant(res.RestaurantID),
		slog.String("slug", res.Slug))
	render.JSON(w, r, response.OKWithData(res))
}

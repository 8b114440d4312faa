// Package renew реализует HTTP-обработчик обновления access-токена.
package renew

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
)

// Request — токен, подлежащий обновлению. Принимается в теле, а не в
// заголовке Authorization: обновить можно и уже истекший токен
// в пределах грейс-периода.
type Request struct {
	Token string `json:"token" validate:"required"`
}

// Service описывает интерфейс бизнес-логики обновления токена.
type Service interface {
	Renew(ctx context.Context, oldToken string) (string, error)
}

// Handler обрабатывает запросы на обновление токена.
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
// @Summary Обновить access-токен
// @Description Принимает действующий либо недавно истекший токен и выпускает свежий с актуальными claims.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Старый токен"
// @Success 200 {object} response.Response "Новый токен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Токен вне грейс-периода или испорчен"
// @Router /token/renew [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.renew"
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

	token, err := h.service.Renew(r.Context(), req.Token)
	if err != nil {
		log.Error("token renewal rejected", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("token renewed")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
	}))
}

// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков, а также единое отображение
// доменных ошибок в HTTP-статусы.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
	Limit  int    `json:"limit,omitempty" example:"50"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// FromError отображает доменную ошибку в HTTP-статус и тело ответа.
// Тексты нарочно скупые: наружу не уходит ничего, по чему можно
// отличить чужой ресурс от несуществующего.
func FromError(err error) (int, ErrorResponse) {
	var limitErr *models.LimitExceededError
	switch {
	case errors.Is(err, models.ErrTokenExpired):
		return http.StatusUnauthorized, Error("token expired")
	case errors.Is(err, models.ErrTokenInvalid):
		return http.StatusUnauthorized, Error("invalid token")
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, Error("unauthorized")
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, Error("forbidden")
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, Error("not found")
	case errors.Is(err, models.ErrSubscriptionInactive):
		return http.StatusForbidden, Error("subscription inactive")
	case errors.Is(err, models.ErrTenantMismatch):
		return http.StatusUnprocessableEntity, Error("restaurant_id does not match token")
	case errors.Is(err, models.ErrSlugInvalid):
		return http.StatusUnprocessableEntity, Error("invalid slug")
	case errors.Is(err, models.ErrSlugTaken):
		return http.StatusConflict, Error("slug already taken")
	case errors.Is(err, models.ErrEmailTaken):
		return http.StatusConflict, Error("email already taken")
	case errors.As(err, &limitErr):
		resp := Error(fmt.Sprintf("plan limit reached for %s", limitErr.Kind))
		resp.Limit = limitErr.Limit
		return http.StatusPaymentRequired, resp
	default:
		return http.StatusInternalServerError, Error("internal error")
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

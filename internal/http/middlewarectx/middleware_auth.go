// Package middlewarectx содержит HTTP middleware аутентификации и guard-ы
// авторизации поверх контекста запроса.
//
// JWTMiddleware проверяет токен из заголовка Authorization и кладет в контекст
// готовый authctx.Actor; guard-ы ниже по цепочке только сужают его тип.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/jwt"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// ActorKey — ключ, под которым Actor лежит в контексте запроса.
const ActorKey Key = "actor"

// ActorFromContext возвращает Actor запроса, положенный JWTMiddleware.
func ActorFromContext(ctx context.Context) (authctx.Actor, bool) {
	a, ok := ctx.Value(ActorKey).(authctx.Actor)
	return a, ok
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке
// Authorization и добавляет Actor в контекст запроса.
//
// Статусы различаются по причине отказа: отсутствующий заголовок, истекший
// и испорченный токен — три разных сообщения с кодом 401.
func JWTMiddleware(maker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.Error("token rejected", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				if errors.Is(err, models.ErrTokenExpired) {
					render.JSON(w, r, response.Error("token expired"))
				} else {
					render.JSON(w, r, response.Error("invalid token"))
				}
				return
			}

			actor, err := authctx.New(claims.UserID, claims.Email, claims.Role,
				claims.RestaurantID, claims.RestaurantSlug, claims.IsPlatformAdmin)
			if err != nil {
				log.Error("claims rejected", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// UserReader читает актуальное состояние пользователя из хранилища.
type UserReader interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// CheckUserMiddleware сверяет Actor из токена с текущим состоянием
// пользователя в БД. Токен живет сутки; уволенный сотрудник или
// пользователь со сменившейся ролью не должен действовать по старым claims.
func CheckUserMiddleware(repo UserReader, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.CheckUserMiddleware"

			actor, ok := ActorFromContext(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			user, err := repo.GetUserByID(r.Context(), actor.UserUID())
			if err != nil {
				log.Error("failed to load user for token check", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if !user.IsActive || diverged(actor, user) {
				log.Warn("token claims diverged from current user state",
					slog.String("user_id", user.ID))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// diverged сообщает, разошлись ли claims токена с состоянием пользователя в БД.
func diverged(actor authctx.Actor, user *models.User) bool {
	switch a := actor.(type) {
	case authctx.PlatformAdmin:
		return user.Role != models.RolePlatformAdmin
	case authctx.TenantUser:
		if user.Role != a.Role {
			return true
		}
		return user.RestaurantID == nil || *user.RestaurantID != a.RestaurantID
	default:
		return true
	}
}

package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/response"
)

// TenantFromContext возвращает TenantUser запроса. Второй результат false
// для платформенного админа и для запросов без аутентификации.
func TenantFromContext(ctx context.Context) (authctx.TenantUser, bool) {
	a, ok := ctx.Value(ActorKey).(authctx.Actor)
	if !ok {
		return authctx.TenantUser{}, false
	}
	u, ok := a.(authctx.TenantUser)
	return u, ok
}

// RequireActor пропускает любого аутентифицированного актора, включая
// платформенного админа. Ставится на маршруты чтения, где доступ к чужому
// заведению решает уже сервисный слой через authctx.CanAccess.
func RequireActor(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ActorFromContext(r.Context()); !ok {
				log.Warn("unauthenticated request on protected route", slog.String("path", r.URL.Path))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTenant пропускает только пользователей заведений. Платформенный
// админ не работает с операционными данными заведения от своего имени:
// для него есть отдельные маршруты /admin.
func RequireTenant(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := TenantFromContext(r.Context()); !ok {
				log.Warn("non-tenant actor on tenant route", slog.String("path", r.URL.Path))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePlatformAdmin пропускает только платформенного администратора.
func RequirePlatformAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := ActorFromContext(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if _, ok := a.(authctx.PlatformAdmin); !ok {
				log.Warn("non-admin actor on admin route", slog.String("path", r.URL.Path))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

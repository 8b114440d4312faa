package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/jwt"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

func tenantUser() *models.User {
	restaurantID := "a1b2c3d4-0000-0000-0000-000000000001"
	slug := "chaihana"
	return &models.User{
		ID:             "5b8e7c58-9d0e-4a2b-8f6f-1a2b3c4d5e6f",
		Email:          "owner@chaihana.example",
		Role:           models.RoleOwner,
		RestaurantID:   &restaurantID,
		RestaurantSlug: &slug,
		IsActive:       true,
	}
}

func TestJWTMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	maker := jwt.NewJWTMaker("test-secret-key", time.Hour, 24*time.Hour)

	validToken, err := maker.GenerateToken(tenantUser())
	require.NoError(t, err)

	expiredMaker := jwt.NewJWTMaker("test-secret-key", -time.Hour, 24*time.Hour)
	expiredToken, err := expiredMaker.GenerateToken(tenantUser())
	require.NoError(t, err)

	foreignMaker := jwt.NewJWTMaker("another-secret-key", time.Hour, 24*time.Hour)
	foreignToken, err := foreignMaker.GenerateToken(tenantUser())
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
		expectActor    bool
	}{
		{
			name:           "валидный токен проходит и кладет актора",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectActor:    true,
		},
		{
			name:           "нет заголовка",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "missing or invalid authorization header",
		},
		{
			name:           "заголовок без Bearer",
			authHeader:     validToken,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "missing or invalid authorization header",
		},
		{
			name:           "истекший токен дает отдельное сообщение",
			authHeader:     "Bearer " + expiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "token expired",
		},
		{
			name:           "токен с чужой подписью",
			authHeader:     "Bearer " + foreignToken,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "invalid token",
		},
		{
			name:           "мусор вместо токена",
			authHeader:     "Bearer not.a.token",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotActor authctx.Actor
			var actorOK bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotActor, actorOK = ActorFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			JWTMiddleware(maker, logger)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
					"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			}
			if tt.expectActor {
				require.True(t, actorOK)
				user, ok := gotActor.(authctx.TenantUser)
				require.True(t, ok)
				assert.Equal(t, "a1b2c3d4-0000-0000-0000-000000000001", user.RestaurantID)
				assert.Equal(t, models.RoleOwner, user.Role)
			}
		})
	}
}

func TestGuards(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tenant := authctx.TenantUser{
		UserID:       "5b8e7c58-9d0e-4a2b-8f6f-1a2b3c4d5e6f",
		Role:         models.RoleStaff,
		RestaurantID: "a1b2c3d4-0000-0000-0000-000000000001",
	}
	admin := authctx.PlatformAdmin{UserID: "9f8e7c58-0000-0000-0000-000000000042"}

	tests := []struct {
		name           string
		guard          func(http.Handler) http.Handler
		actor          authctx.Actor
		expectedStatus int
	}{
		{"RequireActor пропускает пользователя заведения", RequireActor(logger), tenant, http.StatusOK},
		{"RequireActor пропускает платформенного админа", RequireActor(logger), admin, http.StatusOK},
		{"RequireActor без актора", RequireActor(logger), nil, http.StatusUnauthorized},
		{"RequireTenant пропускает пользователя заведения", RequireTenant(logger), tenant, http.StatusOK},
		{"RequireTenant не пускает платформенного админа", RequireTenant(logger), admin, http.StatusForbidden},
		{"RequireTenant без актора", RequireTenant(logger), nil, http.StatusForbidden},
		{"RequirePlatformAdmin пропускает админа", RequirePlatformAdmin(logger), admin, http.StatusOK},
		{"RequirePlatformAdmin не пускает tenant-пользователя", RequirePlatformAdmin(logger), tenant, http.StatusForbidden},
		{"RequirePlatformAdmin без актора", RequirePlatformAdmin(logger), nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.actor != nil {
				req = req.WithContext(context.WithValue(req.Context(), ActorKey, tt.actor))
			}
			w := httptest.NewRecorder()

			tt.guard(next).ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

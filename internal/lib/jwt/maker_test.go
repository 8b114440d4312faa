package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

func strptr(s string) *string { return &s }

func tenantUser() *models.User {
	return &models.User{
		ID:             "u-1",
		Email:          "owner@cafe-a.example",
		Role:           models.RoleOwner,
		RestaurantID:   strptr("rest-1"),
		RestaurantSlug: strptr("cafe-a"),
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Hour, 24*time.Hour)

	token, err := maker.GenerateToken(tenantUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleOwner, claims.Role)
	require.NotNil(t, claims.RestaurantID)
	assert.Equal(t, "rest-1", *claims.RestaurantID)
	assert.Equal(t, "cafe-a", *claims.RestaurantSlug)
	assert.False(t, claims.IsPlatformAdmin)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestGenerateTokenPlatformAdmin(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Hour, 24*time.Hour)

	admin := &models.User{ID: "a-1", Email: "root@example.com", Role: models.RolePlatformAdmin}
	token, err := maker.GenerateToken(admin)
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsPlatformAdmin)
	assert.Nil(t, claims.RestaurantID)
}

func TestGenerateTokenMutualExclusivity(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Hour, 24*time.Hour)

	tests := []struct {
		name string
		user *models.User
	}{
		{
			name: "админ с restaurant_id",
			user: &models.User{ID: "a-1", Role: models.RolePlatformAdmin, RestaurantID: strptr("rest-1")},
		},
		{
			name: "владелец без restaurant_id",
			user: &models.User{ID: "u-1", Role: models.RoleOwner},
		},
		{
			name: "владелец с пустым restaurant_id",
			user: &models.User{ID: "u-1", Role: models.RoleOwner, RestaurantID: strptr("")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := maker.GenerateToken(tt.user)
			require.ErrorIs(t, err, models.ErrTokenInvalid)
		})
	}
}

func TestParseTokenExpired(t *testing.T) {
	maker := NewJWTMaker("test-secret", -time.Minute, 24*time.Hour)

	token, err := maker.GenerateToken(tenantUser())
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	require.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestParseTokenWrongSecret(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Hour, 24*time.Hour)
	other := NewJWTMaker("other-secret", time.Hour, 24*time.Hour)

	token, err := maker.GenerateToken(tenantUser())
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestParseForRenewal(t *testing.T) {
	t.Run("истекший внутри грейс-периода", func(t *testing.T) {
		maker := NewJWTMaker("test-secret", -time.Minute, 24*time.Hour)
		token, err := maker.GenerateToken(tenantUser())
		require.NoError(t, err)

		claims, err := maker.ParseForRenewal(token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
	})

	t.Run("истекший за пределами грейс-периода", func(t *testing.T) {
		maker := NewJWTMaker("test-secret", -48*time.Hour, 24*time.Hour)
		token, err := maker.GenerateToken(tenantUser())
		require.NoError(t, err)

		_, err = maker.ParseForRenewal(token)
		require.ErrorIs(t, err, models.ErrTokenExpired)
	})

	t.Run("чужая подпись не проходит даже в грейс", func(t *testing.T) {
		maker := NewJWTMaker("test-secret", time.Hour, 24*time.Hour)
		other := NewJWTMaker("other-secret", time.Hour, 24*time.Hour)
		token, err := maker.GenerateToken(tenantUser())
		require.NoError(t, err)

		_, err = other.ParseForRenewal(token)
		require.ErrorIs(t, err, models.ErrTokenInvalid)
	})
}

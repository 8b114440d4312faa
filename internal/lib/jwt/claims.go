// Package jwt реализует генерацию и парсинг JWT токенов с tenant-claims.
//
// Claims расширяет стандартные claims JWT полями пользователя и заведения.
// Инвариант взаимной исключительности — restaurant_id отсутствует тогда и только
// тогда, когда is_platform_admin — проверяется и при выпуске, и при разборе токена.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// TokenTypeAccess — единственный выпускаемый тип токена.
const TokenTypeAccess = "access"

// Claims описывает данные, хранящиеся в JWT.
type Claims struct {
	UserID               string  `json:"user_id"`
	Email                string  `json:"email"`
	Role                 string  `json:"role"`
	RestaurantID         *string `json:"restaurant_id"`
	RestaurantSlug       *string `json:"restaurant_slug"`
	IsPlatformAdmin      bool    `json:"is_platform_admin"`
	TokenType            string  `json:"token_type"`
	jwt.RegisteredClaims         // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// validateShape проверяет инвариант взаимной исключительности и тип токена.
func (c *Claims) validateShape() error {
	if c.TokenType != TokenTypeAccess {
		return models.ErrTokenInvalid
	}
	if c.IsPlatformAdmin != (c.RestaurantID == nil) {
		return models.ErrTokenInvalid
	}
	if !c.IsPlatformAdmin && *c.RestaurantID == "" {
		return models.ErrTokenInvalid
	}
	return nil
}

// GenerateToken создает подписанный access-токен для пользователя.
//
// Выпуск отклоняется, если роль и привязка к заведению нарушают инвариант:
// platform_admin не может нести restaurant_id, любая другая роль обязана его нести.
func (j *MakerImpl) GenerateToken(user *models.User) (string, error) {
	const op = "jwt.GenerateToken"

	isAdmin := user.Role == models.RolePlatformAdmin
	if isAdmin && user.RestaurantID != nil {
		return "", fmt.Errorf("%s: platform admin must not carry restaurant_id: %w", op, models.ErrTokenInvalid)
	}
	if !isAdmin && (user.RestaurantID == nil || *user.RestaurantID == "") {
		return "", fmt.Errorf("%s: tenant user must carry restaurant_id: %w", op, models.ErrTokenInvalid)
	}

	claims := Claims{
		UserID:          user.ID,
		Email:           user.Email,
		Role:            user.Role,
		RestaurantID:    user.RestaurantID,
		RestaurantSlug:  user.RestaurantSlug,
		IsPlatformAdmin: isAdmin,
		TokenType:       TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит токен, проверяет подпись, срок действия и форму claims.
//
// Истекший токен и токен с плохой подписью дают разные ошибки таксономии,
// чтобы клиент мог отличить "обновить" от "перелогиниться".
func (j *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w", op, models.ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTokenInvalid)
	}
	if err := claims.validateShape(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}

// ParseForRenewal разбирает токен для операции обновления: подпись обязана быть
// верной, истечение допускается в пределах renewGrace.
func (j *MakerImpl) ParseForRenewal(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseForRenewal"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTokenInvalid)
	}
	if err := claims.validateShape(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTokenInvalid)
	}
	if time.Since(claims.ExpiresAt.Time) > j.renewGrace {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTokenExpired)
	}
	return claims, nil
}

// Package authctx определяет контекст аутентификации запроса.
//
// Вместо nullable-поля restaurant_id контекст смоделирован как явный
// тип-сумма: PlatformAdmin либо TenantUser. Это переносит проверку
// "а есть ли tenant" с забываемых nil-чеков на уровень типов.
package authctx

import (
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// Actor — контекст аутентификации, построенный один раз на запрос
// из проверенного токена. Неизменяем и никогда не персистится.
type Actor interface {
	// UserUID возвращает идентификатор пользователя.
	UserUID() string
	actor()
}

// PlatformAdmin — платформенная идентичность без привязки к заведению.
type PlatformAdmin struct {
	UserID string
	Email  string
}

// TenantUser — идентичность, принадлежащая ровно одному заведению.
type TenantUser struct {
	UserID         string
	Email          string
	Role           string
	RestaurantID   string
	RestaurantSlug string
}

func (a PlatformAdmin) actor()          {}
func (a PlatformAdmin) UserUID() string { return a.UserID }

func (u TenantUser) actor()          {}
func (u TenantUser) UserUID() string { return u.UserID }

// IsOwner сообщает, является ли пользователь владельцем своего заведения.
func (u TenantUser) IsOwner() bool { return u.Role == models.RoleOwner }

// CanAccess — единственное правило авторизации, которому обязан удовлетворять
// каждый доступ к ресурсу: платформенный админ либо совпадение tenant id.
// Все остальные guard-ы — его специализации или предусловия.
func CanAccess(a Actor, restaurantID string) bool {
	switch v := a.(type) {
	case PlatformAdmin:
		return true
	case TenantUser:
		return v.RestaurantID == restaurantID
	default:
		return false
	}
}

// New собирает Actor из проверенных claims, контролируя взаимную исключительность:
// platform_admin без заведения, любой другой — строго с заведением.
func New(userID, email, role string, restaurantID, restaurantSlug *string, isPlatformAdmin bool) (Actor, error) {
	if isPlatformAdmin {
		if restaurantID != nil {
			return nil, models.ErrTokenInvalid
		}
		return PlatformAdmin{UserID: userID, Email: email}, nil
	}
	if restaurantID == nil || *restaurantID == "" {
		return nil, models.ErrTokenInvalid
	}
	var slug string
	if restaurantSlug != nil {
		slug = *restaurantSlug
	}
	return TenantUser{
		UserID:         userID,
		Email:          email,
		Role:           role,
		RestaurantID:   *restaurantID,
		RestaurantSlug: slug,
	}, nil
}

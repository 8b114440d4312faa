package models

import "time"

// Роли пользователей. PlatformAdmin не привязан ни к одному заведению,
// остальные роли существуют только внутри своего заведения.
const (
	RolePlatformAdmin = "platform_admin"
	RoleOwner         = "owner"
	RoleManager       = "manager"
	RoleStaff         = "staff"
)

// User представляет учетную запись.
// RestaurantID == nil тогда и только тогда, когда роль — platform_admin:
// это единственное поле, по которому различаются платформенная и tenant-идентичность.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	PasswordHash   string     `json:"-"`
	Role           string     `json:"role"`
	RestaurantID   *string    `json:"restaurant_id,omitempty"`
	RestaurantSlug *string    `json:"restaurant_slug,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

// DummyStaff используется для приёма данных из JSON-запроса при найме сотрудника.
// Роль ограничена manager и staff: второго владельца или платформенного
// админа через этот путь создать нельзя.
type DummyStaff struct {
	Email        string `json:"email" validate:"required,email"`
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required,min=8"`
	Role         string `json:"role" validate:"required,oneof=manager staff"`
	RestaurantID string `json:"restaurant_id"`
}

package models

import "time"

// Customer — гость заведения с накопительными баллами лояльности.
type Customer struct {
	ID            string    `json:"id"`
	RestaurantID  string    `json:"restaurant_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	LoyaltyPoints int       `json:"loyalty_points"`
	CreatedAt     time.Time `json:"created_at"`
}

// DummyCustomer используется для приёма данных из JSON-запроса.
type DummyCustomer struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email" validate:"omitempty,email"`
	RestaurantID string `json:"restaurant_id"`
}

// TableCode — QR-код столика: постоянный токен, по которому гость
// открывает публичное меню заведения без авторизации.
type TableCode struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	TableLabel   string    `json:"table_label"`
	Token        string    `json:"token"`
	CreatedAt    time.Time `json:"created_at"`
}

// DummyTableCode используется для приёма данных из JSON-запроса.
type DummyTableCode struct {
	TableLabel   string `json:"table_label" validate:"required"`
	RestaurantID string `json:"restaurant_id"`
}

package models

import "time"

// Product — позиция меню заведения.
// RestaurantID назначается один раз при создании из проверенного контекста запроса.
type Product struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	PriceCents   int       `json:"price_cents"`
	Category     string    `json:"category,omitempty"`
	IsAvailable  bool      `json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
}

// DummyProduct используется для приёма данных из JSON-запроса до конвертации в Product.
// Поле RestaurantID здесь присутствует только для того, чтобы отклонить запросы,
// пытающиеся назначить чужое заведение: сервер берет tenant только из токена.
type DummyProduct struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	PriceCents   int    `json:"price_cents" validate:"required,gt=0"`
	Category     string `json:"category"`
	IsAvailable  *bool  `json:"is_available"`
	RestaurantID string `json:"restaurant_id"`
}

package models

import "time"

// Статусы заказа.
const (
	OrderOpen      = "open"
	OrderPaid      = "paid"
	OrderCancelled = "cancelled"
)

// Order — заказ гостя. Суммы хранятся в копейках.
// Заказ учитывается в месячном счетчике current_orders_this_month заведения.
type Order struct {
	ID                  string      `json:"id"`
	RestaurantID        string      `json:"restaurant_id"`
	CustomerID          *string     `json:"customer_id,omitempty"`
	TableCodeID         *string     `json:"table_code_id,omitempty"`
	Status              string      `json:"status"`
	SubtotalCents       int         `json:"subtotal_cents"`
	TaxCents            int         `json:"tax_cents"`
	TotalCents          int         `json:"total_cents"`
	LoyaltyPointsEarned int         `json:"loyalty_points_earned"`
	Items               []OrderItem `json:"items,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
}

// OrderItem — строка заказа со снапшотом названия и цены товара на момент продажи.
type OrderItem struct {
	ID             int    `json:"id"`
	OrderID        string `json:"order_id"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	UnitPriceCents int    `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// DummyOrder используется для приёма данных из JSON-запроса.
type DummyOrder struct {
	CustomerID   string           `json:"customer_id"`
	TableCodeID  string           `json:"table_code_id"`
	Items        []DummyOrderItem `json:"items" validate:"required,min=1,dive"`
	RestaurantID string           `json:"restaurant_id"`
}

// DummyOrderItem — строка заказа из JSON-запроса.
type DummyOrderItem struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

package models

// Plan описывает тарифный план — справочные данные, неизменяемые со стороны запросов.
// Лимиты копируются в заведение в момент назначения тарифа.
type Plan struct {
	Name              string `json:"name"`
	DisplayName       string `json:"display_name"`
	PriceMonthly      int    `json:"price_monthly"` // в копейках
	PriceYearly       int    `json:"price_yearly"`
	MaxUsers          int    `json:"max_users"`
	MaxProducts       int    `json:"max_products"`
	MaxOrdersPerMonth int    `json:"max_orders_per_month"`
	Features          string `json:"features,omitempty"`
	IsActive          bool   `json:"is_active"`
	IsPublic          bool   `json:"is_public"`
}

// Subscription — историческая/биллинговая запись подписки заведения.
// У заведения одновременно может быть только одна подписка в статусе trial или active.
type Subscription struct {
	ID               int    `json:"id"`
	RestaurantID     string `json:"restaurant_id"`
	PlanName         string `json:"plan_name"`
	Status           string `json:"status"`
	PeriodStart      string `json:"period_start"`
	PeriodEnd        string `json:"period_end,omitempty"`
	PaymentReference string `json:"payment_reference,omitempty"`
}

// Package models содержит доменные структуры системы: заведения, тарифы,
// пользователей и tenant-scoped ресурсы (товары, заказы, гостей).
package models

import "time"

// Статусы подписки заведения.
const (
	SubscriptionTrial     = "trial"
	SubscriptionActive    = "active"
	SubscriptionSuspended = "suspended"
	SubscriptionCancelled = "cancelled"
)

// Restaurant представляет одно заведение — единицу изоляции данных.
// Счётчики current_* ведутся инкрементально обработчиками ресурсов
// и меняются только атомарными условными UPDATE на стороне БД.
type Restaurant struct {
	ID                     string     `json:"id"`
	Name                   string     `json:"name"`
	Slug                   string     `json:"slug"` // глобально уникальный человекочитаемый идентификатор
	PlanName               string     `json:"plan_name"`
	SubscriptionStatus     string     `json:"subscription_status"`
	TrialEndsAt            *time.Time `json:"trial_ends_at,omitempty"`
	IsActive               bool       `json:"is_active"`
	SuspensionReason       string     `json:"suspension_reason,omitempty"`
	CurrentUsers           int        `json:"current_users"`
	CurrentProducts        int        `json:"current_products"`
	CurrentOrdersThisMonth int        `json:"current_orders_this_month"`
	MaxUsers               int        `json:"max_users"`
	MaxProducts            int        `json:"max_products"`
	MaxOrdersPerMonth      int        `json:"max_orders_per_month"`
	OrdersResetAt          time.Time  `json:"orders_reset_at"`
	CreatedAt              time.Time  `json:"created_at"`
}

// SubscriptionIsActive сообщает, разрешены ли заведению мутирующие операции:
// статус active либо trial в пределах пробного окна.
func (r *Restaurant) SubscriptionIsActive(now time.Time) bool {
	switch r.SubscriptionStatus {
	case SubscriptionActive:
		return true
	case SubscriptionTrial:
		return r.TrialEndsAt == nil || now.Before(*r.TrialEndsAt)
	default:
		return false
	}
}

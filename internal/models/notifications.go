package models

// TrialExpiredInfo — сообщение планировщика о приостановленном заведении,
// публикуется в очередь уведомлений и уходит письмом владельцу.
type TrialExpiredInfo struct {
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	Slug           string `json:"slug"`
	OwnerEmail     string `json:"owner_email"`
}

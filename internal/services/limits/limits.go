// Package limits реализует гейт подписки для мутирующих операций.
//
// Сами лимиты тарифа применяются атомарными условными UPDATE в хранилище,
// в одной транзакции со вставкой ресурса; этот сервис отвечает за предусловие:
// заведению с неактивной подпиской любые записи запрещены до проверки лимитов.
package limits

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// RestaurantRepository определяет чтение заведения из хранилища.
type RestaurantRepository interface {
	ReadRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
}

// Enforcer проверяет состояние подписки заведения.
type Enforcer struct {
	repo RestaurantRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewEnforcer создает новый экземпляр Enforcer.
func NewEnforcer(repo RestaurantRepository, log *slog.Logger) *Enforcer {
	return &Enforcer{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// EnsureActive разрешает мутирующую операцию только заведению со статусом
// active либо trial в пределах пробного окна. Любой другой статус — отказ
// с ErrSubscriptionInactive, независимо от остатка квоты.
func (e *Enforcer) EnsureActive(ctx context.Context, restaurantID string) error {
	const op = "limits.EnsureActive"

	r, err := e.repo.ReadRestaurant(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !r.SubscriptionIsActive(e.now()) {
		e.log.Info("write rejected: subscription inactive",
			sl.Restaurant(restaurantID),
			slog.String("status", r.SubscriptionStatus))
		return fmt.Errorf("%s: %w", op, models.ErrSubscriptionInactive)
	}
	return nil
}

// Usage возвращает текущие счетчики и лимиты заведения — для витрины биллинга.
func (e *Enforcer) Usage(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	const op = "limits.Usage"
	r, err := e.repo.ReadRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

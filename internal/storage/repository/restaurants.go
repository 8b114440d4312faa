package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

const restaurantColumns = `id, name, slug, plan_name, subscription_status, trial_ends_at,
			  is_active, COALESCE(suspension_reason, ''), current_users, current_products,
			  current_orders_this_month, max_users, max_products, max_orders_per_month,
			  orders_reset_at, created_at`

func scanRestaurant(row interface{ Scan(...any) error }) (*models.Restaurant, error) {
	var r models.Restaurant
	err := row.Scan(&r.ID, &r.Name, &r.Slug, &r.PlanName, &r.SubscriptionStatus, &r.TrialEndsAt,
		&r.IsActive, &r.SuspensionReason, &r.CurrentUsers, &r.CurrentProducts,
		&r.CurrentOrdersThisMonth, &r.MaxUsers, &r.MaxProducts, &r.MaxOrdersPerMonth,
		&r.OrdersResetAt, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRestaurantWithOwner вставляет новое заведение с лимитами, скопированными
// из тарифа, открывает стартовую trial-подписку и создает владельца.
// Владелец занимает первую единицу лимита users. Все — в одной транзакции.
func (s *Storage) CreateRestaurantWithOwner(ctx context.Context, r models.Restaurant, owner models.User) error {
	const op = "storage.CreateRestaurantWithOwner"

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO restaurants (id, name, slug, plan_name, subscription_status, trial_ends_at,
			      is_active, max_users, max_products, max_orders_per_month, orders_reset_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, date_trunc('month', now()))`
	_, err = tx.ExecContext(ctx, query,
		r.ID, r.Name, r.Slug, r.PlanName, r.SubscriptionStatus, r.TrialEndsAt,
		r.IsActive, r.MaxUsers, r.MaxProducts, r.MaxOrdersPerMonth)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, models.ErrSlugTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO subscriptions (restaurant_id, plan_name, status, period_start, period_end)
			 VALUES ($1, $2, $3, now(), $4)`
	if _, err = tx.ExecContext(ctx, query, r.ID, r.PlanName, r.SubscriptionStatus, r.TrialEndsAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = s.ReserveUsage(ctx, tx, r.ID, models.KindUsers); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.RegisterUser(ctx, tx, owner); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadRestaurant возвращает заведение по ID.
func (s *Storage) ReadRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	const op = "storage.ReadRestaurant"

	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`
	r, err := scanRestaurant(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// ReadRestaurantBySlug возвращает заведение по его slug.
func (s *Storage) ReadRestaurantBySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	const op = "storage.ReadRestaurantBySlug"

	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE slug = $1`
	r, err := scanRestaurant(s.DB.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// ListRestaurants возвращает все заведения с пагинацией. Только для платформенного админа.
func (s *Storage) ListRestaurants(ctx context.Context, limit, offset int) ([]*models.Restaurant, error) {
	const op = "storage.ListRestaurants"

	query := `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateRestaurantProfile обновляет название заведения. Slug и tenant id неизменяемы.
func (s *Storage) UpdateRestaurantProfile(ctx context.Context, id, name string) (int, error) {
	const op = "storage.UpdateRestaurantProfile"

	result, err := s.DB.ExecContext(ctx, `UPDATE restaurants SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetSuspension переключает статус подписки заведения.
// При приостановке сохраняется причина, при активации — очищается.
func (s *Storage) SetSuspension(ctx context.Context, id, status, reason string) (int, error) {
	const op = "storage.SetSuspension"

	query := `UPDATE restaurants SET subscription_status = $1, suspension_reason = NULLIF($2, '')
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, status, reason, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ChangePlan переводит заведение на другой тариф: лимиты копируются из тарифа,
// текущая подписка закрывается и открывается новая активная.
func (s *Storage) ChangePlan(ctx context.Context, restaurantID string, plan *models.Plan) error {
	const op = "storage.ChangePlan"

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE restaurants
			  SET plan_name = $1, max_users = $2, max_products = $3, max_orders_per_month = $4,
			      subscription_status = $5, suspension_reason = NULL
			  WHERE id = $6`
	result, err := tx.ExecContext(ctx, query,
		plan.Name, plan.MaxUsers, plan.MaxProducts, plan.MaxOrdersPerMonth,
		models.SubscriptionActive, restaurantID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	query = `UPDATE subscriptions SET status = 'cancelled', period_end = now()
			 WHERE restaurant_id = $1 AND status IN ('trial', 'active')`
	if _, err = tx.ExecContext(ctx, query, restaurantID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO subscriptions (restaurant_id, plan_name, status, period_start)
			 VALUES ($1, $2, 'active', now())`
	if _, err = tx.ExecContext(ctx, query, restaurantID, plan.Name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetMonthlyOrderCounters обнуляет месячные счетчики заказов у заведений,
// не сбрасывавшихся в текущем календарном месяце. Возвращает число затронутых строк.
func (s *Storage) ResetMonthlyOrderCounters(ctx context.Context) (int, error) {
	const op = "storage.ResetMonthlyOrderCounters"

	query := `UPDATE restaurants
			  SET current_orders_this_month = 0, orders_reset_at = now()
			  WHERE orders_reset_at < date_trunc('month', now())`
	result, err := s.DB.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SuspendExpiredTrials приостанавливает заведения с истекшим пробным периодом
// и возвращает email-ы владельцев для уведомлений.
func (s *Storage) SuspendExpiredTrials(ctx context.Context) ([]*models.TrialExpiredInfo, error) {
	const op = "storage.SuspendExpiredTrials"

	query := `UPDATE restaurants
			  SET subscription_status = 'suspended', suspension_reason = 'trial expired'
			  WHERE subscription_status = 'trial' AND trial_ends_at < now()
			  RETURNING id, name, slug`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var expired []*models.TrialExpiredInfo
	for rows.Next() {
		var info models.TrialExpiredInfo
		if err := rows.Scan(&info.RestaurantID, &info.RestaurantName, &info.Slug); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		expired = append(expired, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, info := range expired {
		err := s.DB.QueryRowContext(ctx,
			`SELECT email FROM users WHERE restaurant_id = $1 AND role = 'owner' LIMIT 1`,
			info.RestaurantID).Scan(&info.OwnerEmail)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return expired, nil
}

// TouchTrialEndsAt используется тестами и админ-операциями для сдвига пробного окна.
func (s *Storage) TouchTrialEndsAt(ctx context.Context, id string, until time.Time) error {
	const op = "storage.TouchTrialEndsAt"
	_, err := s.DB.ExecContext(ctx, `UPDATE restaurants SET trial_ends_at = $1 WHERE id = $2`, until, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// usageColumns сопоставляет вид счетного ресурса паре колонок счетчик/лимит.
var usageColumns = map[string][2]string{
	models.KindUsers:    {"current_users", "max_users"},
	models.KindProducts: {"current_products", "max_products"},
	models.KindOrders:   {"current_orders_this_month", "max_orders_per_month"},
}

// ReserveUsage атомарно занимает единицу лимита: проверка и инкремент — один
// UPDATE с условием current < max, поэтому конкурентные создания не могут
// совместно проскочить лимит. Ноль затронутых строк означает либо исчерпанный
// лимит, либо отсутствие заведения; случаи разводятся дочитыванием лимита.
// Вызывается в транзакции вставки ресурса: откат вставки откатывает и резерв.
func (s *Storage) ReserveUsage(ctx context.Context, tx *sql.Tx, restaurantID, kind string) error {
	const op = "storage.ReserveUsage"

	cols, ok := usageColumns[kind]
	if !ok {
		return fmt.Errorf("%s: unknown usage kind %q", op, kind)
	}

	query := fmt.Sprintf(`UPDATE restaurants SET %[1]s = %[1]s + 1
			  WHERE id = $1 AND %[1]s < %[2]s`, cols[0], cols[1])
	result, err := tx.ExecContext(ctx, query, restaurantID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var limit int
	query = fmt.Sprintf(`SELECT %s FROM restaurants WHERE id = $1`, cols[1])
	err = tx.QueryRowContext(ctx, query, restaurantID).Scan(&limit)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, &models.LimitExceededError{Kind: kind, Limit: limit})
}

// ReleaseUsage возвращает единицу лимита при удалении ресурса.
// Счетчик не опускается ниже нуля.
func (s *Storage) ReleaseUsage(ctx context.Context, tx *sql.Tx, restaurantID, kind string) error {
	const op = "storage.ReleaseUsage"

	cols, ok := usageColumns[kind]
	if !ok {
		return fmt.Errorf("%s: unknown usage kind %q", op, kind)
	}

	query := fmt.Sprintf(`UPDATE restaurants SET %[1]s = GREATEST(%[1]s - 1, 0) WHERE id = $1`, cols[0])
	if _, err := tx.ExecContext(ctx, query, restaurantID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

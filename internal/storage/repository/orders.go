package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

const orderColumns = `id, restaurant_id, customer_id, table_code_id, status,
			  subtotal_cents, tax_cents, total_cents, loyalty_points_earned, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.RestaurantID, &o.CustomerID, &o.TableCodeID, &o.Status,
		&o.SubtotalCents, &o.TaxCents, &o.TotalCents, &o.LoyaltyPointsEarned, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder в одной транзакции резервирует единицу месячного лимита заказов
// и вставляет заказ со строками. Баллы лояльности здесь не начисляются:
// начисление происходит при переводе заказа в статус paid.
func (s *Storage) CreateOrder(ctx context.Context, o models.Order) error {
	const op = "storage.CreateOrder"

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.ReserveUsage(ctx, tx, o.RestaurantID, models.KindOrders); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO orders (id, restaurant_id, customer_id, table_code_id, status,
			      subtotal_cents, tax_cents, total_cents, loyalty_points_earned)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.ExecContext(ctx, query,
		o.ID, o.RestaurantID, o.CustomerID, o.TableCodeID, o.Status,
		o.SubtotalCents, o.TaxCents, o.TotalCents, o.LoyaltyPointsEarned)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, item := range o.Items {
		query = `INSERT INTO order_items (order_id, product_id, product_name, unit_price_cents, quantity)
				 VALUES ($1, $2, $3, $4, $5)`
		if _, err = tx.ExecContext(ctx, query,
			o.ID, item.ProductID, item.ProductName, item.UnitPriceCents, item.Quantity); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadOrder возвращает заказ заведения вместе со строками.
// Пустой restaurantID снимает tenant-фильтр (режим платформенного админа).
func (s *Storage) ReadOrder(ctx context.Context, restaurantID, id string) (*models.Order, error) {
	const op = "storage.ReadOrder"

	query := `SELECT ` + orderColumns + ` FROM orders
			  WHERE id = $1 AND ($2 = '' OR restaurant_id = $2::uuid)`
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query, id, restaurantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, order_id, product_id, product_name, unit_price_cents, quantity
		 FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.ProductName, &item.UnitPriceCents, &item.Quantity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// ListOrders возвращает заказы заведения с пагинацией, без строк.
func (s *Storage) ListOrders(ctx context.Context, restaurantID string, limit, offset int) ([]*models.Order, error) {
	const op = "storage.ListOrders"

	query := `SELECT ` + orderColumns + ` FROM orders
			  WHERE restaurant_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, restaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateOrderStatus переводит заказ в новый статус в пределах заведения.
func (s *Storage) UpdateOrderStatus(ctx context.Context, restaurantID, id, status string) (int, error) {
	const op = "storage.UpdateOrderStatus"

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var oldStatus string
	var customerID *string
	var points int
	err = tx.QueryRowContext(ctx,
		`SELECT status, customer_id, loyalty_points_earned FROM orders
		 WHERE id = $1 AND restaurant_id = $2 FOR UPDATE`,
		id, restaurantID).Scan(&oldStatus, &customerID, &points)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 AND restaurant_id = $3`,
		status, id, restaurantID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	// Баллы ходят вместе со статусом paid: начисление при оплате,
	// возврат при уходе из paid (отмена, переоткрытие).
	if customerID != nil && points > 0 {
		var delta int
		switch {
		case oldStatus != models.OrderPaid && status == models.OrderPaid:
			delta = points
		case oldStatus == models.OrderPaid && status != models.OrderPaid:
			delta = -points
		}
		if delta != 0 {
			if _, err = tx.ExecContext(ctx,
				`UPDATE customers SET loyalty_points = GREATEST(loyalty_points + $1, 0)
				 WHERE id = $2 AND restaurant_id = $3`,
				delta, *customerID, restaurantID); err != nil {
				return 0, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return 1, nil
}

// RemoveOrder удаляет заказ заведения и освобождает единицу месячного лимита
// в одной транзакции. Строки заказа удаляются каскадом.
func (s *Storage) RemoveOrder(ctx context.Context, restaurantID, id string) error {
	const op = "storage.RemoveOrder"

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var status string
	var customerID *string
	var points int
	err = tx.QueryRowContext(ctx,
		`SELECT status, customer_id, loyalty_points_earned FROM orders
		 WHERE id = $1 AND restaurant_id = $2 FOR UPDATE`,
		id, restaurantID).Scan(&status, &customerID, &points)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM orders WHERE id = $1 AND restaurant_id = $2`, id, restaurantID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Удаление оплаченного заказа возвращает начисленные по нему баллы.
	if status == models.OrderPaid && customerID != nil && points > 0 {
		if _, err = tx.ExecContext(ctx,
			`UPDATE customers SET loyalty_points = GREATEST(loyalty_points - $1, 0)
			 WHERE id = $2 AND restaurant_id = $3`,
			points, *customerID, restaurantID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.ReleaseUsage(ctx, tx, restaurantID, models.KindOrders); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

const customerColumns = `id, restaurant_id, name, COALESCE(phone, ''), COALESCE(email, ''),
			  loyalty_points, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.Phone, &c.Email,
		&c.LoyaltyPoints, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCustomer вставляет нового гостя заведения. Гости не лимитируются тарифом.
func (s *Storage) CreateCustomer(ctx context.Context, c models.Customer) error {
	const op = "storage.CreateCustomer"

	query := `INSERT INTO customers (id, restaurant_id, name, phone, email)
			  VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))`
	_, err := s.DB.ExecContext(ctx, query, c.ID, c.RestaurantID, c.Name, c.Phone, c.Email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadCustomer возвращает гостя заведения.
// Пустой restaurantID снимает tenant-фильтр (режим платформенного админа).
func (s *Storage) ReadCustomer(ctx context.Context, restaurantID, id string) (*models.Customer, error) {
	const op = "storage.ReadCustomer"

	query := `SELECT ` + customerColumns + ` FROM customers
			  WHERE id = $1 AND ($2 = '' OR restaurant_id = $2::uuid)`
	c, err := scanCustomer(s.DB.QueryRowContext(ctx, query, id, restaurantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListCustomers возвращает гостей заведения с пагинацией.
func (s *Storage) ListCustomers(ctx context.Context, restaurantID string, limit, offset int) ([]*models.Customer, error) {
	const op = "storage.ListCustomers"

	query := `SELECT ` + customerColumns + ` FROM customers
			  WHERE restaurant_id = $1
			  ORDER BY created_at
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, restaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCustomer обновляет данные гостя в пределах заведения.
// Баллы лояльности мутируются только заказами, не этим методом.
func (s *Storage) UpdateCustomer(ctx context.Context, c models.Customer) (int, error) {
	const op = "storage.UpdateCustomer"

	query := `UPDATE customers
			  SET name = $1, phone = NULLIF($2, ''), email = NULLIF($3, '')
			  WHERE id = $4 AND restaurant_id = $5`
	result, err := s.DB.ExecContext(ctx, query, c.Name, c.Phone, c.Email, c.ID, c.RestaurantID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveCustomer удаляет гостя заведения.
func (s *Storage) RemoveCustomer(ctx context.Context, restaurantID, id string) (int, error) {
	const op = "storage.RemoveCustomer"

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM customers WHERE id = $1 AND restaurant_id = $2`, id, restaurantID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

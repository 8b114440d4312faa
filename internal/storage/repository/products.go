package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

const productColumns = `id, restaurant_id, name, COALESCE(description, ''), price_cents,
			  COALESCE(category, ''), is_available, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.RestaurantID, &p.Name, &p.Description, &p.PriceCents,
		&p.Category, &p.IsAvailable, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct резервирует единицу лимита products и вставляет товар
// в одной транзакции.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) error {
	const op = "storage.CreateProduct"

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.ReserveUsage(ctx, tx, p.RestaurantID, models.KindProducts); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO products (id, restaurant_id, name, description, price_cents, category, is_available)
			  VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7)`
	_, err = tx.ExecContext(ctx, query,
		p.ID, p.RestaurantID, p.Name, p.Description, p.PriceCents, p.Category, p.IsAvailable)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadProduct возвращает товар заведения. Пустой restaurantID снимает tenant-фильтр —
// этот режим доступен только платформенному админу.
func (s *Storage) ReadProduct(ctx context.Context, restaurantID, id string) (*models.Product, error) {
	const op = "storage.ReadProduct"

	query := `SELECT ` + productColumns + ` FROM products
			  WHERE id = $1 AND ($2 = '' OR restaurant_id = $2::uuid)`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, id, restaurantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListProducts возвращает товары заведения с пагинацией.
func (s *Storage) ListProducts(ctx context.Context, restaurantID string, limit, offset int) ([]*models.Product, error) {
	const op = "storage.ListProducts"

	query := `SELECT ` + productColumns + ` FROM products
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

	var result []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAvailableProducts возвращает доступные позиции меню — публичная выдача QR-меню.
func (s *Storage) ListAvailableProducts(ctx context.Context, restaurantID string) ([]*models.Product, error) {
	const op = "storage.ListAvailableProducts"

	query := `SELECT ` + productColumns + ` FROM products
			  WHERE restaurant_id = $1 AND is_available = true
			  ORDER BY category, name`
	rows, err := s.DB.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProduct обновляет товар в пределах заведения. Tenant id неизменяем.
func (s *Storage) UpdateProduct(ctx context.Context, p models.Product) (int, error) {
	const op = "storage.UpdateProduct"

	query := `UPDATE products
			  SET name = $1, description = NULLIF($2, ''), price_cents = $3,
			      category = NULLIF($4, ''), is_available = $5
			  WHERE id = $6 AND restaurant_id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		p.Name, p.Description, p.PriceCents, p.Category, p.IsAvailable, p.ID, p.RestaurantID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveProduct удаляет товар заведения и освобождает единицу лимита
// в одной транзакции.
func (s *Storage) RemoveProduct(ctx context.Context, restaurantID, id string) error {
	const op = "storage.RemoveProduct"

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1 AND restaurant_id = $2`, id, restaurantID)
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

	if err := s.ReleaseUsage(ctx, tx, restaurantID, models.KindProducts); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// CreateTableCode вставляет новый QR-код столика.
func (s *Storage) CreateTableCode(ctx context.Context, tc models.TableCode) error {
	const op = "storage.CreateTableCode"

	query := `INSERT INTO table_codes (id, restaurant_id, table_label, token)
			  VALUES ($1, $2, $3, $4)`
	if _, err := s.DB.ExecContext(ctx, query, tc.ID, tc.RestaurantID, tc.TableLabel, tc.Token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListTableCodes возвращает QR-коды столиков заведения.
func (s *Storage) ListTableCodes(ctx context.Context, restaurantID string) ([]*models.TableCode, error) {
	const op = "storage.ListTableCodes"

	query := `SELECT id, restaurant_id, table_label, token, created_at
			  FROM table_codes WHERE restaurant_id = $1 ORDER BY table_label`
	rows, err := s.DB.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TableCode
	for rows.Next() {
		var tc models.TableCode
		if err := rows.Scan(&tc.ID, &tc.RestaurantID, &tc.TableLabel, &tc.Token, &tc.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadTableCode возвращает QR-код столика заведения по идентификатору.
func (s *Storage) ReadTableCode(ctx context.Context, restaurantID, id string) (*models.TableCode, error) {
	const op = "storage.ReadTableCode"

	query := `SELECT id, restaurant_id, table_label, token, created_at
			  FROM table_codes WHERE id = $1 AND restaurant_id = $2`
	var tc models.TableCode
	err := s.DB.QueryRowContext(ctx, query, id, restaurantID).
		Scan(&tc.ID, &tc.RestaurantID, &tc.TableLabel, &tc.Token, &tc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &tc, nil
}

// ReadTableCodeByToken возвращает QR-код по публичному токену — вход гостевого меню.
func (s *Storage) ReadTableCodeByToken(ctx context.Context, token string) (*models.TableCode, error) {
	const op = "storage.ReadTableCodeByToken"

	query := `SELECT id, restaurant_id, table_label, token, created_at
			  FROM table_codes WHERE token = $1`
	var tc models.TableCode
	err := s.DB.QueryRowContext(ctx, query, token).
		Scan(&tc.ID, &tc.RestaurantID, &tc.TableLabel, &tc.Token, &tc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &tc, nil
}

// RemoveTableCode удаляет QR-код столика заведения.
func (s *Storage) RemoveTableCode(ctx context.Context, restaurantID, id string) (int, error) {
	const op = "storage.RemoveTableCode"

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM table_codes WHERE id = $1 AND restaurant_id = $2`, id, restaurantID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

const userColumns = `u.id, u.email, u.username, u.password_hash, u.role, u.restaurant_id,
			  r.slug, u.is_active, u.created_at, u.last_login_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.RestaurantID,
		&u.RestaurantSlug, &u.IsActive, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RegisterUser сохраняет нового пользователя. Для tenant-пользователей вызывающий
// обязан предварительно зарезервировать единицу лимита users в той же транзакции.
func (s *Storage) RegisterUser(ctx context.Context, tx *sql.Tx, user models.User) error {
	const op = "storage.RegisterUser"

	query := `INSERT INTO users (id, email, username, password_hash, role, restaurant_id, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var execer interface {
		ExecContext(context.Context, string, ...any) (sql.Result, error)
	} = s.DB
	if tx != nil {
		execer = tx
	}
	_, err := execer.ExecContext(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.Role, user.RestaurantID, user.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, models.ErrEmailTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateStaff резервирует единицу лимита users и создает сотрудника заведения
// в одной транзакции.
func (s *Storage) CreateStaff(ctx context.Context, user models.User) error {
	const op = "storage.CreateStaff"

	if user.RestaurantID == nil {
		return fmt.Errorf("%s: staff user must carry restaurant_id", op)
	}

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.ReserveUsage(ctx, tx, *user.RestaurantID, models.KindUsers); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.RegisterUser(ctx, tx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByEmail возвращает пользователя по email, включая slug его заведения.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT ` + userColumns + `
			  FROM users u LEFT JOIN restaurants r ON u.restaurant_id = r.id
			  WHERE u.email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по id.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"

	query := `SELECT ` + userColumns + `
			  FROM users u LEFT JOIN restaurants r ON u.restaurant_id = r.id
			  WHERE u.id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListStaff возвращает сотрудников заведения.
func (s *Storage) ListStaff(ctx context.Context, restaurantID string, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListStaff"

	query := `SELECT ` + userColumns + `
			  FROM users u JOIN restaurants r ON u.restaurant_id = r.id
			  WHERE u.restaurant_id = $1
			  ORDER BY u.created_at
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, restaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveStaff удаляет сотрудника заведения в одной транзакции с освобождением
// лимита users. Удаление чужого либо несуществующего пользователя — NotFound.
// Владельца удалить нельзя.
func (s *Storage) RemoveStaff(ctx context.Context, restaurantID, userID string) error {
	const op = "storage.RemoveStaff"

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM users WHERE id = $1 AND restaurant_id = $2 AND role <> 'owner'`
	result, err := tx.ExecContext(ctx, query, userID, restaurantID)
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

	if err := s.ReleaseUsage(ctx, tx, restaurantID, models.KindUsers); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateLastLogin отмечает время успешного входа.
func (s *Storage) UpdateLastLogin(ctx context.Context, id string) error {
	const op = "storage.UpdateLastLogin"
	if _, err := s.DB.ExecContext(ctx, `UPDATE users SET last_login_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

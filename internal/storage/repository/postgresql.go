// Package repository реализует хранилище данных на основе PostgreSQL
// для заведений, пользователей и tenant-scoped ресурсов. Каждый запрос
// к данным заведения фильтруется по restaurant_id вызывающего контекста;
// несовпадение tenant-а неотличимо от отсутствия записи.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// isUniqueViolation распознает нарушение уникального ограничения PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// BeginTx открывает транзакцию. Резервирование счетчика и вставка ресурса
// обязаны выполняться в одной транзакции, чтобы оборванный запрос
// не оставил счетчик увеличенным без закоммиченного ресурса.
func (s *Storage) BeginTx(ctx context.Context) (*sql.Tx, error) {
	const op = "storage.BeginTx"
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tx, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'restaurants'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table restaurants missing or query error: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

const planColumns = `name, display_name, price_monthly, price_yearly, max_users, max_products,
			  max_orders_per_month, COALESCE(features, ''), is_active, is_public`

func scanPlan(row interface{ Scan(...any) error }) (*models.Plan, error) {
	var p models.Plan
	err := row.Scan(&p.Name, &p.DisplayName, &p.PriceMonthly, &p.PriceYearly, &p.MaxUsers,
		&p.MaxProducts, &p.MaxOrdersPerMonth, &p.Features, &p.IsActive, &p.IsPublic)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReadPlan возвращает активный тариф по имени.
func (s *Storage) ReadPlan(ctx context.Context, name string) (*models.Plan, error) {
	const op = "storage.ReadPlan"

	query := `SELECT ` + planColumns + ` FROM plans WHERE name = $1 AND is_active = true`
	p, err := scanPlan(s.DB.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPublicPlans возвращает публичные активные тарифы для витрины.
func (s *Storage) ListPublicPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListPublicPlans"

	query := `SELECT ` + planColumns + ` FROM plans
			  WHERE is_active = true AND is_public = true
			  ORDER BY price_monthly`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
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

// Package admin реализует платформенные операции над заведениями:
// обзор, приостановку, возобновление и смену тарифа.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// Repository описывает контракт хранилища для платформенных операций.
type Repository interface {
	ListRestaurants(ctx context.Context, limit, offset int) ([]*models.Restaurant, error)
	ReadRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	SetSuspension(ctx context.Context, id, status, reason string) (int, error)
	ReadPlan(ctx context.Context, name string) (*models.Plan, error)
	ChangePlan(ctx context.Context, restaurantID string, plan *models.Plan) error
}

// Service выполняет операции платформенного администратора.
// Guard на уровне HTTP уже гарантирует, что вызывающий — PlatformAdmin.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListRestaurants возвращает страницу всех заведений платформы.
func (s *Service) ListRestaurants(ctx context.Context, limit, offset int) ([]*models.Restaurant, error) {
	const op = "admin.ListRestaurants"
	items, err := s.repo.ListRestaurants(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Suspend приостанавливает подписку заведения. С этого момента все
// мутирующие операции заведения отклоняются независимо от остатка квот.
func (s *Service) Suspend(ctx context.Context, restaurantID, reason string) error {
	const op = "admin.Suspend"

	n, err := s.repo.SetSuspension(ctx, restaurantID, models.SubscriptionSuspended, reason)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	s.log.Info("restaurant suspended",
		sl.Restaurant(restaurantID),
		slog.String("reason", reason))
	return nil
}

// Activate возобновляет подписку приостановленного заведения.
func (s *Service) Activate(ctx context.Context, restaurantID string) error {
	const op = "admin.Activate"

	n, err := s.repo.SetSuspension(ctx, restaurantID, models.SubscriptionActive, "")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	s.log.Info("restaurant activated", sl.Restaurant(restaurantID))
	return nil
}

// ChangePlan переводит заведение на другой тариф. Лимиты нового тарифа
// копируются в строку заведения; уже набранные счетчики не трогаются —
// превышение нового, более низкого лимита блокирует только новые записи.
func (s *Service) ChangePlan(ctx context.Context, restaurantID, planName string) error {
	const op = "admin.ChangePlan"

	plan, err := s.repo.ReadPlan(ctx, planName)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.ReadRestaurant(ctx, restaurantID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.ChangePlan(ctx, restaurantID, plan); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("plan changed",
		sl.Restaurant(restaurantID),
		slog.String("plan", planName))
	return nil
}

// Package staff реализует управление сотрудниками заведения.
package staff

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/password"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// Repository описывает контракт хранилища сотрудников.
type Repository interface {
	CreateStaff(ctx context.Context, user models.User) error
	ListStaff(ctx context.Context, restaurantID string, limit, offset int) ([]*models.User, error)
	RemoveStaff(ctx context.Context, restaurantID, userID string) error
}

// SubscriptionGate проверяет подписку заведения перед записью.
type SubscriptionGate interface {
	EnsureActive(ctx context.Context, restaurantID string) error
}

// Service отвечает за найм и увольнение сотрудников. Сотрудники
// учитываются в тарифном лимите пользователей заведения.
type Service struct {
	repo Repository
	gate SubscriptionGate
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, gate SubscriptionGate, log *slog.Logger) *Service {
	return &Service{repo: repo, gate: gate, log: log}
}

// Create нанимает сотрудника в заведение владельца. Доступно только владельцу.
func (s *Service) Create(ctx context.Context, user authctx.TenantUser, req models.DummyStaff) (*models.User, error) {
	const op = "staff.Create"

	if !user.IsOwner() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	if req.RestaurantID != "" && req.RestaurantID != user.RestaurantID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTenantMismatch)
	}
	if req.Role != models.RoleManager && req.Role != models.RoleStaff {
		return nil, fmt.Errorf("%s: role %q: %w", op, req.Role, models.ErrForbidden)
	}
	if err := s.gate.EnsureActive(ctx, user.RestaurantID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	restaurantID := user.RestaurantID
	member := models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         req.Role,
		RestaurantID: &restaurantID,
		IsActive:     true,
	}
	if err := s.repo.CreateStaff(ctx, member); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("staff member created",
		sl.Restaurant(user.RestaurantID),
		slog.String("staff_id", member.ID),
		slog.String("role", member.Role))
	return &member, nil
}

// List возвращает страницу сотрудников заведения.
func (s *Service) List(ctx context.Context, user authctx.TenantUser, limit, offset int) ([]*models.User, error) {
	const op = "staff.List"
	items, err := s.repo.ListStaff(ctx, user.RestaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Remove увольняет сотрудника и освобождает единицу квоты пользователей.
// Владелец не может уволить сам себя и вообще не удаляется этим путем.
func (s *Service) Remove(ctx context.Context, user authctx.TenantUser, staffID string) error {
	const op = "staff.Remove"

	if !user.IsOwner() {
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	if staffID == user.UserID {
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	if err := s.repo.RemoveStaff(ctx, user.RestaurantID, staffID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

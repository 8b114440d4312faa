// Package customer реализует бизнес-логику гостевой базы заведения.
package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// Repository описывает контракт хранилища гостей.
type Repository interface {
	CreateCustomer(ctx context.Context, c models.Customer) error
	ReadCustomer(ctx context.Context, restaurantID, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context, restaurantID string, limit, offset int) ([]*models.Customer, error)
	UpdateCustomer(ctx context.Context, c models.Customer) (int, error)
	RemoveCustomer(ctx context.Context, restaurantID, id string) (int, error)
}

// SubscriptionGate проверяет подписку заведения перед записью.
type SubscriptionGate interface {
	EnsureActive(ctx context.Context, restaurantID string) error
}

// Service отвечает за CRUD гостей. Гости не входят в тарифные лимиты,
// но запись по-прежнему требует активной подписки.
type Service struct {
	repo Repository
	gate SubscriptionGate
}

// New создает новый экземпляр Service.
func New(repo Repository, gate SubscriptionGate) *Service {
	return &Service{repo: repo, gate: gate}
}

// Create добавляет гостя в базу заведения пользователя.
func (s *Service) Create(ctx context.Context, user authctx.TenantUser, req models.DummyCustomer) (*models.Customer, error) {
	const op = "customer.Create"

	if req.RestaurantID != "" && req.RestaurantID != user.RestaurantID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTenantMismatch)
	}
	if err := s.gate.EnsureActive(ctx, user.RestaurantID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := models.Customer{
		ID:           uuid.New().String(),
		RestaurantID: user.RestaurantID,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// Read возвращает гостя заведения. Доступ решает authctx.CanAccess;
// чужой гость для TenantUser неотличим от несуществующего.
func (s *Service) Read(ctx context.Context, actor authctx.Actor, id string) (*models.Customer, error) {
	const op = "customer.Read"
	c, err := s.repo.ReadCustomer(ctx, "", id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !authctx.CanAccess(actor, c.RestaurantID) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return c, nil
}

// List возвращает страницу гостей заведения.
func (s *Service) List(ctx context.Context, user authctx.TenantUser, limit, offset int) ([]*models.Customer, error) {
	const op = "customer.List"
	items, err := s.repo.ListCustomers(ctx, user.RestaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Update изменяет контактные данные гостя. Баллы лояльности через этот
// метод не меняются: их начисляют только заказы.
func (s *Service) Update(ctx context.Context, user authctx.TenantUser, id string, req models.DummyCustomer) error {
	const op = "customer.Update"

	if req.RestaurantID != "" && req.RestaurantID != user.RestaurantID {
		return fmt.Errorf("%s: %w", op, models.ErrTenantMismatch)
	}
	c := models.Customer{
		ID:           id,
		RestaurantID: user.RestaurantID,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
	}
	n, err := s.repo.UpdateCustomer(ctx, c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

// Remove удаляет гостя из базы заведения.
func (s *Service) Remove(ctx context.Context, user authctx.TenantUser, id string) error {
	const op = "customer.Remove"
	n, err := s.repo.RemoveCustomer(ctx, user.RestaurantID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

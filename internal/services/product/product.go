// Package product реализует бизнес-логику позиций меню.
package product

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// Repository описывает контракт хранилища позиций меню.
type Repository interface {
	CreateProduct(ctx context.Context, p models.Product) error
	ReadProduct(ctx context.Context, restaurantID, id string) (*models.Product, error)
	ListProducts(ctx context.Context, restaurantID string, limit, offset int) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (int, error)
	RemoveProduct(ctx context.Context, restaurantID, id string) error
}

// SubscriptionGate проверяет подписку заведения перед записью.
type SubscriptionGate interface {
	EnsureActive(ctx context.Context, restaurantID string) error
}

// MenuInvalidator сбрасывает кеш гостевого меню заведения.
type MenuInvalidator interface {
	InvalidateMenu(ctx context.Context, restaurantID string)
}

// Service отвечает за CRUD позиций меню в рамках одного заведения.
type Service struct {
	repo Repository
	gate SubscriptionGate
	menu MenuInvalidator
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, gate SubscriptionGate, menu MenuInvalidator, log *slog.Logger) *Service {
	return &Service{repo: repo, gate: gate, menu: menu, log: log}
}

// Create добавляет позицию в меню заведения пользователя.
// Tenant берётся только из токена; restaurant_id из тела, не совпадающий
// с ним, — это попытка подмены заведения и отклоняется целиком.
func (s *Service) Create(ctx context.Context, user authctx.TenantUser, req models.DummyProduct) (*models.Product, error) {
	const op = "product.Create"

	if req.RestaurantID != "" && req.RestaurantID != user.RestaurantID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTenantMismatch)
	}
	if err := s.gate.EnsureActive(ctx, user.RestaurantID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	p := models.Product{
		ID:           uuid.New().String(),
		RestaurantID: user.RestaurantID,
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Category:     req.Category,
		IsAvailable:  available,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.menu.InvalidateMenu(ctx, user.RestaurantID)
	return &p, nil
}

// Read возвращает позицию меню. Доступ решает authctx.CanAccess:
// платформенный админ читает любое заведение, TenantUser — только свое,
// и чужая позиция для него неотличима от несуществующей.
func (s *Service) Read(ctx context.Context, actor authctx.Actor, id string) (*models.Product, error) {
	const op = "product.Read"
	p, err := s.repo.ReadProduct(ctx, "", id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !authctx.CanAccess(actor, p.RestaurantID) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return p, nil
}

// List возвращает страницу позиций меню заведения.
func (s *Service) List(ctx context.Context, user authctx.TenantUser, limit, offset int) ([]*models.Product, error) {
	const op = "product.List"
	items, err := s.repo.ListProducts(ctx, user.RestaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Update изменяет позицию меню заведения пользователя.
func (s *Service) Update(ctx context.Context, user authctx.TenantUser, id string, req models.DummyProduct) (*models.Product, error) {
	const op = "product.Update"

	if req.RestaurantID != "" && req.RestaurantID != user.RestaurantID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTenantMismatch)
	}
	if err := s.gate.EnsureActive(ctx, user.RestaurantID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	p := models.Product{
		ID:           id,
		RestaurantID: user.RestaurantID,
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Category:     req.Category,
		IsAvailable:  available,
	}
	n, err := s.repo.UpdateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	s.menu.InvalidateMenu(ctx, user.RestaurantID)
	return &p, nil
}

// Remove удаляет позицию меню и освобождает единицу квоты products.
func (s *Service) Remove(ctx context.Context, user authctx.TenantUser, id string) error {
	const op = "product.Remove"
	if err := s.repo.RemoveProduct(ctx, user.RestaurantID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.menu.InvalidateMenu(ctx, user.RestaurantID)
	return nil
}

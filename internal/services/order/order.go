// Package order реализует бизнес-логику заказов: расчет сумм,
// снапшоты цен и начисление баллов лояльности.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// loyaltyCentsPerPoint — одна единица лояльности за каждые 10 единиц валюты.
const loyaltyCentsPerPoint = 1000

// Repository описывает контракт хранилища заказов.
type Repository interface {
	CreateOrder(ctx context.Context, o models.Order) error
	ReadOrder(ctx context.Context, restaurantID, id string) (*models.Order, error)
	ListOrders(ctx context.Context, restaurantID string, limit, offset int) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, restaurantID, id, status string) (int, error)
	RemoveOrder(ctx context.Context, restaurantID, id string) error
	ReadProduct(ctx context.Context, restaurantID, id string) (*models.Product, error)
	ReadCustomer(ctx context.Context, restaurantID, id string) (*models.Customer, error)
	ReadTableCode(ctx context.Context, restaurantID, id string) (*models.TableCode, error)
}

// SubscriptionGate проверяет подписку заведения перед записью.
type SubscriptionGate interface {
	EnsureActive(ctx context.Context, restaurantID string) error
}

// Service отвечает за жизненный цикл заказа в рамках одного заведения.
type Service struct {
	repo    Repository
	gate    SubscriptionGate
	taxRate float64
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, gate SubscriptionGate, taxRate float64, log *slog.Logger) *Service {
	return &Service{repo: repo, gate: gate, taxRate: taxRate, log: log}
}

// Create принимает состав заказа, подтягивает актуальные цены позиций
// и создает заказ. Цена и название позиции фиксируются в строках заказа:
// последующие правки меню историю продаж не меняют.
//
// Ссылки на гостя, столик и позиции проверяются в заведении пользователя;
// чужой id неотличим от несуществующего.
//
// Баллы лояльности рассчитываются здесь и фиксируются в заказе, но на счет
// гостя попадают только при оплате (переход в статус paid).
func (s *Service) Create(ctx context.Context, user authctx.TenantUser, req models.DummyOrder) (*models.Order, error) {
	const op = "order.Create"

	if req.RestaurantID != "" && req.RestaurantID != user.RestaurantID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTenantMismatch)
	}
	if err := s.gate.EnsureActive(ctx, user.RestaurantID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var customerID *string
	if req.CustomerID != "" {
		if _, err := s.repo.ReadCustomer(ctx, user.RestaurantID, req.CustomerID); err != nil {
			return nil, fmt.Errorf("%s: customer: %w", op, err)
		}
		customerID = &req.CustomerID
	}
	var tableCodeID *string
	if req.TableCodeID != "" {
		if _, err := s.repo.ReadTableCode(ctx, user.RestaurantID, req.TableCodeID); err != nil {
			return nil, fmt.Errorf("%s: table code: %w", op, err)
		}
		tableCodeID = &req.TableCodeID
	}

	var subtotal int
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		p, err := s.repo.ReadProduct(ctx, user.RestaurantID, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%s: product %s: %w", op, it.ProductID, err)
		}
		if !p.IsAvailable {
			return nil, fmt.Errorf("%s: product %s unavailable: %w", op, it.ProductID, models.ErrNotFound)
		}
		subtotal += p.PriceCents * it.Quantity
		items = append(items, models.OrderItem{
			ProductID:      p.ID,
			ProductName:    p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       it.Quantity,
		})
	}

	tax := int(math.Round(float64(subtotal) * s.taxRate))
	total := subtotal + tax
	var points int
	if customerID != nil {
		points = total / loyaltyCentsPerPoint
	}

	o := models.Order{
		ID:                  uuid.New().String(),
		RestaurantID:        user.RestaurantID,
		CustomerID:          customerID,
		TableCodeID:         tableCodeID,
		Status:              models.OrderOpen,
		SubtotalCents:       subtotal,
		TaxCents:            tax,
		TotalCents:          total,
		LoyaltyPointsEarned: points,
		Items:               items,
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("order created",
		sl.Restaurant(user.RestaurantID),
		slog.String("order_id", o.ID),
		slog.Int("total_cents", o.TotalCents))
	return &o, nil
}

// Read возвращает заказ со строками. Доступ решает authctx.CanAccess;
// чужой заказ для TenantUser неотличим от несуществующего.
func (s *Service) Read(ctx context.Context, actor authctx.Actor, id string) (*models.Order, error) {
	const op = "order.Read"
	o, err := s.repo.ReadOrder(ctx, "", id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !authctx.CanAccess(actor, o.RestaurantID) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return o, nil
}

// List возвращает страницу заказов заведения.
func (s *Service) List(ctx context.Context, user authctx.TenantUser, limit, offset int) ([]*models.Order, error) {
	const op = "order.List"
	items, err := s.repo.ListOrders(ctx, user.RestaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// UpdateStatus переводит заказ в новый статус. Начисление и возврат
// баллов лояльности привязаны к входу в статус paid и выходу из него.
func (s *Service) UpdateStatus(ctx context.Context, user authctx.TenantUser, id, status string) error {
	const op = "order.UpdateStatus"

	switch status {
	case models.OrderOpen, models.OrderPaid, models.OrderCancelled:
	default:
		return fmt.Errorf("%s: unknown status %q: %w", op, status, models.ErrNotFound)
	}
	n, err := s.repo.UpdateOrderStatus(ctx, user.RestaurantID, id, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

// Remove удаляет заказ и освобождает единицу месячной квоты заказов.
func (s *Service) Remove(ctx context.Context, user authctx.TenantUser, id string) error {
	const op = "order.Remove"
	if err := s.repo.RemoveOrder(ctx, user.RestaurantID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

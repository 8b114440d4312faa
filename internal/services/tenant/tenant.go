// Package tenant реализует кабинет заведения: профиль с витриной
// использования тарифа, QR-коды столиков и публичное гостевое меню.
package tenant

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// menuCacheTTL — время жизни кешированного гостевого меню.
const menuCacheTTL = 5 * time.Minute

// Repository описывает контракт хранилища для кабинета заведения.
type Repository interface {
	ReadRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	UpdateRestaurantProfile(ctx context.Context, id, name string) (int, error)
	CreateTableCode(ctx context.Context, tc models.TableCode) error
	ListTableCodes(ctx context.Context, restaurantID string) ([]*models.TableCode, error)
	ReadTableCodeByToken(ctx context.Context, token string) (*models.TableCode, error)
	RemoveTableCode(ctx context.Context, restaurantID, id string) (int, error)
	ListAvailableProducts(ctx context.Context, restaurantID string) ([]*models.Product, error)
	ListPublicPlans(ctx context.Context) ([]*models.Plan, error)
}

// MenuCache кеширует позиции гостевого меню по заведению.
type MenuCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// UsageReader возвращает счетчики и лимиты тарифа заведения.
type UsageReader interface {
	Usage(ctx context.Context, restaurantID string) (*models.Restaurant, error)
}

// Usage — витрина использования тарифа для профиля заведения.
type Usage struct {
	Users             int `json:"users"`
	MaxUsers          int `json:"max_users"`
	Products          int `json:"products"`
	MaxProducts       int `json:"max_products"`
	OrdersThisMonth   int `json:"orders_this_month"`
	MaxOrdersPerMonth int `json:"max_orders_per_month"`
}

// Profile — профиль заведения вместе с витриной использования.
type Profile struct {
	Restaurant *models.Restaurant `json:"restaurant"`
	Usage      Usage              `json:"usage"`
}

// PublicMenu — гостевое меню, доступное по токену QR-кода без авторизации.
type PublicMenu struct {
	RestaurantName string            `json:"restaurant_name"`
	TableLabel     string            `json:"table_label"`
	Items          []*models.Product `json:"items"`
}

// Service отвечает за кабинет заведения и публичное меню.
type Service struct {
	repo  Repository
	cache MenuCache
	usage UsageReader
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache MenuCache, usage UsageReader, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, usage: usage, log: log}
}

// GetProfile возвращает профиль заведения пользователя с витриной тарифа.
func (s *Service) GetProfile(ctx context.Context, user authctx.TenantUser) (*Profile, error) {
	const op = "tenant.GetProfile"

	r, err := s.usage.Usage(ctx, user.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Profile{
		Restaurant: r,
		Usage: Usage{
			Users:             r.CurrentUsers,
			MaxUsers:          r.MaxUsers,
			Products:          r.CurrentProducts,
			MaxProducts:       r.MaxProducts,
			OrdersThisMonth:   r.CurrentOrdersThisMonth,
			MaxOrdersPerMonth: r.MaxOrdersPerMonth,
		},
	}, nil
}

// UpdateProfile изменяет название заведения. Доступно только владельцу.
func (s *Service) UpdateProfile(ctx context.Context, user authctx.TenantUser, name string) error {
	const op = "tenant.UpdateProfile"

	if !user.IsOwner() {
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	n, err := s.repo.UpdateRestaurantProfile(ctx, user.RestaurantID, name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

// CreateTableCode выпускает QR-код столика с новым случайным токеном.
// Доступно только владельцу.
func (s *Service) CreateTableCode(ctx context.Context, user authctx.TenantUser, req models.DummyTableCode) (*models.TableCode, error) {
	const op = "tenant.CreateTableCode"

	if !user.IsOwner() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	if req.RestaurantID != "" && req.RestaurantID != user.RestaurantID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTenantMismatch)
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tc := models.TableCode{
		ID:           uuid.New().String(),
		RestaurantID: user.RestaurantID,
		TableLabel:   req.TableLabel,
		Token:        hex.EncodeToString(buf),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateTableCode(ctx, tc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &tc, nil
}

// ListTableCodes возвращает QR-коды столиков заведения.
func (s *Service) ListTableCodes(ctx context.Context, user authctx.TenantUser) ([]*models.TableCode, error) {
	const op = "tenant.ListTableCodes"
	items, err := s.repo.ListTableCodes(ctx, user.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// RemoveTableCode удаляет QR-код столика заведения.
func (s *Service) RemoveTableCode(ctx context.Context, user authctx.TenantUser, id string) error {
	const op = "tenant.RemoveTableCode"

	if !user.IsOwner() {
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	n, err := s.repo.RemoveTableCode(ctx, user.RestaurantID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

// ListPlans возвращает публичные тарифы для страницы цен.
func (s *Service) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "tenant.ListPlans"
	plans, err := s.repo.ListPublicPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plans, nil
}

// menuKey — ключ кеша позиций меню заведения.
func menuKey(restaurantID string) string {
	return "menu:" + restaurantID
}

// GetPublicMenu собирает гостевое меню по токену QR-кода. Позиции читаются
// гостями на порядки чаще, чем меняются, поэтому кешируются по заведению;
// токен, заведение и подписка каждый раз проверяются заново.
// Заведениям с неактивной подпиской меню не отдаётся.
func (s *Service) GetPublicMenu(ctx context.Context, token string) (*PublicMenu, error) {
	const op = "tenant.GetPublicMenu"

	tc, err := s.repo.ReadTableCodeByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r, err := s.repo.ReadRestaurant(ctx, tc.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !r.SubscriptionIsActive(time.Now()) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	key := menuKey(tc.RestaurantID)
	var items []*models.Product
	ok, err := s.cache.Get(ctx, key, &items)
	if err != nil {
		s.log.Warn("menu cache read failed", sl.Err(err))
		ok = false
	}
	if !ok {
		items, err = s.repo.ListAvailableProducts(ctx, tc.RestaurantID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.cache.Set(ctx, key, items, menuCacheTTL); err != nil {
			s.log.Warn("menu cache write failed", sl.Err(err))
		}
	}

	return &PublicMenu{
		RestaurantName: r.Name,
		TableLabel:     tc.TableLabel,
		Items:          items,
	}, nil
}

// InvalidateMenu сбрасывает кеш позиций меню заведения. Вызывается после
// любой мутации товара, чтобы гости не видели устаревшее меню дольше TTL.
// Ошибка кеша не фатальна: запись истечет сама по TTL.
func (s *Service) InvalidateMenu(ctx context.Context, restaurantID string) {
	if err := s.cache.Invalidate(ctx, menuKey(restaurantID)); err != nil {
		s.log.Warn("menu cache invalidation failed",
			sl.Restaurant(restaurantID), sl.Err(err))
	}
}

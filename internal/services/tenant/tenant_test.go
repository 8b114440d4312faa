package tenant

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// MockRepository реализует интерфейс tenant.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ReadRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Restaurant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateRestaurantProfile(ctx context.Context, id, name string) (int, error) {
	args := m.Called(ctx, id, name)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CreateTableCode(ctx context.Context, tc models.TableCode) error {
	args := m.Called(ctx, tc)
	return args.Error(0)
}

func (m *MockRepository) ListTableCodes(ctx context.Context, restaurantID string) ([]*models.TableCode, error) {
	args := m.Called(ctx, restaurantID)
	if res := args.Get(0); res != nil {
		return res.([]*models.TableCode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ReadTableCodeByToken(ctx context.Context, token string) (*models.TableCode, error) {
	args := m.Called(ctx, token)
	if res := args.Get(0); res != nil {
		return res.(*models.TableCode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) RemoveTableCode(ctx context.Context, restaurantID, id string) (int, error) {
	args := m.Called(ctx, restaurantID, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ListAvailableProducts(ctx context.Context, restaurantID string) ([]*models.Product, error) {
	args := m.Called(ctx, restaurantID)
	if res := args.Get(0); res != nil {
		return res.([]*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListPublicPlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.Plan), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCache реализует интерфейс tenant.MenuCache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockUsage реализует интерфейс tenant.UsageReader
type MockUsage struct {
	mock.Mock
}

func (m *MockUsage) Usage(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	args := m.Called(ctx, restaurantID)
	if res := args.Get(0); res != nil {
		return res.(*models.Restaurant), args.Error(1)
	}
	return nil, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func activeRestaurant(id string) *models.Restaurant {
	return &models.Restaurant{
		ID:                 id,
		Name:               "Чайхана",
		Slug:               "chaihana",
		SubscriptionStatus: models.SubscriptionActive,
		IsActive:           true,
	}
}

func TestGetPublicMenu(t *testing.T) {
	restaurantID := "a1b2c3d4-0000-0000-0000-000000000001"
	token := "0f5c1e9a8b7d6e5f4a3b2c1d0e9f8a7b"
	tableCode := &models.TableCode{
		ID:           "55555555-0000-0000-0000-000000000001",
		RestaurantID: restaurantID,
		TableLabel:   "Стол 5",
		Token:        token,
	}

	t.Run("меню собирается из доступных позиций и кешируется по заведению", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		cache.On("Get", mock.Anything, "menu:"+restaurantID, mock.Anything).Return(false, nil)
		cache.On("Set", mock.Anything, "menu:"+restaurantID, mock.Anything, menuCacheTTL).Return(nil)
		repo.On("ReadTableCodeByToken", mock.Anything, token).Return(tableCode, nil)
		repo.On("ReadRestaurant", mock.Anything, restaurantID).Return(activeRestaurant(restaurantID), nil)
		repo.On("ListAvailableProducts", mock.Anything, restaurantID).Return([]*models.Product{
			{ID: "11111111-0000-0000-0000-000000000001", Name: "Плов", PriceCents: 45000, IsAvailable: true},
		}, nil)

		service := New(repo, cache, new(MockUsage), testLogger())
		menu, err := service.GetPublicMenu(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, "Чайхана", menu.RestaurantName)
		assert.Equal(t, "Стол 5", menu.TableLabel)
		require.Len(t, menu.Items, 1)
		assert.Equal(t, "Плов", menu.Items[0].Name)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("попадание в кеш не ходит за позициями в базу", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		cache.On("Get", mock.Anything, "menu:"+restaurantID, mock.Anything).
			Run(func(args mock.Arguments) {
				items := args.Get(2).(*[]*models.Product)
				*items = []*models.Product{{ID: "11111111-0000-0000-0000-000000000001", Name: "Плов"}}
			}).Return(true, nil)
		repo.On("ReadTableCodeByToken", mock.Anything, token).Return(tableCode, nil)
		repo.On("ReadRestaurant", mock.Anything, restaurantID).Return(activeRestaurant(restaurantID), nil)

		service := New(repo, cache, new(MockUsage), testLogger())
		menu, err := service.GetPublicMenu(context.Background(), token)
		require.NoError(t, err)

		require.Len(t, menu.Items, 1)
		assert.Equal(t, "Плов", menu.Items[0].Name)
		repo.AssertNotCalled(t, "ListAvailableProducts")
	})

	t.Run("неизвестный токен", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		repo.On("ReadTableCodeByToken", mock.Anything, mock.Anything).Return(nil, models.ErrNotFound)

		service := New(repo, cache, new(MockUsage), testLogger())
		_, err := service.GetPublicMenu(context.Background(), "deadbeef")
		assert.ErrorIs(t, err, models.ErrNotFound)
		cache.AssertNotCalled(t, "Get")
	})

	t.Run("приостановленное заведение не отдает меню", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		suspended := activeRestaurant(restaurantID)
		suspended.SubscriptionStatus = models.SubscriptionSuspended
		repo.On("ReadTableCodeByToken", mock.Anything, token).Return(tableCode, nil)
		repo.On("ReadRestaurant", mock.Anything, restaurantID).Return(suspended, nil)

		service := New(repo, cache, new(MockUsage), testLogger())
		_, err := service.GetPublicMenu(context.Background(), token)
		assert.ErrorIs(t, err, models.ErrNotFound)
		repo.AssertNotCalled(t, "ListAvailableProducts")
		cache.AssertNotCalled(t, "Get")
	})

	t.Run("ошибка кеша не фатальна", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		cache.On("Get", mock.Anything, mock.Anything, mock.Anything).
			Return(false, errors.New("redis down"))
		cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("redis down"))
		repo.On("ReadTableCodeByToken", mock.Anything, token).Return(tableCode, nil)
		repo.On("ReadRestaurant", mock.Anything, restaurantID).Return(activeRestaurant(restaurantID), nil)
		repo.On("ListAvailableProducts", mock.Anything, restaurantID).Return([]*models.Product{}, nil)

		service := New(repo, cache, new(MockUsage), testLogger())
		menu, err := service.GetPublicMenu(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "Чайхана", menu.RestaurantName)
	})
}

func TestInvalidateMenu(t *testing.T) {
	restaurantID := "a1b2c3d4-0000-0000-0000-000000000001"

	t.Run("сбрасывает ключ заведения", func(t *testing.T) {
		cache := new(MockCache)
		cache.On("Invalidate", mock.Anything, "menu:"+restaurantID).Return(nil)

		service := New(new(MockRepository), cache, new(MockUsage), testLogger())
		service.InvalidateMenu(context.Background(), restaurantID)
		cache.AssertExpectations(t)
	})

	t.Run("ошибка кеша только логируется", func(t *testing.T) {
		cache := new(MockCache)
		cache.On("Invalidate", mock.Anything, mock.Anything).Return(errors.New("redis down"))

		service := New(new(MockRepository), cache, new(MockUsage), testLogger())
		service.InvalidateMenu(context.Background(), restaurantID)
	})
}

func TestGetProfile(t *testing.T) {
	owner := authctx.TenantUser{
		UserID:       "5b8e7c58-9d0e-4a2b-8f6f-1a2b3c4d5e6f",
		Role:         models.RoleOwner,
		RestaurantID: "a1b2c3d4-0000-0000-0000-000000000001",
	}

	t.Run("витрина тарифа строится из счетчиков заведения", func(t *testing.T) {
		usage := new(MockUsage)
		r := activeRestaurant(owner.RestaurantID)
		r.MaxUsers = 10
		r.MaxProducts = 200
		r.MaxOrdersPerMonth = 3000
		r.CurrentUsers = 4
		r.CurrentProducts = 57
		r.CurrentOrdersThisMonth = 812
		usage.On("Usage", mock.Anything, owner.RestaurantID).Return(r, nil)

		service := New(new(MockRepository), new(MockCache), usage, testLogger())
		profile, err := service.GetProfile(context.Background(), owner)
		require.NoError(t, err)

		assert.Equal(t, Usage{
			Users: 4, MaxUsers: 10,
			Products: 57, MaxProducts: 200,
			OrdersThisMonth: 812, MaxOrdersPerMonth: 3000,
		}, profile.Usage)
		usage.AssertExpectations(t)
	})

	t.Run("ошибка чтения заведения", func(t *testing.T) {
		usage := new(MockUsage)
		usage.On("Usage", mock.Anything, mock.Anything).Return(nil, models.ErrNotFound)

		service := New(new(MockRepository), new(MockCache), usage, testLogger())
		_, err := service.GetProfile(context.Background(), owner)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	owner := authctx.TenantUser{
		UserID:       "5b8e7c58-9d0e-4a2b-8f6f-1a2b3c4d5e6f",
		Role:         models.RoleOwner,
		RestaurantID: "a1b2c3d4-0000-0000-0000-000000000001",
	}

	t.Run("владелец меняет название", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdateRestaurantProfile", mock.Anything, owner.RestaurantID, "Новая Чайхана").
			Return(1, nil)

		service := New(repo, new(MockCache), new(MockUsage), testLogger())
		require.NoError(t, service.UpdateProfile(context.Background(), owner, "Новая Чайхана"))
		repo.AssertExpectations(t)
	})

	t.Run("не-владелец не меняет профиль", func(t *testing.T) {
		staff := owner
		staff.Role = models.RoleStaff
		service := New(new(MockRepository), new(MockCache), new(MockUsage), testLogger())
		err := service.UpdateProfile(context.Background(), staff, "Новая Чайхана")
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestCreateTableCode(t *testing.T) {
	owner := authctx.TenantUser{
		UserID:       "5b8e7c58-9d0e-4a2b-8f6f-1a2b3c4d5e6f",
		Role:         models.RoleOwner,
		RestaurantID: "a1b2c3d4-0000-0000-0000-000000000001",
	}

	t.Run("токен случайный и код привязан к заведению", func(t *testing.T) {
		repo := new(MockRepository)
		var created models.TableCode
		repo.On("CreateTableCode", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(models.TableCode)
			}).Return(nil)

		service := New(repo, new(MockCache), new(MockUsage), testLogger())
		tc, err := service.CreateTableCode(context.Background(), owner, models.DummyTableCode{TableLabel: "Стол 5"})
		require.NoError(t, err)

		assert.Equal(t, owner.RestaurantID, created.RestaurantID)
		assert.Equal(t, "Стол 5", created.TableLabel)
		assert.Len(t, tc.Token, 32, "16 случайных байт в hex")
	})

	t.Run("чужой restaurant_id в теле", func(t *testing.T) {
		service := New(new(MockRepository), new(MockCache), new(MockUsage), testLogger())
		_, err := service.CreateTableCode(context.Background(), owner, models.DummyTableCode{
			TableLabel:   "Стол 5",
			RestaurantID: "ffffffff-0000-0000-0000-000000000099",
		})
		assert.ErrorIs(t, err, models.ErrTenantMismatch)
	})

	t.Run("не-владелец не выпускает коды", func(t *testing.T) {
		staff := owner
		staff.Role = models.RoleStaff
		service := New(new(MockRepository), new(MockCache), new(MockUsage), testLogger())
		_, err := service.CreateTableCode(context.Background(), staff, models.DummyTableCode{TableLabel: "Стол 5"})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

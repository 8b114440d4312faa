package product

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// MockRepository реализует интерфейс product.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateProduct(ctx context.Context, p models.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) ReadProduct(ctx context.Context, restaurantID, id string) (*models.Product, error) {
	args := m.Called(ctx, restaurantID, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListProducts(ctx context.Context, restaurantID string, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, restaurantID, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateProduct(ctx context.Context, p models.Product) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) RemoveProduct(ctx context.Context, restaurantID, id string) error {
	args := m.Called(ctx, restaurantID, id)
	return args.Error(0)
}

// MockGate реализует интерфейс product.SubscriptionGate
type MockGate struct {
	mock.Mock
}

func (m *MockGate) EnsureActive(ctx context.Context, restaurantID string) error {
	args := m.Called(ctx, restaurantID)
	return args.Error(0)
}

// MockMenu реализует интерфейс product.MenuInvalidator
type MockMenu struct {
	mock.Mock
}

func (m *MockMenu) InvalidateMenu(ctx context.Context, restaurantID string) {
	m.Called(ctx, restaurantID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRead(t *testing.T) {
	restaurantID := "a1b2c3d4-0000-0000-0000-000000000001"
	productID := "11111111-0000-0000-0000-000000000001"
	tenant := authctx.TenantUser{
		UserID:       "5b8e7c58-9d0e-4a2b-8f6f-1a2b3c4d5e6f",
		Role:         models.RoleStaff,
		RestaurantID: restaurantID,
	}
	admin := authctx.PlatformAdmin{UserID: "9f8e7c58-0000-0000-0000-000000000042"}

	stored := &models.Product{
		ID:           productID,
		RestaurantID: restaurantID,
		Name:         "Плов",
		PriceCents:   45000,
	}

	t.Run("пользователь читает позицию своего заведения", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ReadProduct", mock.Anything, "", productID).Return(stored, nil)

		service := New(repo, new(MockGate), new(MockMenu), testLogger())
		p, err := service.Read(context.Background(), tenant, productID)
		require.NoError(t, err)
		assert.Equal(t, "Плов", p.Name)
	})

	t.Run("чужая позиция неотличима от несуществующей", func(t *testing.T) {
		foreign := *stored
		foreign.RestaurantID = "ffffffff-0000-0000-0000-000000000099"
		repo := new(MockRepository)
		repo.On("ReadProduct", mock.Anything, "", productID).Return(&foreign, nil)

		service := New(repo, new(MockGate), new(MockMenu), testLogger())
		_, err := service.Read(context.Background(), tenant, productID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("платформенный админ читает любое заведение", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ReadProduct", mock.Anything, "", productID).Return(stored, nil)

		service := New(repo, new(MockGate), new(MockMenu), testLogger())
		p, err := service.Read(context.Background(), admin, productID)
		require.NoError(t, err)
		assert.Equal(t, restaurantID, p.RestaurantID)
	})
}

func TestMutationsInvalidateMenu(t *testing.T) {
	restaurantID := "a1b2c3d4-0000-0000-0000-000000000001"
	productID := "11111111-0000-0000-0000-000000000001"
	owner := authctx.TenantUser{
		UserID:       "5b8e7c58-9d0e-4a2b-8f6f-1a2b3c4d5e6f",
		Role:         models.RoleOwner,
		RestaurantID: restaurantID,
	}

	t.Run("создание сбрасывает кеш меню", func(t *testing.T) {
		repo := new(MockRepository)
		gate := new(MockGate)
		menu := new(MockMenu)
		gate.On("EnsureActive", mock.Anything, restaurantID).Return(nil)
		repo.On("CreateProduct", mock.Anything, mock.Anything).Return(nil)
		menu.On("InvalidateMenu", mock.Anything, restaurantID).Return()

		service := New(repo, gate, menu, testLogger())
		_, err := service.Create(context.Background(), owner, models.DummyProduct{Name: "Лагман", PriceCents: 38000})
		require.NoError(t, err)
		menu.AssertExpectations(t)
	})

	t.Run("обновление сбрасывает кеш меню", func(t *testing.T) {
		repo := new(MockRepository)
		gate := new(MockGate)
		menu := new(MockMenu)
		gate.On("EnsureActive", mock.Anything, restaurantID).Return(nil)
		repo.On("UpdateProduct", mock.Anything, mock.Anything).Return(1, nil)
		menu.On("InvalidateMenu", mock.Anything, restaurantID).Return()

		service := New(repo, gate, menu, testLogger())
		_, err := service.Update(context.Background(), owner, productID, models.DummyProduct{Name: "Лагман", PriceCents: 38000})
		require.NoError(t, err)
		menu.AssertExpectations(t)
	})

	t.Run("удаление сбрасывает кеш меню", func(t *testing.T) {
		repo := new(MockRepository)
		menu := new(MockMenu)
		repo.On("RemoveProduct", mock.Anything, restaurantID, productID).Return(nil)
		menu.On("InvalidateMenu", mock.Anything, restaurantID).Return()

		service := New(repo, new(MockGate), menu, testLogger())
		require.NoError(t, service.Remove(context.Background(), owner, productID))
		menu.AssertExpectations(t)
	})

	t.Run("неудачная мутация кеш не трогает", func(t *testing.T) {
		repo := new(MockRepository)
		gate := new(MockGate)
		menu := new(MockMenu)
		gate.On("EnsureActive", mock.Anything, restaurantID).Return(nil)
		repo.On("CreateProduct", mock.Anything, mock.Anything).Return(errors.New("db down"))

		service := New(repo, gate, menu, testLogger())
		_, err := service.Create(context.Background(), owner, models.DummyProduct{Name: "Лагман", PriceCents: 38000})
		require.Error(t, err)
		menu.AssertNotCalled(t, "InvalidateMenu")
	})

	t.Run("обновление несуществующей позиции кеш не трогает", func(t *testing.T) {
		repo := new(MockRepository)
		gate := new(MockGate)
		menu := new(MockMenu)
		gate.On("EnsureActive", mock.Anything, restaurantID).Return(nil)
		repo.On("UpdateProduct", mock.Anything, mock.Anything).Return(0, nil)

		service := New(repo, gate, menu, testLogger())
		_, err := service.Update(context.Background(), owner, productID, models.DummyProduct{Name: "Лагман", PriceCents: 38000})
		assert.ErrorIs(t, err, models.ErrNotFound)
		menu.AssertNotCalled(t, "InvalidateMenu")
	})
}

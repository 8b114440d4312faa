package staff

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/password"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// MockRepository реализует интерфейс staff.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateStaff(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) ListStaff(ctx context.Context, restaurantID string, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, restaurantID, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) RemoveStaff(ctx context.Context, restaurantID, userID string) error {
	args := m.Called(ctx, restaurantID, userID)
	return args.Error(0)
}

// MockGate реализует интерфейс staff.SubscriptionGate
type MockGate struct {
	mock.Mock
}

func (m *MockGate) EnsureActive(ctx context.Context, restaurantID string) error {
	args := m.Called(ctx, restaurantID)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestCreate(t *testing.T) {
	owner := authctx.TenantUser{
		UserID:       "5b8e7c58-9d0e-4a2b-8f6f-1a2b3c4d5e6f",
		Role:         models.RoleOwner,
		RestaurantID: "a1b2c3d4-0000-0000-0000-000000000001",
	}
	manager := owner
	manager.Role = models.RoleManager

	request := models.DummyStaff{
		Email:    "waiter@vostok.example",
		Username: "timur",
		Password: "secret-password",
		Role:     models.RoleStaff,
	}

	t.Run("владелец нанимает сотрудника в свое заведение", func(t *testing.T) {
		repo := new(MockRepository)
		gate := new(MockGate)
		gate.On("EnsureActive", mock.Anything, owner.RestaurantID).Return(nil)

		var created models.User
		repo.On("CreateStaff", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(models.User)
			}).Return(nil)

		service := New(repo, gate, testLogger())
		member, err := service.Create(context.Background(), owner, request)
		require.NoError(t, err)

		assert.Equal(t, models.RoleStaff, member.Role)
		require.NotNil(t, created.RestaurantID)
		assert.Equal(t, owner.RestaurantID, *created.RestaurantID, "tenant берется из токена, не из запроса")
		assert.NoError(t, password.CompareHash(created.PasswordHash, "secret-password"))
		assert.True(t, created.IsActive)

		repo.AssertExpectations(t)
		gate.AssertExpectations(t)
	})

	t.Run("не-владелец не нанимает", func(t *testing.T) {
		service := New(new(MockRepository), new(MockGate), testLogger())
		_, err := service.Create(context.Background(), manager, request)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("второго владельца нанять нельзя", func(t *testing.T) {
		req := request
		req.Role = models.RoleOwner
		service := New(new(MockRepository), new(MockGate), testLogger())
		_, err := service.Create(context.Background(), owner, req)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("платформенного админа нанять нельзя", func(t *testing.T) {
		req := request
		req.Role = models.RolePlatformAdmin
		service := New(new(MockRepository), new(MockGate), testLogger())
		_, err := service.Create(context.Background(), owner, req)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("чужой restaurant_id в теле", func(t *testing.T) {
		req := request
		req.RestaurantID = "ffffffff-0000-0000-0000-000000000099"
		service := New(new(MockRepository), new(MockGate), testLogger())
		_, err := service.Create(context.Background(), owner, req)
		assert.ErrorIs(t, err, models.ErrTenantMismatch)
	})

	t.Run("лимит пользователей тарифа", func(t *testing.T) {
		repo := new(MockRepository)
		gate := new(MockGate)
		gate.On("EnsureActive", mock.Anything, mock.Anything).Return(nil)
		repo.On("CreateStaff", mock.Anything, mock.Anything).
			Return(&models.LimitExceededError{Kind: models.KindUsers, Limit: 3})

		service := New(repo, gate, testLogger())
		_, err := service.Create(context.Background(), owner, request)
		limitErr, ok := models.IsLimitExceeded(err)
		require.True(t, ok)
		assert.Equal(t, models.KindUsers, limitErr.Kind)
	})
}

func TestRemove(t *testing.T) {
	owner := authctx.TenantUser{
		UserID:       "5b8e7c58-9d0e-4a2b-8f6f-1a2b3c4d5e6f",
		Role:         models.RoleOwner,
		RestaurantID: "a1b2c3d4-0000-0000-0000-000000000001",
	}
	staffID := "44444444-0000-0000-0000-000000000001"

	t.Run("владелец увольняет сотрудника", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RemoveStaff", mock.Anything, owner.RestaurantID, staffID).Return(nil)

		service := New(repo, new(MockGate), testLogger())
		require.NoError(t, service.Remove(context.Background(), owner, staffID))
		repo.AssertExpectations(t)
	})

	t.Run("владелец не увольняет сам себя", func(t *testing.T) {
		service := New(new(MockRepository), new(MockGate), testLogger())
		err := service.Remove(context.Background(), owner, owner.UserID)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("не-владелец не увольняет", func(t *testing.T) {
		staffUser := owner
		staffUser.Role = models.RoleStaff
		service := New(new(MockRepository), new(MockGate), testLogger())
		err := service.Remove(context.Background(), staffUser, staffID)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

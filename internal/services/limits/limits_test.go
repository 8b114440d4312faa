package limits

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) ReadRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Restaurant), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestEnsureActive(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 1, 0)
	past := now.AddDate(0, -1, 0)

	tests := []struct {
		name       string
		restaurant *models.Restaurant
		wantErr    error
	}{
		{
			name:       "активная подписка",
			restaurant: &models.Restaurant{ID: "r1", SubscriptionStatus: models.SubscriptionActive},
		},
		{
			name:       "trial в пределах окна",
			restaurant: &models.Restaurant{ID: "r1", SubscriptionStatus: models.SubscriptionTrial, TrialEndsAt: &future},
		},
		{
			name:       "истекший trial",
			restaurant: &models.Restaurant{ID: "r1", SubscriptionStatus: models.SubscriptionTrial, TrialEndsAt: &past},
			wantErr:    models.ErrSubscriptionInactive,
		},
		{
			name:       "приостановленное заведение — отказ независимо от квоты",
			restaurant: &models.Restaurant{ID: "r1", SubscriptionStatus: models.SubscriptionSuspended, CurrentProducts: 0, MaxProducts: 100},
			wantErr:    models.ErrSubscriptionInactive,
		},
		{
			name:       "отмененная подписка",
			restaurant: &models.Restaurant{ID: "r1", SubscriptionStatus: models.SubscriptionCancelled},
			wantErr:    models.ErrSubscriptionInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRestaurantRepository)
			repo.On("ReadRestaurant", mock.Anything, "r1").Return(tt.restaurant, nil)

			enforcer := NewEnforcer(repo, logger)
			enforcer.now = func() time.Time { return now }

			err := enforcer.EnsureActive(context.Background(), "r1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

func TestCreateProduct_LimitRoundTrip(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	restaurantID := factory.CreateRestaurant(t, "kafe-limit", models.SubscriptionActive, 3, 2, 300)

	require.NoError(t, storage.CreateProduct(ctx, NewProduct(restaurantID, "Борщ", 35000)))
	second := NewProduct(restaurantID, "Пельмени", 42000)
	require.NoError(t, storage.CreateProduct(ctx, second))

	// Лимит исчерпан: третья позиция не проходит
	err := storage.CreateProduct(ctx, NewProduct(restaurantID, "Компот", 9000))
	require.Error(t, err)
	limitErr, ok := models.IsLimitExceeded(err)
	require.True(t, ok, "ожидалась ошибка лимита, получено: %v", err)
	assert.Equal(t, models.KindProducts, limitErr.Kind)
	assert.Equal(t, 2, limitErr.Limit)

	// Удаление освобождает квоту
	require.NoError(t, storage.RemoveProduct(ctx, restaurantID, second.ID))
	require.NoError(t, storage.CreateProduct(ctx, NewProduct(restaurantID, "Компот", 9000)))

	restaurant, err := storage.ReadRestaurant(ctx, restaurantID)
	require.NoError(t, err)
	assert.Equal(t, 2, restaurant.CurrentProducts)
}

func TestReadProduct_TenantIsolation(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	restaurantA := factory.CreateRestaurant(t, "kafe-a", models.SubscriptionActive, 3, 30, 300)
	restaurantB := factory.CreateRestaurant(t, "kafe-b", models.SubscriptionActive, 3, 30, 300)
	productID := factory.CreateProductDirect(t, restaurantA, "Сырники", 28000)

	// Свое заведение видит позицию
	product, err := storage.ReadProduct(ctx, restaurantA, productID)
	require.NoError(t, err)
	assert.Equal(t, "Сырники", product.Name)

	// Чужое заведение получает not found, неотличимый от несуществующего ID
	_, err = storage.ReadProduct(ctx, restaurantB, productID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = storage.ReadProduct(ctx, restaurantB, uuid.New().String())
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Пустой scope платформенного админа снимает фильтр
	product, err = storage.ReadProduct(ctx, "", productID)
	require.NoError(t, err)
	assert.Equal(t, restaurantA, product.RestaurantID)
}

func TestCreateRestaurantWithOwner(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	trialEnds := time.Now().Add(14 * 24 * time.Hour)

	newRestaurant := func(slug string) (models.Restaurant, models.User) {
		restaurantID := uuid.New().String()
		restaurant := models.Restaurant{
			ID:                 restaurantID,
			Name:               "Чайхана",
			Slug:               slug,
			PlanName:           "starter",
			SubscriptionStatus: models.SubscriptionTrial,
			TrialEndsAt:        &trialEnds,
			IsActive:           true,
			MaxUsers:           3,
			MaxProducts:        30,
			MaxOrdersPerMonth:  300,
		}
		owner := models.User{
			ID:           uuid.New().String(),
			Email:        slug + "@example.com",
			Username:     "owner-" + slug,
			PasswordHash: "hashedpassword",
			Role:         models.RoleOwner,
			RestaurantID: &restaurantID,
			IsActive:     true,
		}
		return restaurant, owner
	}

	restaurant, owner := newRestaurant("chaihana")
	require.NoError(t, storage.CreateRestaurantWithOwner(ctx, restaurant, owner))

	created, err := storage.ReadRestaurantBySlug(ctx, "chaihana")
	require.NoError(t, err)
	assert.Equal(t, restaurant.ID, created.ID)
	assert.Equal(t, models.SubscriptionTrial, created.SubscriptionStatus)
	assert.Equal(t, 1, created.CurrentUsers, "владелец занимает первую единицу лимита users")

	user, err := storage.GetUserByEmail(ctx, owner.Email)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, user.Role)
	require.NotNil(t, user.RestaurantID)
	assert.Equal(t, restaurant.ID, *user.RestaurantID)

	// Повтор slug откатывает всю транзакцию
	duplicate, duplicateOwner := newRestaurant("chaihana")
	err = storage.CreateRestaurantWithOwner(ctx, duplicate, duplicateOwner)
	assert.ErrorIs(t, err, models.ErrSlugTaken)
	_, err = storage.GetUserByEmail(ctx, duplicateOwner.Email)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSuspendExpiredTrials(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	expiredID := factory.CreateRestaurant(t, "kafe-expired", models.SubscriptionTrial, 3, 30, 300)
	activeID := factory.CreateRestaurant(t, "kafe-alive", models.SubscriptionTrial, 3, 30, 300)
	factory.CreateUser(t, expiredID, "expired-owner@example.com", models.RoleOwner)

	_, err := storage.DB.Exec(
		`UPDATE restaurants SET trial_ends_at = now() - interval '1 day' WHERE id = $1`, expiredID)
	require.NoError(t, err)

	expired, err := storage.SuspendExpiredTrials(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, expiredID, expired[0].RestaurantID)
	assert.Equal(t, "kafe-expired", expired[0].Slug)
	assert.Equal(t, "expired-owner@example.com", expired[0].OwnerEmail)

	suspended, err := storage.ReadRestaurant(ctx, expiredID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionSuspended, suspended.SubscriptionStatus)
	assert.Equal(t, "trial expired", suspended.SuspensionReason)

	alive, err := storage.ReadRestaurant(ctx, activeID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionTrial, alive.SubscriptionStatus)

	// Повторный прогон ничего не находит
	expired, err = storage.SuspendExpiredTrials(ctx)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestResetMonthlyOrderCounters(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	staleID := factory.CreateRestaurant(t, "kafe-stale", models.SubscriptionActive, 3, 30, 300)
	freshID := factory.CreateRestaurant(t, "kafe-fresh", models.SubscriptionActive, 3, 30, 300)

	_, err := storage.DB.Exec(`UPDATE restaurants
		SET current_orders_this_month = 42, orders_reset_at = now() - interval '2 months'
		WHERE id = $1`, staleID)
	require.NoError(t, err)
	_, err = storage.DB.Exec(
		`UPDATE restaurants SET current_orders_this_month = 7 WHERE id = $1`, freshID)
	require.NoError(t, err)

	affected, err := storage.ResetMonthlyOrderCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	stale, err := storage.ReadRestaurant(ctx, staleID)
	require.NoError(t, err)
	assert.Equal(t, 0, stale.CurrentOrdersThisMonth)

	fresh, err := storage.ReadRestaurant(ctx, freshID)
	require.NoError(t, err)
	assert.Equal(t, 7, fresh.CurrentOrdersThisMonth, "сбрасывавшиеся в этом месяце не трогаются")
}

func TestCreateOrder_CountsAndLoyalty(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	restaurantID := factory.CreateRestaurant(t, "kafe-orders", models.SubscriptionActive, 3, 30, 300)
	productID := factory.CreateProductDirect(t, restaurantID, "Плов", 45000)

	customerID := uuid.New().String()
	require.NoError(t, storage.CreateCustomer(ctx, models.Customer{
		ID:           customerID,
		RestaurantID: restaurantID,
		Name:         "Анна",
		Phone:        "+79990001122",
	}))

	order := models.Order{
		ID:                  uuid.New().String(),
		RestaurantID:        restaurantID,
		CustomerID:          &customerID,
		Status:              models.OrderOpen,
		SubtotalCents:       90000,
		TaxCents:            9000,
		TotalCents:          99000,
		LoyaltyPointsEarned: 99,
		Items: []models.OrderItem{
			{ProductID: productID, ProductName: "Плов", UnitPriceCents: 45000, Quantity: 2},
		},
	}
	require.NoError(t, storage.CreateOrder(ctx, order))

	read, err := storage.ReadOrder(ctx, restaurantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 99000, read.TotalCents)
	require.Len(t, read.Items, 1)
	assert.Equal(t, "Плов", read.Items[0].ProductName)
	assert.Equal(t, 2, read.Items[0].Quantity)

	restaurant, err := storage.ReadRestaurant(ctx, restaurantID)
	require.NoError(t, err)
	assert.Equal(t, 1, restaurant.CurrentOrdersThisMonth)

	// Открытый заказ баллов еще не дает
	customer, err := storage.ReadCustomer(ctx, restaurantID, customerID)
	require.NoError(t, err)
	assert.Equal(t, 0, customer.LoyaltyPoints)

	// Оплата начисляет баллы
	n, err := storage.UpdateOrderStatus(ctx, restaurantID, order.ID, models.OrderPaid)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	customer, err = storage.ReadCustomer(ctx, restaurantID, customerID)
	require.NoError(t, err)
	assert.Equal(t, 99, customer.LoyaltyPoints)

	// Отмена оплаченного заказа возвращает баллы
	n, err = storage.UpdateOrderStatus(ctx, restaurantID, order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	customer, err = storage.ReadCustomer(ctx, restaurantID, customerID)
	require.NoError(t, err)
	assert.Equal(t, 0, customer.LoyaltyPoints)

	// Повторная оплата перед удалением
	n, err = storage.UpdateOrderStatus(ctx, restaurantID, order.ID, models.OrderPaid)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Удаление оплаченного заказа возвращает и баллы, и единицу квоты
	require.NoError(t, storage.RemoveOrder(ctx, restaurantID, order.ID))
	customer, err = storage.ReadCustomer(ctx, restaurantID, customerID)
	require.NoError(t, err)
	assert.Equal(t, 0, customer.LoyaltyPoints)
	restaurant, err = storage.ReadRestaurant(ctx, restaurantID)
	require.NoError(t, err)
	assert.Equal(t, 0, restaurant.CurrentOrdersThisMonth)
}

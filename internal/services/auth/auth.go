// Package auth содержит логику бизнес-уровня для регистрации заведений,
// входа пользователей и явного обновления токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/restaurant-pos/internal/lib/jwt"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/password"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/slug"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// trialPlan — тариф, назначаемый новому заведению при регистрации.
const trialPlan = "starter"

// trialDuration — длительность пробного периода.
const trialDuration = 14 * 24 * time.Hour

// Repository описывает контракт хранилища для аутентификации.
type Repository interface {
	CreateRestaurantWithOwner(ctx context.Context, r models.Restaurant, owner models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ReadPlan(ctx context.Context, name string) (*models.Plan, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

// Service отвечает за регистрацию, авторизацию и обновление JWT.
type Service struct {
	repo     Repository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(repo Repository, jwtMaker jwt.Maker) *Service {
	return &Service{
		repo:     repo,
		jwtMaker: jwtMaker,
	}
}

// RegisterResult — итог регистрации заведения.
type RegisterResult struct {
	RestaurantID string `json:"restaurant_id"`
	Slug         string `json:"slug"`
	OwnerID      string `json:"owner_id"`
	TrialEndsAt  string `json:"trial_ends_at"`
}

// Register создает заведение на trial-тарифе и его владельца.
// Slug при отсутствии выводится из названия; занятый slug — ошибка.
func (s *Service) Register(ctx context.Context, restaurantName, restaurantSlug, email, username, rawPassword string) (*RegisterResult, error) {
	const op = "auth.Register"

	if restaurantSlug == "" {
		restaurantSlug = slug.Make(restaurantName)
	}
	if !slug.Valid(restaurantSlug) {
		return nil, fmt.Errorf("%s: slug %q: %w", op, restaurantSlug, models.ErrSlugInvalid)
	}

	plan, err := s.repo.ReadPlan(ctx, trialPlan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	restaurantID := uuid.New().String()
	trialEndsAt := time.Now().UTC().Add(trialDuration)
	restaurant := models.Restaurant{
		ID:                 restaurantID,
		Name:               restaurantName,
		Slug:               restaurantSlug,
		PlanName:           plan.Name,
		SubscriptionStatus: models.SubscriptionTrial,
		TrialEndsAt:        &trialEndsAt,
		IsActive:           true,
		MaxUsers:           plan.MaxUsers,
		MaxProducts:        plan.MaxProducts,
		MaxOrdersPerMonth:  plan.MaxOrdersPerMonth,
	}
	owner := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleOwner,
		RestaurantID: &restaurantID,
		IsActive:     true,
	}

	if err := s.repo.CreateRestaurantWithOwner(ctx, restaurant, owner); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RegisterResult{
		RestaurantID: restaurantID,
		Slug:         restaurantSlug,
		OwnerID:      owner.ID,
		TrialEndsAt:  trialEndsAt.Format(time.RFC3339),
	}, nil
}

// Login проверяет пароль пользователя и выпускает access-токен.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (token string, user *models.User, err error) {
	const op = "auth.Login"

	user, err = s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}

	token, err = s.jwtMaker.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// Renew принимает еще действующий токен либо токен в пределах грейс-периода
// и выпускает свежий. Claims нового токена берутся из текущего состояния
// пользователя в БД, а не из старого токена: роль или заведение могли измениться.
func (s *Service) Renew(ctx context.Context, oldToken string) (string, error) {
	const op = "auth.Renew"

	claims, err := s.jwtMaker.ParseForRenewal(oldToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, models.ErrTokenInvalid)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return "", fmt.Errorf("%s: %w", op, models.ErrTokenInvalid)
	}

	token, err := s.jwtMaker.GenerateToken(user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

package create

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/restaurant-pos/internal/authctx"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/middlewarectx"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, user authctx.TenantUser, req models.DummyProduct) (*models.Product, error) {
	args := m.Called(ctx, user, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tenant := authctx.TenantUser{
		UserID:       "5b8e7c58-9d0e-4a2b-8f6f-1a2b3c4d5e6f",
		Email:        "owner@chaihana.example",
		Role:         models.RoleOwner,
		RestaurantID: "a1b2c3d4-0000-0000-0000-000000000001",
	}

	tests := []struct {
		name           string
		body           string
		withTenant     bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:       "успешное создание позиции",
			body:       `{"name":"Борщ","price_cents":35000}`,
			withTenant: true,
			setupMock: func(m *MockService) {
				p := &models.Product{
					ID:           "11111111-0000-0000-0000-000000000001",
					RestaurantID: "a1b2c3d4-0000-0000-0000-000000000001",
					Name:         "Борщ",
					PriceCents:   35000,
					IsAvailable:  true,
				}
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(p, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Борщ"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"name":`,
			withTenant:     true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "валидация: нет цены",
			body:           `{"name":"Борщ"}`,
			withTenant:     true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field PriceCents is a required field`,
		},
		{
			name:           "нет tenant-контекста",
			body:           `{"name":"Борщ","price_cents":35000}`,
			withTenant:     false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:       "чужой restaurant_id в теле",
			body:       `{"name":"Борщ","price_cents":35000,"restaurant_id":"ffffffff-0000-0000-0000-000000000099"}`,
			withTenant: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, models.ErrTenantMismatch)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `restaurant_id does not match token`,
		},
		{
			name:       "лимит тарифа исчерпан",
			body:       `{"name":"Борщ","price_cents":35000}`,
			withTenant: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, &models.LimitExceededError{Kind: models.KindProducts, Limit: 30})
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `"limit":30`,
		},
		{
			name:       "подписка приостановлена",
			body:       `{"name":"Борщ","price_cents":35000}`,
			withTenant: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, models.ErrSubscriptionInactive)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `subscription inactive`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(tt.body))
			if tt.withTenant {
				ctx := context.WithValue(req.Context(), middlewarectx.ActorKey, authctx.Actor(tenant))
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

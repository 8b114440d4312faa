// Package restaurantpos собирает HTTP-приложение: хранилище, кеш,
// сервисы, маршруты и жизненный цикл сервера.
package restaurantpos

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/restaurant-pos/internal/cache"
	"github.com/magabrotheeeer/restaurant-pos/internal/config"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/jwt"
	"github.com/magabrotheeeer/restaurant-pos/internal/migrations"
	adminservice "github.com/magabrotheeeer/restaurant-pos/internal/services/admin"
	authservice "github.com/magabrotheeeer/restaurant-pos/internal/services/auth"
	customerservice "github.com/magabrotheeeer/restaurant-pos/internal/services/customer"
	"github.com/magabrotheeeer/restaurant-pos/internal/services/limits"
	orderservice "github.com/magabrotheeeer/restaurant-pos/internal/services/order"
	productservice "github.com/magabrotheeeer/restaurant-pos/internal/services/product"
	staffservice "github.com/magabrotheeeer/restaurant-pos/internal/services/staff"
	tenantservice "github.com/magabrotheeeer/restaurant-pos/internal/services/tenant"
	"github.com/magabrotheeeer/restaurant-pos/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New собирает приложение: подключает Postgres и Redis, применяет миграции,
// строит сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.RenewGrace)
	gate := limits.NewEnforcer(db, logger)

	tenant := tenantservice.New(db, cacheRedis, gate, logger)

	services := Services{
		Auth:     authservice.New(db, jwtMaker),
		Product:  productservice.New(db, gate, tenant, logger),
		Order:    orderservice.New(db, gate, cfg.TaxRate, logger),
		Customer: customerservice.New(db, gate),
		Staff:    staffservice.New(db, gate, logger),
		Tenant:   tenant,
		Admin:    adminservice.New(db, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, jwtMaker, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает сервер и блокируется до отмены контекста либо ошибки.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}

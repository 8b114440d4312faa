// Package restaurantpos предоставляет маршруты основного приложения.
package restaurantpos

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	adminactivate "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/admin/activate"
	adminchangeplan "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/admin/changeplan"
	adminrestaurantlist "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/admin/restaurantlist"
	adminsuspend "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/admin/suspend"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/auth/renew"
	customercreate "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/customer/create"
	customerlist "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/customer/list"
	customerread "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/customer/read"
	customerremove "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/customer/remove"
	customerupdate "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/customer/update"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/health"
	menupublic "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/menu/public"
	ordercreate "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/order/create"
	orderlist "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/order/list"
	orderread "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/order/read"
	orderremove "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/order/remove"
	orderupdatestatus "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/order/updatestatus"
	planlist "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/plan/list"
	productcreate "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/product/create"
	productlist "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/product/list"
	productread "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/product/read"
	productremove "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/product/remove"
	productupdate "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/product/update"
	restaurantprofile "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/restaurant/profile"
	restaurantupdate "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/restaurant/update"
	staffcreate "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/staff/create"
	stafflist "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/staff/list"
	staffremove "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/staff/remove"
	tablecreate "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/table/create"
	tablelist "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/table/list"
	tableremove "github.com/magabrotheeeer/restaurant-pos/internal/http/handlers/table/remove"
	"github.com/magabrotheeeer/restaurant-pos/internal/http/middlewarectx"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/jwt"
	adminservice "github.com/magabrotheeeer/restaurant-pos/internal/services/admin"
	authservice "github.com/magabrotheeeer/restaurant-pos/internal/services/auth"
	customerservice "github.com/magabrotheeeer/restaurant-pos/internal/services/customer"
	orderservice "github.com/magabrotheeeer/restaurant-pos/internal/services/order"
	productservice "github.com/magabrotheeeer/restaurant-pos/internal/services/product"
	staffservice "github.com/magabrotheeeer/restaurant-pos/internal/services/staff"
	tenantservice "github.com/magabrotheeeer/restaurant-pos/internal/services/tenant"
)

// Services — сервисы бизнес-логики, используемые маршрутами.
type Services struct {
	Auth     *authservice.Service
	Product  *productservice.Service
	Order    *orderservice.Service
	Customer *customerservice.Service
	Staff    *staffservice.Service
	Tenant   *tenantservice.Service
	Admin    *adminservice.Service
}

// Store — зависимости маршрутов от хранилища: чтение пользователей
// для middleware и проверка готовности базы для /health.
type Store interface {
	middlewarectx.UserReader
	health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db Store, jwtMaker jwt.Maker, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/token/renew", renew.New(logger, s.Auth).ServeHTTP)
		r.Get("/plans", planlist.New(logger, s.Tenant).ServeHTTP)
		r.Get("/qr/{token}/menu", menupublic.New(logger, s.Tenant).ServeHTTP)

		// Маршруты заведения
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.CheckUserMiddleware(db, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			// Точечные чтения доступны и платформенному админу:
			// чужое заведение отсекает сервисный слой через CanAccess.
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireActor(logger))

				r.Get("/products/{id}", productread.New(logger, s.Product).ServeHTTP)
				r.Get("/orders/{id}", orderread.New(logger, s.Order).ServeHTTP)
				r.Get("/customers/{id}", customerread.New(logger, s.Customer).ServeHTTP)
			})

			// Остальное — только пользователям с tenant-идентичностью
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireTenant(logger))

				r.Post("/products", productcreate.New(logger, s.Product).ServeHTTP)
				r.Get("/products", productlist.New(logger, s.Product).ServeHTTP)
				r.Put("/products/{id}", productupdate.New(logger, s.Product).ServeHTTP)
				r.Delete("/products/{id}", productremove.New(logger, s.Product).ServeHTTP)

				r.Post("/orders", ordercreate.New(logger, s.Order).ServeHTTP)
				r.Get("/orders", orderlist.New(logger, s.Order).ServeHTTP)
				r.Put("/orders/{id}/status", orderupdatestatus.New(logger, s.Order).ServeHTTP)
				r.Delete("/orders/{id}", orderremove.New(logger, s.Order).ServeHTTP)

				r.Post("/customers", customercreate.New(logger, s.Customer).ServeHTTP)
				r.Get("/customers", customerlist.New(logger, s.Customer).ServeHTTP)
				r.Put("/customers/{id}", customerupdate.New(logger, s.Customer).ServeHTTP)
				r.Delete("/customers/{id}", customerremove.New(logger, s.Customer).ServeHTTP)

				r.Post("/staff", staffcreate.New(logger, s.Staff).ServeHTTP)
				r.Get("/staff", stafflist.New(logger, s.Staff).ServeHTTP)
				r.Delete("/staff/{id}", staffremove.New(logger, s.Staff).ServeHTTP)

				r.Post("/tables", tablecreate.New(logger, s.Tenant).ServeHTTP)
				r.Get("/tables", tablelist.New(logger, s.Tenant).ServeHTTP)
				r.Delete("/tables/{id}", tableremove.New(logger, s.Tenant).ServeHTTP)

				r.Get("/restaurant", restaurantprofile.New(logger, s.Tenant).ServeHTTP)
				r.Put("/restaurant", restaurantupdate.New(logger, s.Tenant).ServeHTTP)
			})
		})

		// Платформенные маршруты
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.CheckUserMiddleware(db, logger))
			r.Use(middlewarectx.RequirePlatformAdmin(logger))

			r.Get("/restaurants", adminrestaurantlist.New(logger, s.Admin).ServeHTTP)
			r.Post("/restaurants/{id}/suspend", adminsuspend.New(logger, s.Admin).ServeHTTP)
			r.Post("/restaurants/{id}/activate", adminactivate.New(logger, s.Admin).ServeHTTP)
			r.Put("/restaurants/{id}/plan", adminchangeplan.New(logger, s.Admin).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// Package app assembles the storefront HTTP server from its parts.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/auth/gate"
	authhttp "github.com/Skotchmaster/storefront/internal/auth/httpserver"
	authmodels "github.com/Skotchmaster/storefront/internal/auth/models"
	authrepo "github.com/Skotchmaster/storefront/internal/auth/repo"
	authservice "github.com/Skotchmaster/storefront/internal/auth/service"
	cataloghttp "github.com/Skotchmaster/storefront/internal/catalog/httpserver"
	catalogmodels "github.com/Skotchmaster/storefront/internal/catalog/models"
	catalogrepo "github.com/Skotchmaster/storefront/internal/catalog/repo"
	catalogservice "github.com/Skotchmaster/storefront/internal/catalog/service"
	orderhttp "github.com/Skotchmaster/storefront/internal/order/httpserver"
	ordermodels "github.com/Skotchmaster/storefront/internal/order/models"
	orderrepo "github.com/Skotchmaster/storefront/internal/order/repo"
	orderservice "github.com/Skotchmaster/storefront/internal/order/service"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

// Deps are the collaborators NewServer wires together. DB, Logger and Gate
// are required; the rest may be nil.
type Deps struct {
	DB     *gorm.DB
	Logger *slog.Logger
	Gate   *gate.Gate

	Events      orderservice.EventPublisher
	CartTopic   string
	SyncWorkers int

	Cache  catalogservice.Cache
	Search catalogservice.Searcher
}

// Migrate creates the tables in dependency order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&catalogmodels.Product{}, &authmodels.User{}, &ordermodels.OrderLine{})
}

func NewServer(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.CORS())
	e.Use(loggingmw.RequestLogger(d.Logger))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", ready(d.DB))

	users := &authrepo.GormRepo{DB: d.DB}
	orders := &orderservice.OrderService{
		Repo:    &orderrepo.GormRepo{DB: d.DB},
		Users:   users,
		Events:  d.Events,
		Topic:   d.CartTopic,
		Workers: d.SyncWorkers,
	}
	catalog := &catalogservice.CatalogService{
		Repo:   &catalogrepo.GormRepo{DB: d.DB},
		Cache:  d.Cache,
		Search: d.Search,
	}
	requireAuth := authmw.RequireAuth(d.Gate)

	api := e.Group("/api")
	cataloghttp.Register(api, &cataloghttp.CatalogHTTP{Svc: catalog})
	authhttp.Register(api, &authhttp.AuthHTTP{Svc: &authservice.AuthService{
		Repo: users,
		Gate: d.Gate,
		Cart: orders,
	}}, requireAuth)
	orderhttp.Register(api, &orderhttp.OrderHTTP{Svc: orders}, requireAuth)

	return e
}

func ready(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}

package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/recibos/billing-system/internal/api/handler"
	"github.com/recibos/billing-system/internal/api/middleware"
	"github.com/recibos/billing-system/internal/core/ports"
)

// NewRouter builds the Echo instance with all routes registered. The mongo
// and redis handles are only used by the readiness probe and may be nil when
// the memory backend is selected.
func NewRouter(services ports.Services, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("billing"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(services.Auth)
	userHandler := handler.NewUserHandler(services.Users)
	clientHandler := handler.NewClientHandler(services.Clients, services.Bills, services.Deposits, services.Balance)
	productHandler := handler.NewProductHandler(services.Products)
	billHandler := handler.NewBillHandler(services.Bills)
	depositHandler := handler.NewDepositHandler(services.Deposits)
	reportHandler := handler.NewReportHandler(services.Balance)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated routes ---
	// The middleware only extracts the key; tier checks run per-operation in
	// the core against the configured matrix.
	auth := e.Group("", middleware.Auth())
	auth.POST("/auth/password", authHandler.ChangePassword)

	v1 := auth.Group("/v1")

	v1.GET("/users", userHandler.List)
	v1.POST("/users", userHandler.Create)
	v1.PUT("/users/:id", userHandler.Update)
	v1.DELETE("/users/:id", userHandler.Delete)

	v1.GET("/clients", clientHandler.List)
	v1.POST("/clients", clientHandler.Create)
	v1.PUT("/clients/:id", clientHandler.Update)
	v1.DELETE("/clients/:id", clientHandler.Delete)
	v1.GET("/clients/:id/balance", clientHandler.Balance)
	v1.GET("/clients/:id/bills", clientHandler.Bills)
	v1.GET("/clients/:id/deposits", clientHandler.Deposits)

	v1.GET("/products", productHandler.List)
	v1.POST("/products", productHandler.Create)
	v1.PUT("/products/:id", productHandler.Update)
	v1.DELETE("/products/:id", productHandler.Delete)

	v1.GET("/bills", billHandler.List)
	v1.POST("/bills", billHandler.Create)
	v1.GET("/bills/search", billHandler.Search)
	v1.GET("/bills/range", billHandler.Range)
	v1.PUT("/bills/:id", billHandler.Update)
	v1.DELETE("/bills/:id", billHandler.Delete)

	v1.GET("/deposits", depositHandler.List)
	v1.POST("/deposits", depositHandler.Create)
	v1.GET("/deposits/search", depositHandler.Search)
	v1.GET("/deposits/range", depositHandler.Range)
	v1.PUT("/deposits/:id", depositHandler.Update)
	v1.DELETE("/deposits/:id", depositHandler.Delete)

	v1.GET("/reports/monthly", reportHandler.Monthly)

	return e
}

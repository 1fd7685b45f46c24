package router

import (
	"time"

	"github.com/Galih-Arno/aplikasi-kasir/internal/config"
	"github.com/Galih-Arno/aplikasi-kasir/internal/handler"
	"github.com/Galih-Arno/aplikasi-kasir/internal/middleware"
	"github.com/Galih-Arno/aplikasi-kasir/internal/repository"
	"github.com/Galih-Arno/aplikasi-kasir/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	catalogSvc := service.NewCatalogService(productRepo, rdb)
	customerSvc := service.NewCustomerService(customerRepo)
	checkoutSvc := service.NewCheckoutService(transactionRepo, productRepo, customerRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	transactionsH := handler.NewTransactionsHandler(checkoutSvc)
	priceH := handler.NewPriceCheckHandler(productRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/price/:barcode", priceH.GetPriceByBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Sales — any authenticated operator
		v1.POST("/transactions", middleware.RequireRole("cashier", "admin"), transactionsH.RecordTransaction)
		v1.GET("/transactions", middleware.RequireRole("cashier", "admin"), transactionsH.ListTransactions)
		v1.GET("/transactions/:id", middleware.RequireRole("cashier", "admin"), transactionsH.GetTransaction)

		// Catalog — everyone reads, admin writes
		v1.GET("/products", middleware.RequireRole("cashier", "admin"), productsH.List)
		v1.GET("/products/:id", middleware.RequireRole("cashier", "admin"), productsH.GetByID)
		prods := v1.Group("/products", middleware.RequireRole("admin"))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		// Customers — create and read only
		v1.POST("/customers", middleware.RequireRole("cashier", "admin"), customersH.Create)
		v1.GET("/customers", middleware.RequireRole("cashier", "admin"), customersH.List)
		v1.GET("/customers/:id", middleware.RequireRole("cashier", "admin"), customersH.GetByID)

		// User management — admin only
		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	return r
}

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/qiustore/backend/internal/infrastructure/auth"
	"github.com/qiustore/backend/internal/infrastructure/config"
	"github.com/qiustore/backend/internal/infrastructure/logger"
	"github.com/qiustore/backend/internal/infrastructure/persistence"
	"github.com/qiustore/backend/internal/interfaces/http/handler"
	"github.com/qiustore/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Admin   *handler.AdminHandler
	Payment *handler.PaymentHandler
	Upload  *handler.UploadHandler
	Log     *handler.LogHandler
}

// New builds the gin engine with the full middleware stack and route table
func New(cfg *config.Config, log *zap.Logger, db *mongo.Database, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID first so recovery and request logs carry it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORS(corsConfig))

	engine.MaxMultipartMemory = cfg.Upload.MaxSize

	engine.GET("/health", healthHandler(db))
	engine.Static("/uploads", cfg.Upload.Dir)

	requireAuth := middleware.RequireAuth(jwtService)
	requireSales := middleware.RequireSales()

	api := engine.Group("/api")

	// Identity
	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", h.Auth.Register)
	authRoutes.POST("/login", h.Auth.Login)
	authRoutes.GET("/me", requireAuth, h.Auth.Me)
	authRoutes.POST("/verify", requireAuth, h.Auth.Verify)
	authRoutes.POST("/resend", requireAuth, h.Auth.Resend)

	// Catalog: browsing is public, mutation is sales-only
	products := api.Group("/products")
	products.GET("", h.Product.List)
	products.GET("/categories", h.Product.Categories)
	products.GET("/:id", h.Product.Get)
	products.POST("", requireAuth, requireSales, h.Product.Create)
	products.PUT("/:id", requireAuth, requireSales, h.Product.Update)
	products.DELETE("/:id", requireAuth, requireSales, h.Product.Delete)

	// Checkout and order tracking
	orders := api.Group("/orders", requireAuth)
	orders.POST("", h.Order.Create)
	orders.GET("", h.Order.ListMine)

	// Payments: intents need a session, webhooks come from the provider
	payments := api.Group("/payments")
	payments.POST("/stripe/intent", requireAuth, h.Payment.CreateStripeIntent)
	payments.POST("/alipay/intent", requireAuth, h.Payment.CreateAlipayIntent)
	payments.POST("/stripe/webhook", h.Payment.Webhook)
	payments.POST("/alipay/webhook", h.Payment.Webhook)

	// Sales dashboard
	admin := api.Group("/admin", requireAuth, requireSales)
	admin.GET("/orders", h.Admin.ListOrders)
	admin.PUT("/orders/:id/status", h.Admin.UpdateOrderStatus)
	admin.GET("/stats", h.Admin.Stats)
	admin.GET("/customers", h.Admin.Customers)

	api.POST("/uploads", requireAuth, requireSales, h.Upload.Upload)
	api.POST("/logs", requireAuth, h.Log.Append)

	return engine
}

// healthHandler reports liveness including the document store connection
func healthHandler(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.FromGin(c)
		if err := persistence.Ping(c.Request.Context(), db); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

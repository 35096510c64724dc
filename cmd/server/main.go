package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	catalogapp "github.com/qiustore/backend/internal/application/catalog"
	identityapp "github.com/qiustore/backend/internal/application/identity"
	orderapp "github.com/qiustore/backend/internal/application/order"
	paymentapp "github.com/qiustore/backend/internal/application/payment"
	"github.com/qiustore/backend/internal/infrastructure/auth"
	"github.com/qiustore/backend/internal/infrastructure/config"
	"github.com/qiustore/backend/internal/infrastructure/logger"
	"github.com/qiustore/backend/internal/infrastructure/mail"
	"github.com/qiustore/backend/internal/infrastructure/payment"
	"github.com/qiustore/backend/internal/infrastructure/persistence"
	"github.com/qiustore/backend/internal/infrastructure/storage"
	"github.com/qiustore/backend/internal/interfaces/http/handler"
	"github.com/qiustore/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Connect to the document store
	db, disconnect, err := persistence.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := disconnect(context.Background()); err != nil {
			log.Error("Error closing database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("database", cfg.Mongo.Database))

	// Repositories
	productRepo := persistence.NewMongoProductRepository(db)
	orderRepo := persistence.NewMongoOrderRepository(db)
	userRepo := persistence.NewMongoUserRepository(db)

	// Infrastructure services
	jwtService := auth.NewJWTService(cfg.JWT)
	hasher := auth.NewBcryptHasher()
	mailer := mail.NewSMTPMailer(cfg.Mail, log)
	uploadStore, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatal("Failed to prepare upload storage", zap.Error(err))
	}

	// Payment gateways
	stripeGateway := payment.NewStripeAdapter(cfg.Payment.Stripe, log)
	alipayGateway := payment.NewAlipayAdapter(cfg.Payment.Alipay, log)

	// Application services
	authService := identityapp.NewAuthService(userRepo, hasher, jwtService, mailer, cfg.Auth.SalesRegistrationCode, log)
	productService := catalogapp.NewProductService(productRepo)
	orderService := orderapp.NewService(orderRepo, productRepo, userRepo, mailer, log)
	paymentService := paymentapp.NewService(orderService, []paymentapp.Gateway{stripeGateway, alipayGateway}, log)

	// HTTP layer
	engine := router.New(cfg, log, db, jwtService, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(productService),
		Order:   handler.NewOrderHandler(orderService),
		Admin:   handler.NewAdminHandler(orderService),
		Payment: handler.NewPaymentHandler(paymentService, orderService),
		Upload:  handler.NewUploadHandler(uploadStore, cfg.Upload.MaxSize),
		Log:     handler.NewLogHandler(authService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

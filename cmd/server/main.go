package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lumina-Wellness/service-billing/internal/adapter"
	"github.com/Lumina-Wellness/service-billing/internal/application"
	"github.com/Lumina-Wellness/service-billing/internal/auth"
	"github.com/Lumina-Wellness/service-billing/internal/config"
	"github.com/Lumina-Wellness/service-billing/internal/database"
	promoDomain "github.com/Lumina-Wellness/service-billing/internal/domain/promo"
	billingEvents "github.com/Lumina-Wellness/service-billing/internal/events"
	"github.com/Lumina-Wellness/service-billing/internal/handler"
	"github.com/Lumina-Wellness/service-billing/internal/health"
	"github.com/Lumina-Wellness/service-billing/internal/kafka"
	"github.com/Lumina-Wellness/service-billing/internal/logger"
	"github.com/Lumina-Wellness/service-billing/internal/middleware"
	"github.com/Lumina-Wellness/service-billing/internal/repository"
	"github.com/Lumina-Wellness/service-billing/internal/saga"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, "service-billing")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting service-billing", zap.String("port", cfg.Port))

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}

	db, err := database.Connect(dbConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.WalletModel{},
			&repository.WalletTransactionModel{},
			&repository.PromoModel{},
			&repository.DeviceIdentityModel{},
		); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsDir, zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, 15*time.Minute)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
	defer kafkaProducer.Close()

	// Initialize repositories
	promoRepo := repository.NewGormPromoRepository(db)
	walletRepo := repository.NewGormWalletRepository(db)
	deviceRepo := repository.NewGormDeviceRepository(db)

	// Seed and load the promo catalog
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer seedCancel()
	if err := promoRepo.Seed(seedCtx, promoDomain.DefaultEntries()); err != nil {
		zapLogger.Fatal("failed to seed promo catalog", zap.Error(err))
	}
	entries, err := promoRepo.LoadAll(seedCtx)
	if err != nil {
		zapLogger.Fatal("failed to load promo catalog", zap.Error(err))
	}
	catalog := promoDomain.NewCatalog(entries...)
	zapLogger.Info("promo catalog loaded", zap.Int("codes", catalog.Len()))

	// Initialize application services
	identityService := application.NewIdentityService(deviceRepo, zapLogger)
	walletService := application.NewWalletService(walletRepo, kafkaProducer, cfg.DefaultCurrency, zapLogger)
	promoService := application.NewPromoService(catalog, promoRepo, zapLogger)

	// Initialize top-up saga with the mock payment provider
	paymentProvider := adapter.NewMockPaymentProvider(zapLogger)
	topupService := saga.NewTopupSagaService(walletService, paymentProvider, zapLogger)

	// Initialize Kafka consumer for external payment events
	consumerGroupID := cfg.KafkaConfig.GroupPrefix + "billing-service"
	paymentConsumer := billingEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		consumerGroupID,
		walletService,
		zapLogger,
	)
	defer paymentConsumer.Close()

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	go func() {
		zapLogger.Info("starting payment event consumer")
		if err := paymentConsumer.Start(consumerCtx); err != nil {
			if consumerCtx.Err() == nil {
				zapLogger.Error("payment event consumer failed", zap.Error(err))
			}
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-billing")
	healthHandler.RegisterRoutes(router)

	// Register API routes
	apiV1 := router.Group("/api/v1")
	handler.NewPlanHandler().RegisterRoutes(apiV1)
	handler.NewWalletHandler(walletService, topupService).RegisterRoutes(apiV1, jwtManager, identityService)
	handler.NewPromoHandler(promoService).RegisterRoutes(apiV1, jwtManager, identityService)
	handler.NewAdminHandler(promoService, walletService).RegisterRoutes(apiV1, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down service-billing...")

	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("service-billing stopped")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medipulse/config"
	"medipulse/cron"
	"medipulse/database"
	"medipulse/handlers"
	"medipulse/metrics"
	"medipulse/middleware"
	"medipulse/routes"
	"medipulse/services/booking"
	"medipulse/services/payment"
	"medipulse/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty; every authenticated request will be rejected")
	}
	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatal("main: failed to register validators", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// storage.
	store, err := database.OpenStorage(ctx, cfg.StorageDriver, cfg.DatabaseURL, cfg.DatabaseName, logger)
	if err != nil {
		logger.Fatal("main: failed to open storage", zap.Error(err))
	}

	// metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(reg)

	// services.
	bookingService := booking.NewBookingService(booking.Repositories{
		Doctors:      store.Doctors,
		Users:        store.Users,
		Appointments: store.Appointments,
		Audit:        store.Audit,
		Store:        store.Bookings,
	}, bookingMetrics, logger)

	var (
		redisClients []*redis.Client
		registry     *payment.IntentRegistry
	)
	cacheClient, err := utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
	if err != nil {
		logger.Warn("main: redis unavailable; pending payment intents will not be reused", zap.Error(err))
	} else {
		redisClients = append(redisClients, cacheClient)
		registry = payment.NewIntentRegistry(cacheClient, time.Duration(cfg.PendingIntentTTLMinutes)*time.Minute)
	}

	if cfg.StripeSecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY is empty; payment intents will fail")
	}
	paymentService := payment.NewPaymentService(
		bookingService,
		payment.NewStripeProvider(cfg.StripeSecretKey, nil),
		registry,
		cfg.PaymentCurrency,
		bookingMetrics,
		logger,
	)

	// background settlement.
	if cacheClient != nil {
		worker := cron.NewSettleWorker(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		}, cfg.SettleCron, bookingService, logger)
		if err := worker.Start(); err != nil {
			logger.Error("main: settle worker not started", zap.Error(err))
		} else {
			defer worker.Shutdown()
		}
	}

	health := utils.NewHealthMonitor(redisClients, store.Client)
	health.Start(ctx, 30*time.Second)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		bookingService,
		paymentService,
		utils.NewTokenSigner(cfg.JWTSecret),
		health,
		utils.Responder{Strict: cfg.StrictHTTPStatus, Logger: logger},
	)
	routes.RegisterRoutes(router, handlerBundle, cfg.AllowedOrigins(), reg)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if cacheClient != nil {
		_ = cacheClient.Close()
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Warn("main: storage did not close cleanly", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

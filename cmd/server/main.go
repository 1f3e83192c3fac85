package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drivehire/internal/config"
	"drivehire/internal/handlers"
	"drivehire/internal/middleware"
	mongorepo "drivehire/internal/repositories/mongodb"
	"drivehire/internal/services"
	"drivehire/pkg/cache"
	"drivehire/pkg/database"
	"drivehire/pkg/identity"
	"drivehire/pkg/logger"
	"drivehire/pkg/maps"
	"drivehire/pkg/payment"
	"drivehire/pkg/push"
	"drivehire/pkg/realtime"
	"drivehire/routes"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	mongodb, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongodb.Close()

	if err := database.NewMigrator(mongodb.Database).Up(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// External providers
	var paymentProvider payment.PaymentProvider
	switch cfg.Payment.DefaultProvider {
	case "razorpay":
		paymentProvider = payment.NewRazorpayProvider(cfg.Payment.Razorpay.KeyID, cfg.Payment.Razorpay.KeySecret)
	default:
		paymentProvider = payment.NewStripeProvider(cfg.Payment.Stripe.SecretKey)
	}

	identityProvider := identity.NewHTTPProvider(cfg.Identity.BaseURL, cfg.Identity.APIKey, cfg.Identity.Timeout)

	var fcmProvider, apnsProvider push.PushProvider
	if cfg.Push.FCM.Enabled {
		provider, err := push.NewFCMProvider(cfg.Push.FCM.CredentialsFile)
		if err != nil {
			log.Fatalf("Failed to init FCM: %v", err)
		}
		fcmProvider = provider
	}
	if cfg.Push.APNS.Enabled {
		provider, err := push.NewAPNSProvider(cfg.Push.APNS.KeyFile, cfg.Push.APNS.KeyID,
			cfg.Push.APNS.TeamID, cfg.Push.APNS.Topic, cfg.Push.APNS.Production)
		if err != nil {
			log.Fatalf("Failed to init APNS: %v", err)
		}
		apnsProvider = provider
	}

	var routeProvider maps.RouteProvider
	if cfg.Maps.Enabled {
		provider, err := maps.NewGoogleMapsProvider(cfg.Maps.GoogleMapsAPIKey)
		if err != nil {
			log.Fatalf("Failed to init Google Maps: %v", err)
		}
		routeProvider = provider
	} else {
		routeProvider = maps.NewHaversineProvider()
	}

	// Realtime hub
	hub := realtime.NewHub()
	go hub.Run()

	// Repositories
	bookingRepo := mongorepo.NewBookingRepository(mongodb.Database)
	driverRepo := mongorepo.NewDriverRepository(mongodb.Database)
	clientRepo := mongorepo.NewClientRepository(mongodb.Database)
	settlementRepo := mongorepo.NewSettlementRepository(mongodb.Database)
	verificationRepo := mongorepo.NewVerificationRepository(mongodb.Database)
	disputeRepo := mongorepo.NewDisputeRepository(mongodb.Database)
	auditRepo := mongorepo.NewAuditLogRepository(mongodb.Database)
	settingsRepo := mongorepo.NewPlatformSettingsRepository(mongodb.Database)

	// Services
	notificationSvc := services.NewNotificationService(driverRepo, clientRepo, fcmProvider, apnsProvider, log)
	settlementSvc := services.NewSettlementService(settlementRepo, bookingRepo, driverRepo, settingsRepo, paymentProvider, log)
	bookingSvc := services.NewBookingService(bookingRepo, driverRepo, clientRepo, verificationRepo,
		settingsRepo, disputeRepo, auditRepo, paymentProvider, routeProvider, settlementSvc,
		notificationSvc, hub, log)
	presenceSvc := services.NewPresenceService(driverRepo, bookingRepo, redisCache, log)
	verificationSvc := services.NewVerificationService(verificationRepo, auditRepo, identityProvider, log)
	disputeSvc := services.NewDisputeService(disputeRepo, bookingRepo, auditRepo, hub, log)
	settingsSvc := services.NewSettingsService(settingsRepo, log)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := settingsSvc.EnsureDefaults(bootCtx, cfg.Platform.CommissionPercentage, cfg.Platform.PerKMRate); err != nil {
		bootCancel()
		log.Fatalf("Failed to seed platform settings: %v", err)
	}
	bootCancel()

	changeFeed := services.NewChangeFeedService(mongodb.Database, hub, log)
	changeFeed.Start()
	defer changeFeed.Stop()
	defer presenceSvc.Shutdown()

	// Payout retry worker
	retryCtx, retryCancel := context.WithCancel(context.Background())
	defer retryCancel()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if settled, err := settlementSvc.RetryPendingPayouts(retryCtx, 50); err != nil {
					log.WithError(err).Warn("Payout retry sweep failed")
				} else if settled > 0 {
					log.WithField("settled", settled).Info("Payout retry sweep settled pending payouts")
				}
			case <-retryCtx.Done():
				return
			}
		}
	}()

	// HTTP surface
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	routes.Setup(router, cfg.Security.JWTSecret, &routes.Handlers{
		Booking:      handlers.NewBookingHandler(bookingSvc, settlementSvc),
		Presence:     handlers.NewPresenceHandler(presenceSvc),
		Verification: handlers.NewVerificationHandler(verificationSvc),
		Dispute:      handlers.NewDisputeHandler(disputeSvc),
		Settings:     handlers.NewSettingsHandler(settingsSvc),
		WS:           handlers.NewWSHandler(hub),
		HealthCheck: func() map[string]string {
			checks := map[string]string{"mongodb": "ok", "redis": "ok"}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := mongodb.Client.Ping(ctx, readpref.Primary()); err != nil {
				checks["mongodb"] = err.Error()
			}
			if _, err := redisCache.Exists(ctx, "health"); err != nil {
				checks["redis"] = err.Error()
			}
			return checks
		},
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}

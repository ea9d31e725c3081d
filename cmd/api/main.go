package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/openlots/parking-reservation/internal/adapters/cache"
	"github.com/openlots/parking-reservation/internal/adapters/database"
	"github.com/openlots/parking-reservation/internal/adapters/events"
	"github.com/openlots/parking-reservation/internal/api/handlers"
	"github.com/openlots/parking-reservation/internal/api/middleware"
	"github.com/openlots/parking-reservation/internal/api/routes"
	"github.com/openlots/parking-reservation/internal/application/services"
	"github.com/openlots/parking-reservation/internal/domain/providers"
	"github.com/openlots/parking-reservation/internal/infrastructure/clients/postgres"
	"github.com/openlots/parking-reservation/internal/infrastructure/clients/redis"
	"github.com/openlots/parking-reservation/internal/infrastructure/notifications"
	"github.com/openlots/parking-reservation/internal/infrastructure/observability"
	"github.com/openlots/parking-reservation/pkg/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized successfully")

	// Initialize Redis client. The application degrades to uncached
	// operation when Redis is unavailable.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client, continuing without caching")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for cache invalidation
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Event bus initialized successfully")
	} else {
		log.Info().Msg("Event bus disabled (Redis not available)")
	}

	// Initialize adapters
	userAdapter := database.NewUserAdapter(pgClient)
	carAdapter := database.NewCarAdapter(pgClient)
	parkingAdapter := database.NewParkingAdapter(pgClient)
	parkingSpaceAdapter := database.NewParkingSpaceAdapter(pgClient)
	reservationAdapter := database.NewReservationAdapter(pgClient)
	auditLogAdapter := database.NewAuditLogAdapter(pgClient)

	// Initialize services
	userService := services.NewUserService(userAdapter, &cfg.Auth)
	carService := services.NewCarService(carAdapter, auditLogAdapter)
	parkingService := services.NewParkingService(parkingAdapter, eventBus)
	parkingSpaceService := services.NewParkingSpaceService(parkingSpaceAdapter, parkingAdapter, eventBus)
	reservationService := services.NewReservationService(reservationAdapter, auditLogAdapter)

	// Initialize cache invalidation service
	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
		} else {
			log.Info().Msg("Cache invalidation service started successfully")
		}
	}

	// Start the reservation notifier sweep loop
	if cfg.Notifier.Enabled {
		emailSender, err := notifications.NewSMTPSender(&cfg.SMTP)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize SMTP sender, notifier disabled")
		} else {
			notifier := services.NewNotifierService(
				reservationAdapter,
				auditLogAdapter,
				emailSender,
				metrics,
				&cfg.Notifier,
			)
			notifier.StartPeriodicSweeping(ctx, cfg.Notifier.Interval)
			log.Info().Dur("interval", cfg.Notifier.Interval).Msg("Reservation notifier started")
		}
	}

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, carService)
	carHandler := handlers.NewCarHandler(carService)
	parkingHandler := handlers.NewParkingHandler(parkingService)
	parkingSpaceHandler := handlers.NewParkingSpaceHandler(parkingSpaceService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	auditLogHandler := handlers.NewAuditLogHandler(auditLogAdapter)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Info().Msg("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		userHandler,
		carHandler,
		parkingHandler,
		parkingSpaceHandler,
		reservationHandler,
		auditLogHandler,
		cacheMiddleware,
		metrics,
		cfg.Auth.JWTSecret,
		cfg.Server.AllowedOrigins,
	)

	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Info().Msg("Server stopped")
}

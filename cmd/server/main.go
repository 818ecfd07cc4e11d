package main

// @title           Whiteboard Service API
// @version         1.0
// @description     Real-time collaborative whiteboard sessions over WebSocket
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "whiteboard-service/docs"
	"whiteboard-service/internal/adapters/kafka"
	"whiteboard-service/internal/adapters/storage"
	"whiteboard-service/internal/api/handlers"
	"whiteboard-service/internal/api/middleware"
	"whiteboard-service/internal/api/routes"
	"whiteboard-service/internal/catalog"
	"whiteboard-service/internal/config"
	"whiteboard-service/internal/database"
	"whiteboard-service/internal/services"
	"whiteboard-service/internal/websocket"
	"whiteboard-service/internal/whiteboard"
	"whiteboard-service/pkg/logger"
)

const catalogCacheTTL = 5 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logg := logger.New(cfg.Log.Level, cfg.Log.Format)
	logg.Info("Starting whiteboard server")

	ctx := context.Background()
	coordinatorOpts := []whiteboard.Option{whiteboard.WithLogger(logg.With("component", "coordinator"))}
	healthChecks := map[string]handlers.Pinger{}
	var rateLimiter middleware.RateLimiter
	var presenceReader handlers.PresenceReader
	var catalogCache catalog.Cache

	// Redis is optional: presence mirror, connection rate limit and catalog cache
	var presence *services.PresenceMirror
	if cfg.Redis.Enabled() {
		redisClient, err := database.NewRedisConnection(&cfg.Redis, logg)
		if err != nil {
			logg.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		redisService := services.NewRedisService(redisClient, logg)
		presence = services.NewPresenceMirror(redisService, cfg.Redis.QueueSize, logg.With("component", "presence"))
		go presence.Run()

		coordinatorOpts = append(coordinatorOpts, whiteboard.WithObserver(presence))
		healthChecks["redis"] = redisClient
		rateLimiter = redisService
		presenceReader = redisService
		catalogCache = redisService
	}

	// Kafka is optional: audit stream of log mutations
	var audit *kafka.AuditPublisher
	if cfg.Kafka.Enabled() {
		producer, err := kafka.InitKafkaProducer(cfg.Kafka.Brokers)
		if err != nil {
			logg.Error("Failed to create Kafka producer", "error", err)
			os.Exit(1)
		}
		audit = kafka.NewAuditPublisher(producer, cfg.Kafka.Topic, cfg.Kafka.QueueSize, logg.With("component", "audit"))
		go audit.Run()

		coordinatorOpts = append(coordinatorOpts, whiteboard.WithObserver(audit))
	}

	templates, err := openCatalog(ctx, cfg.Catalog, logg)
	if err != nil {
		logg.Error("Failed to open template catalog", "source", cfg.Catalog.Source, "error", err)
		os.Exit(1)
	}
	if catalogCache != nil {
		templates = catalog.NewCachedStore(templates, catalogCache, catalogCacheTTL, logg)
	}

	coordinator := whiteboard.NewCoordinator(coordinatorOpts...)

	// Initialize WebSocket hub
	hub := websocket.NewHub(coordinator, logg.With("component", "hub"), websocket.Options{
		SendBuffer:     cfg.WebSocket.SendBuffer,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		PongWait:       cfg.WebSocket.PongWait,
	})
	go hub.Run()

	upgrader := websocket.NewUpgrader(websocket.UpgraderConfig{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
	})

	// Initialize router with all dependencies
	router := routes.NewRouter(routes.Dependencies{
		Hub:            hub,
		Upgrader:       upgrader,
		Coordinator:    coordinator,
		Catalog:        templates,
		RateLimiter:    rateLimiter,
		Presence:       presenceReader,
		WSRateLimit:    cfg.WebSocket.RateLimit,
		WSRateWindow:   cfg.WebSocket.RateWindow,
		AllowedOrigins: cfg.WebSocket.AllowedOrigins,
		HealthChecks:   healthChecks,
		Logger:         logg,
	})
	router.SetupRoutes()

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("Server starting", "address", server.Addr, "catalog", cfg.Catalog.Source)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("Server forced to shutdown", "error", err)
	}

	// Disconnect every client before the observers drain
	hub.Stop(cfg.Server.ShutdownTimeout)

	if presence != nil {
		presence.Close(cfg.Server.ShutdownTimeout)
	}
	if audit != nil {
		if err := audit.Close(cfg.Server.ShutdownTimeout); err != nil {
			logg.Error("Failed to close audit publisher", "error", err)
		}
	}

	logg.Info("Server stopped")
}

// openCatalog builds the template store for the configured source
func openCatalog(ctx context.Context, cfg config.CatalogConfig, logg *logger.Logger) (catalog.Store, error) {
	switch cfg.Source {
	case config.CatalogSourceFile:
		return catalog.NewFileStore(cfg.File)
	case config.CatalogSourcePostgres:
		db, err := database.NewPostgresConnection(cfg.DatabaseURL, logg, &catalog.TemplateModel{})
		if err != nil {
			return nil, err
		}
		return catalog.NewGormStore(db), nil
	case config.CatalogSourceMinio:
		client, err := storage.NewMinIOClient(ctx, cfg.MinIO, logg)
		if err != nil {
			return nil, err
		}
		return catalog.NewMinioStore(client, cfg.MinIO.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

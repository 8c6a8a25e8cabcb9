// Package main is the entry point for the storefront API.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aesthetx/internal/config"
	"aesthetx/internal/events"
	"aesthetx/internal/jobs"
	"aesthetx/internal/kafka"
	"aesthetx/internal/repositories"
	"aesthetx/internal/repositories/cache"
	"aesthetx/internal/routes"
	"aesthetx/internal/services/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

// main performs the following setup:
// - Loads configuration
// - Connects PostgreSQL, Redis and Kafka
// - Configures middleware and routes
// - Serves until SIGINT/SIGTERM, then shuts down gracefully
func main() {
	config.LoadEnv()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("⚠️ Failed to close database connection: %v", err)
		}
	}()

	// Periodic check of connection pool stats
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
					stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
			}
		}
	}()

	redisClient, store := initCache(ctx, cfg.Redis)
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("⚠️ Failed to close cache: %v", err)
		}
	}()

	var publisher events.Publisher = events.LogPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, 1024)
		producer.Start()
		defer producer.Close()
		publisher = events.NewKafkaPublisher(producer, "aesthetx-api")
		log.Printf("✅ Publishing events to Kafka at %v", cfg.Kafka.Brokers)
	} else {
		log.Println("⚠️ KAFKA_BROKERS not set, events will be logged and dropped")
	}

	gateway, err := payment.NewGateway(cfg.Payment)
	if err != nil {
		log.Fatalf("Failed to configure payments: %v", err)
	}
	log.Printf("✅ Payments through %s", gateway.Name())

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	cleanup := jobs.NewSessionCleanup(repositories.NewSessionRepository(db), cfg.Cron.SessionCleanupInterval)
	go cleanup.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:   "AesthetX Ways API",
		BodyLimit: cfg.Upload.MaxBytes + 1<<20,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Config:    cfg,
		DB:        db,
		Redis:     redisClient,
		Cache:     store,
		Publisher: publisher,
		Gateway:   gateway,
	})

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️ Shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

type closableCache interface {
	repositories.Cache
	Close() error
}

// initCache connects to Redis and falls back to an in-process cache when
// Redis does not answer. The client is nil in that case.
func initCache(ctx context.Context, cfg config.RedisConfig) (*redis.Client, closableCache) {
	client := cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := cache.Ping(ctx, client); err != nil {
		log.Printf("⚠️ Redis unavailable (%v), using in-memory cache", err)
		_ = client.Close()
		return nil, cache.NewMemoryCache(cfg.CacheTTL)
	}
	log.Println("✅ Redis connected")
	return client, cache.NewCacheService(client, cfg.CacheTTL)
}

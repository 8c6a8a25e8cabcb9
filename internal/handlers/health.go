package handlers

import (
	"context"
	"time"

	"aesthetx/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const version = "1.0.0"

// HealthHandler reports whether the store's backing services answer.
// The redis client is nil when the in-memory cache is used.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	services := fiber.Map{"database": "connected", "cache": "memory"}

	if err := h.pingDB(ctx); err != nil {
		status = fiber.StatusServiceUnavailable
		services["database"] = "unavailable"
	}
	if h.redis != nil {
		services["cache"] = "redis"
		if err := cache.Ping(ctx, h.redis); err != nil {
			status = fiber.StatusServiceUnavailable
			services["cache"] = "unavailable"
		}
	}

	state := "ok"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   state,
		"version":  version,
		"services": services,
	})
}

// CacheStats returns the redis connection pool counters.
func (h *HealthHandler) CacheStats(c *fiber.Ctx) error {
	if h.redis == nil {
		return c.JSON(fiber.Map{"cache": "memory"})
	}
	poolStats := h.redis.PoolStats()

	return c.JSON(fiber.Map{
		"cache": "redis",
		"pool_stats": fiber.Map{
			"hits":        poolStats.Hits,
			"misses":      poolStats.Misses,
			"timeouts":    poolStats.Timeouts,
			"total_conns": poolStats.TotalConns,
			"idle_conns":  poolStats.IdleConns,
			"stale_conns": poolStats.StaleConns,
		},
	})
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	if h.db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

package health

import (
	"time"

	"pomona-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handlers serves the health endpoints.
type Handlers struct {
	Rdb      *redis.Client
	DB       *gorm.DB
	AdminKey string
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	var pinger DBPinger
	if h.DB != nil {
		if sqlDB, err := h.DB.DB(); err == nil {
			pinger = sqlDB
		}
	}
	result := CollectHealth(c.Context(), h.Rdb, pinger)
	return c.JSON(result)
}

// Reset GET /health/reset — clears traffic counters. Admin key required.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if h.AdminKey == "" || c.Query("key") != h.AdminKey {
		return c.SendStatus(fiber.StatusForbidden)
	}
	ctx := c.Context()
	h.Rdb.Del(ctx, middleware.KeyReqTotal, middleware.KeyReqErrors,
		middleware.KeyResTime, middleware.KeyResCount, middleware.KeyLastReq)
	h.Rdb.Set(ctx, middleware.KeyStartTime, time.Now().UnixMilli(), 0)
	return c.JSON(fiber.Map{"status": "reset"})
}

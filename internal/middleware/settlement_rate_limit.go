package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// SettlementRateLimit throttles outbound settlement attempts per principal
// using Redis if available. The window is one minute.
func SettlementRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 10
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}
		var req struct {
			Principal string `json:"principal"`
		}
		_ = c.BodyParser(&req)
		principal := strings.TrimSpace(req.Principal)
		if principal == "" {
			principal = c.IP()
		}
		key := "rl:settle:" + principal
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many settlement attempts, try again later")
		}
		return c.Next()
	}
}

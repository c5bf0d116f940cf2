package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vaultpay/vault_pay/internal/clock"
	"github.com/vaultpay/vault_pay/internal/config"
	"github.com/vaultpay/vault_pay/internal/middleware"
	"github.com/vaultpay/vault_pay/internal/notification"
	"github.com/vaultpay/vault_pay/internal/vault"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Engine and handler
	var store vault.Store
	if d.DB != nil {
		store = vault.NewPostgresStore(d.DB)
	} else {
		store = vault.NewMemoryStore()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	treasury := vault.NewRecordingTreasury()
	engine := vault.NewEngine(store, treasury, clock.System{}, notifier, d.Cfg.InterestRate)
	vaultHandler := vault.NewHandler(engine)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	settleLimit := middleware.SettlementRateLimit(d.Cache, 10)
	RegisterVaultRoutes(api, vaultHandler, settleLimit)

	return nil
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vaultpay/vault_pay/internal/vault"
)

// RegisterVaultRoutes wires custody and settlement endpoints. Outbound
// settlement endpoints carry the per-principal rate limit.
func RegisterVaultRoutes(r fiber.Router, h *vault.Handler, settleLimit fiber.Handler) {
	grp := r.Group("/vault")

	grp.Post("/deposit", h.Deposit)
	grp.Post("/withdraw", settleLimit, h.Withdraw)
	grp.Post("/withdraw-all", settleLimit, h.WithdrawAll)

	grp.Get("/custody", h.Custody)
	grp.Get("/accounts/:principal/balance", h.Balance)
	grp.Get("/accounts/:principal/current-balance", h.CurrentBalance)

	// Inbound value that names no recognized operation is an implicit deposit:
	// the bare receive endpoint and the catch-all dispatch must behave identically.
	grp.Post("/receive", h.Receive)
	grp.Post("/*", h.Receive)
}

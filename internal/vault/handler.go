package vault

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes vault HTTP endpoints as thin adapters over the engine.
type Handler struct {
	engine *Engine
}

// NewHandler builds a vault HTTP handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type depositRequest struct {
	Principal string `json:"principal"`
	Amount    int64  `json:"amount"`
}

type withdrawRequest struct {
	Principal string `json:"principal"`
	Amount    int64  `json:"amount"`
}

type withdrawAllRequest struct {
	Principal string `json:"principal"`
}

// Deposit places value under custody for a principal.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.acceptDeposit(c)
}

// Receive handles inbound value that names no recognized operation: a bare
// transfer becomes an implicit deposit on behalf of the sender. Both fallback
// entry points route here so deposit semantics live in exactly one place.
func (h *Handler) Receive(c *fiber.Ctx) error {
	return h.acceptDeposit(c)
}

func (h *Handler) acceptDeposit(c *fiber.Ctx) error {
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Principal == "" {
		return fiber.NewError(http.StatusBadRequest, "principal is required")
	}
	res, err := h.engine.Deposit(c.UserContext(), req.Principal, req.Amount)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"principal": res.Principal,
		"amount":    res.Amount,
		"balance":   res.Balance,
	})
}

// Withdraw settles a caller-chosen amount back to the principal.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Principal == "" {
		return fiber.NewError(http.StatusBadRequest, "principal is required")
	}
	res, err := h.engine.Withdraw(c.UserContext(), req.Principal, req.Amount)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"principal": res.Principal,
		"amount":    res.Amount,
		"interest":  res.Interest,
		"balance":   res.Balance,
	})
}

// WithdrawAll settles the principal's entire position.
func (h *Handler) WithdrawAll(c *fiber.Ctx) error {
	var req withdrawAllRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Principal == "" {
		return fiber.NewError(http.StatusBadRequest, "principal is required")
	}
	res, err := h.engine.WithdrawAll(c.UserContext(), req.Principal)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"principal": res.Principal,
		"amount":    res.Amount,
		"interest":  res.Interest,
		"balance":   res.Balance,
	})
}

// Balance returns the raw stored balance for a principal.
func (h *Handler) Balance(c *fiber.Ctx) error {
	principal := c.Params("principal")
	balance, err := h.engine.Balance(c.UserContext(), principal)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"principal": principal,
		"balance":   balance,
	})
}

// CurrentBalance returns the balance with pending interest folded in.
func (h *Handler) CurrentBalance(c *fiber.Ctx) error {
	principal := c.Params("principal")
	balance, err := h.engine.CurrentBalance(c.UserContext(), principal)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"principal": principal,
		"balance":   balance,
	})
}

// Custody reports the total value held by the vault.
func (h *Handler) Custody(c *fiber.Ctx) error {
	total, err := h.engine.CustodyBalance(c.UserContext())
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"custody": total})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNoDeposit):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInsufficientBalance):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrTransferFailed):
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return fiber.NewError(http.StatusInternalServerError, err.Error())
}

package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/vaultpay/vault_pay/internal/clock"
)

func setupVaultApp(t *testing.T) (*fiber.App, *Engine) {
	t.Helper()
	engine := NewEngine(NewMemoryStore(), NewRecordingTreasury(), clock.NewManual(0), nil, 1)
	h := NewHandler(engine)

	app := fiber.New()
	grp := app.Group("/vault")
	grp.Post("/deposit", h.Deposit)
	grp.Post("/withdraw", h.Withdraw)
	grp.Post("/withdraw-all", h.WithdrawAll)
	grp.Get("/custody", h.Custody)
	grp.Get("/accounts/:principal/balance", h.Balance)
	grp.Post("/receive", h.Receive)
	grp.Post("/*", h.Receive)

	return app, engine
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s: %v", path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	_ = json.Unmarshal(payload, &decoded)
	return resp.StatusCode, decoded
}

func TestDepositEndpoint(t *testing.T) {
	app, _ := setupVaultApp(t)

	status, body := postJSON(t, app, "/vault/deposit", `{"principal":"alice","amount":1000}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if body["balance"].(float64) != 1000 {
		t.Fatalf("expected balance 1000, got %v", body["balance"])
	}
}

func TestDepositEndpointRejectsInvalidAmount(t *testing.T) {
	app, _ := setupVaultApp(t)

	status, _ := postJSON(t, app, "/vault/deposit", `{"principal":"alice","amount":0}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestWithdrawEndpointErrorMapping(t *testing.T) {
	app, _ := setupVaultApp(t)

	status, _ := postJSON(t, app, "/vault/withdraw", `{"principal":"ghost","amount":100}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for no deposit, got %d", status)
	}

	if status, _ := postJSON(t, app, "/vault/deposit", `{"principal":"alice","amount":500}`); status != fiber.StatusCreated {
		t.Fatalf("seed deposit failed: %d", status)
	}
	status, _ = postJSON(t, app, "/vault/withdraw", `{"principal":"alice","amount":900}`)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 for insufficient balance, got %d", status)
	}
}

func TestFallbackEntryPointsActAsDeposit(t *testing.T) {
	app, engine := setupVaultApp(t)

	// Both the bare receive endpoint and an unrecognized operation selector
	// must credit the sender identically.
	if status, _ := postJSON(t, app, "/vault/receive", `{"principal":"alice","amount":300}`); status != fiber.StatusCreated {
		t.Fatalf("receive: expected 201, got %d", status)
	}
	if status, _ := postJSON(t, app, "/vault/definitely-not-an-operation", `{"principal":"alice","amount":200}`); status != fiber.StatusCreated {
		t.Fatalf("unknown operation: expected 201, got %d", status)
	}

	balance, err := engine.Balance(context.Background(), "alice")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 500 {
		t.Fatalf("expected fallback deposits to total 500, got %d", balance)
	}
}

func TestWithdrawAllEndpointSettlesEverything(t *testing.T) {
	app, _ := setupVaultApp(t)

	if status, _ := postJSON(t, app, "/vault/deposit", `{"principal":"bob","amount":750}`); status != fiber.StatusCreated {
		t.Fatalf("seed deposit failed")
	}

	status, body := postJSON(t, app, "/vault/withdraw-all", `{"principal":"bob"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["amount"].(float64) != 750 || body["balance"].(float64) != 0 {
		t.Fatalf("unexpected payout: %v", body)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/vault/accounts/bob/balance", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("balance query: %v", err)
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if decoded["balance"].(float64) != 0 {
		t.Fatalf("expected zero balance, got %v", decoded["balance"])
	}
}

func TestCustodyEndpointTracksDeposits(t *testing.T) {
	app, _ := setupVaultApp(t)

	for i := 0; i < 3; i++ {
		principal := fmt.Sprintf("p%d", i)
		if status, _ := postJSON(t, app, "/vault/deposit", fmt.Sprintf(`{"principal":%q,"amount":100}`, principal)); status != fiber.StatusCreated {
			t.Fatalf("deposit %s failed", principal)
		}
	}

	req := httptest.NewRequest(fiber.MethodGet, "/vault/custody", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("custody query: %v", err)
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode custody: %v", err)
	}
	if decoded["custody"].(float64) != 300 {
		t.Fatalf("expected custody 300, got %v", decoded["custody"])
	}
}

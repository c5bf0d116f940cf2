package notification

import (
	"context"
	"log/slog"
	"sync"
)

const (
	// KindDeposit indicates value was placed under custody.
	KindDeposit = "deposit"
	// KindWithdraw indicates a partial withdrawal settled to the principal.
	KindWithdraw = "withdraw"
	// KindOwnerWithdraw indicates the principal closed out their full position.
	KindOwnerWithdraw = "owner_withdraw"
)

// Message describes a vault event payload.
type Message struct {
	Kind      string
	Principal string
	Amount    int64
	Interest  int64
}

// Notifier broadcasts vault events to downstream consumers. Delivery is
// fire-and-forget; the vault never alters control flow based on the outcome.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes events to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the event to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("vault event",
		"kind", message.Kind,
		"principal", message.Principal,
		"amount", message.Amount,
		"interest", message.Interest,
	)
	return nil
}

// Capture records every event it receives. Useful for tests and indexers.
type Capture struct {
	mu       sync.Mutex
	messages []Message
}

// NewCapture constructs an empty capturing notifier.
func NewCapture() *Capture {
	return &Capture{}
}

// Send appends the message to the capture log.
func (c *Capture) Send(_ context.Context, message Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
	return nil
}

// Messages returns a copy of everything captured so far.
func (c *Capture) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

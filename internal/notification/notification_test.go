package notification

import (
	"context"
	"sync"
	"testing"

	"github.com/vaultpay/vault_pay/internal/logging"
)

func TestCaptureRecordsMessagesInOrder(t *testing.T) {
	c := NewCapture()
	ctx := context.Background()

	messages := []Message{
		{Kind: KindDeposit, Principal: "alice", Amount: 1_000},
		{Kind: KindWithdraw, Principal: "alice", Amount: 500, Interest: 100},
		{Kind: KindOwnerWithdraw, Principal: "alice", Amount: 600, Interest: 0},
	}
	for _, msg := range messages {
		if err := c.Send(ctx, msg); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	got := c.Messages()
	if len(got) != len(messages) {
		t.Fatalf("expected %d messages, got %d", len(messages), len(got))
	}
	for i := range messages {
		if got[i] != messages[i] {
			t.Fatalf("message %d: expected %+v, got %+v", i, messages[i], got[i])
		}
	}
}

func TestCaptureIsSafeForConcurrentSenders(t *testing.T) {
	c := NewCapture()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Send(ctx, Message{Kind: KindDeposit, Principal: "alice", Amount: 1})
		}()
	}
	wg.Wait()

	if got := len(c.Messages()); got != 50 {
		t.Fatalf("expected 50 messages, got %d", got)
	}
}

func TestLoggerNotifierToleratesNilLogger(t *testing.T) {
	var n *LoggerNotifier
	if err := n.Send(context.Background(), Message{Kind: KindDeposit}); err != nil {
		t.Fatalf("nil notifier must be a no-op, got %v", err)
	}

	n = NewLoggerNotifier(logging.Discard())
	if err := n.Send(context.Background(), Message{Kind: KindWithdraw, Principal: "alice", Amount: 5}); err != nil {
		t.Fatalf("send: %v", err)
	}
}

package vault

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Treasury represents the connector that settles value out of custody to a
// principal. The engine never assumes settlement succeeded; a non-nil error
// surfaces as ErrTransferFailed. Implementations may execute arbitrary
// receiver code synchronously, including calls back into the engine, before
// returning.
type Treasury interface {
	Transfer(ctx context.Context, principal string, amount int64) error
}

// Payout records a settled outbound transfer.
type Payout struct {
	Reference string
	Principal string
	Amount    int64
}

// RecordingTreasury settles transfers in memory and keeps a payout journal.
// The hooks let tests simulate declined settlement and receiver code that
// calls back into the engine mid-transfer.
type RecordingTreasury struct {
	mu      sync.Mutex
	payouts []Payout

	// Decline, when set, is consulted first; a non-nil error aborts the payout.
	Decline func(principal string, amount int64) error
	// OnTransfer, when set, runs synchronously before the payout is recorded,
	// mirroring a receiving principal that executes code on settlement.
	OnTransfer func(ctx context.Context, principal string, amount int64)
}

// NewRecordingTreasury constructs a treasury with an empty payout journal.
func NewRecordingTreasury() *RecordingTreasury {
	return &RecordingTreasury{}
}

// Transfer settles the amount to the principal, assigning a synthetic
// settlement reference.
func (t *RecordingTreasury) Transfer(ctx context.Context, principal string, amount int64) error {
	if t.Decline != nil {
		if err := t.Decline(principal, amount); err != nil {
			return err
		}
	}
	if t.OnTransfer != nil {
		t.OnTransfer(ctx, principal, amount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.payouts = append(t.payouts, Payout{
		Reference: uuid.NewString(),
		Principal: principal,
		Amount:    amount,
	})
	return nil
}

// Payouts returns a copy of the settlement journal.
func (t *RecordingTreasury) Payouts() []Payout {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Payout, len(t.payouts))
	copy(out, t.payouts)
	return out
}

// Settled returns the total value transferred out so far.
func (t *RecordingTreasury) Settled() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total int64
	for _, p := range t.payouts {
		total += p.Amount
	}
	return total
}

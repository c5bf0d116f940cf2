package vault

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryStoreUnknownPrincipalIsZeroAccount(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	acct, err := s.Account(ctx, "ghost")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if !acct.Empty() || acct.LastAccrual != 0 {
		t.Fatalf("expected zero account, got %+v", acct)
	}
}

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	want := Account{Balance: 1_200, LastAccrual: 42}
	if err := s.SaveAccount(ctx, "alice", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Account(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestMemoryStoreCustodyAccumulates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	deltas := []int64{500, 300, -200}
	for _, d := range deltas {
		if err := s.AddCustody(ctx, d); err != nil {
			t.Fatalf("add custody %d: %v", d, err)
		}
	}

	total, err := s.Custody(ctx)
	if err != nil {
		t.Fatalf("custody: %v", err)
	}
	if total != 600 {
		t.Fatalf("expected custody 600, got %d", total)
	}
}

func TestMemoryStoreConcurrentCustodyWrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddCustody(ctx, 10)
		}()
	}
	wg.Wait()

	total, err := s.Custody(ctx)
	if err != nil {
		t.Fatalf("custody: %v", err)
	}
	if total != 1_000 {
		t.Fatalf("expected custody 1000, got %d", total)
	}
}

func TestSeedAccountHelper(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	SeedAccount(s, "alice", Account{Balance: 2_500, LastAccrual: 7})

	acct, err := s.Account(ctx, "alice")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if acct.Balance != 2_500 || acct.LastAccrual != 7 {
		t.Fatalf("unexpected seeded account: %+v", acct)
	}

	custody, err := s.Custody(ctx)
	if err != nil {
		t.Fatalf("custody: %v", err)
	}
	if custody != 2_500 {
		t.Fatalf("seeding must keep custody consistent, got %d", custody)
	}
}

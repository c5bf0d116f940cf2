package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vaultpay/vault_pay/internal/clock"
	"github.com/vaultpay/vault_pay/internal/notification"
)

var (
	// ErrInvalidAmount occurs when an operation is given a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNoDeposit occurs when an operation requires an existing non-zero
	// balance and the principal has none.
	ErrNoDeposit = errors.New("no deposit for principal")

	// ErrInsufficientBalance occurs when a withdrawal exceeds the principal's
	// balance plus pending interest.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrTransferFailed occurs when the treasury declined the outbound
	// settlement. The debit is credited back before this error is returned.
	ErrTransferFailed = errors.New("external transfer failed")
)

// Engine is the single authority over principal balances and the only code
// path permitted to move value out of custody.
//
// Every balance-changing operation follows checks-effects-interactions: the
// debit is committed to the store before the treasury transfer is issued, so
// receiver code that reenters the engine during settlement observes the
// already-debited balance and cannot overdraft. Operations are serialized per
// principal; independent principals proceed concurrently.
type Engine struct {
	store    Store
	treasury Treasury
	clk      clock.Clock
	notifier notification.Notifier
	rate     int64

	locks sync.Map // principal -> *sync.Mutex
}

// NewEngine wires the accrual engine. rate is the flat interest accrual in
// units per second of holding, deliberately independent of balance magnitude.
func NewEngine(store Store, treasury Treasury, clk clock.Clock, notifier notification.Notifier, rate int64) *Engine {
	return &Engine{store: store, treasury: treasury, clk: clk, notifier: notifier, rate: rate}
}

// DepositResult reports the stored balance after a deposit.
type DepositResult struct {
	Principal string
	Amount    int64
	Balance   int64
}

// WithdrawResult reports a settled withdrawal and the interest folded in by it.
type WithdrawResult struct {
	Principal string
	Amount    int64
	Interest  int64
	Balance   int64
}

// Deposit places value under custody for the principal. Interest pending on
// an existing balance is folded in and the accrual clock restarts. The value
// itself must already sit inside the custody boundary; no outbound transfer
// happens here.
func (e *Engine) Deposit(ctx context.Context, principal string, amount int64) (DepositResult, error) {
	if amount <= 0 {
		return DepositResult{}, ErrInvalidAmount
	}

	mu := e.principalLock(principal)
	mu.Lock()
	defer mu.Unlock()

	acct, err := e.store.Account(ctx, principal)
	if err != nil {
		return DepositResult{}, fmt.Errorf("load account: %w", err)
	}

	now := e.clk.Now()
	if acct.Empty() {
		acct = Account{Balance: amount, LastAccrual: now}
	} else {
		acct.Balance += amount + e.accrued(acct, now)
		acct.LastAccrual = now
	}

	if err := e.store.SaveAccount(ctx, principal, acct); err != nil {
		return DepositResult{}, fmt.Errorf("save account: %w", err)
	}
	if err := e.store.AddCustody(ctx, amount); err != nil {
		return DepositResult{}, fmt.Errorf("record custody: %w", err)
	}

	e.notify(ctx, notification.Message{Kind: notification.KindDeposit, Principal: principal, Amount: amount})
	return DepositResult{Principal: principal, Amount: amount, Balance: acct.Balance}, nil
}

// Withdraw settles amount to the principal out of balance plus pending
// interest. The remainder stays on deposit with the accrual clock restarted.
func (e *Engine) Withdraw(ctx context.Context, principal string, amount int64) (WithdrawResult, error) {
	mu := e.principalLock(principal)
	mu.Lock()

	acct, err := e.store.Account(ctx, principal)
	if err != nil {
		mu.Unlock()
		return WithdrawResult{}, fmt.Errorf("load account: %w", err)
	}
	if acct.Empty() {
		mu.Unlock()
		return WithdrawResult{}, ErrNoDeposit
	}
	if amount <= 0 {
		mu.Unlock()
		return WithdrawResult{}, ErrInvalidAmount
	}

	now := e.clk.Now()
	interest := e.accrued(acct, now)
	total := acct.Balance + interest
	if total < amount {
		mu.Unlock()
		return WithdrawResult{}, ErrInsufficientBalance
	}

	debited := Account{Balance: total - amount, LastAccrual: now}
	if err := e.store.SaveAccount(ctx, principal, debited); err != nil {
		mu.Unlock()
		return WithdrawResult{}, fmt.Errorf("save account: %w", err)
	}
	mu.Unlock()

	if err := e.settle(ctx, principal, amount, now); err != nil {
		return WithdrawResult{}, err
	}

	e.notify(ctx, notification.Message{Kind: notification.KindWithdraw, Principal: principal, Amount: amount, Interest: interest})
	return WithdrawResult{Principal: principal, Amount: amount, Interest: interest, Balance: debited.Balance}, nil
}

// WithdrawAll settles the principal's entire balance plus pending interest
// and drives the account to the empty state. The operation acts on behalf of
// the calling principal; there is no administrative role.
func (e *Engine) WithdrawAll(ctx context.Context, principal string) (WithdrawResult, error) {
	mu := e.principalLock(principal)
	mu.Lock()

	acct, err := e.store.Account(ctx, principal)
	if err != nil {
		mu.Unlock()
		return WithdrawResult{}, fmt.Errorf("load account: %w", err)
	}
	if acct.Empty() {
		mu.Unlock()
		return WithdrawResult{}, ErrNoDeposit
	}

	now := e.clk.Now()
	interest := e.accrued(acct, now)
	total := acct.Balance + interest

	// The accrual clock is meaningless until the next deposit.
	if err := e.store.SaveAccount(ctx, principal, Account{}); err != nil {
		mu.Unlock()
		return WithdrawResult{}, fmt.Errorf("save account: %w", err)
	}
	mu.Unlock()

	if err := e.settle(ctx, principal, total, now); err != nil {
		return WithdrawResult{}, err
	}

	e.notify(ctx, notification.Message{Kind: notification.KindOwnerWithdraw, Principal: principal, Amount: total, Interest: interest})
	return WithdrawResult{Principal: principal, Amount: total, Interest: interest, Balance: 0}, nil
}

// Balance returns the raw stored balance without folding in pending interest.
// Unknown principals report zero.
func (e *Engine) Balance(ctx context.Context, principal string) (int64, error) {
	acct, err := e.store.Account(ctx, principal)
	if err != nil {
		return 0, fmt.Errorf("load account: %w", err)
	}
	return acct.Balance, nil
}

// CurrentBalance projects the balance with interest pending at the moment of
// the call folded in. It never mutates state.
func (e *Engine) CurrentBalance(ctx context.Context, principal string) (int64, error) {
	acct, err := e.store.Account(ctx, principal)
	if err != nil {
		return 0, fmt.Errorf("load account: %w", err)
	}
	if acct.Empty() {
		return 0, nil
	}
	return acct.Balance + e.accrued(acct, e.clk.Now()), nil
}

// CustodyBalance reports the total value held by the vault: transfers in
// minus settled transfers out. Observability aid only; no accounting decision
// reads it.
func (e *Engine) CustodyBalance(ctx context.Context) (int64, error) {
	return e.store.Custody(ctx)
}

// accrued computes interest pending since the last accrual: elapsed seconds
// times the flat rate, regardless of balance size. Empty accounts accrue
// nothing.
func (e *Engine) accrued(acct Account, now int64) int64 {
	if acct.Empty() {
		return 0
	}
	elapsed := now - acct.LastAccrual
	if elapsed <= 0 {
		return 0
	}
	return elapsed * e.rate
}

// settle issues the outbound transfer after the debit has been committed. A
// declined transfer credits the debited amount back so no value leaves the
// principal's position; only then is ErrTransferFailed surfaced.
func (e *Engine) settle(ctx context.Context, principal string, amount int64, now int64) error {
	if err := e.treasury.Transfer(ctx, principal, amount); err != nil {
		if rerr := e.refund(ctx, principal, amount, now); rerr != nil {
			return fmt.Errorf("%w: %v (refund: %v)", ErrTransferFailed, err, rerr)
		}
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if err := e.store.AddCustody(ctx, -amount); err != nil {
		return fmt.Errorf("record custody: %w", err)
	}
	return nil
}

// refund credits a debited amount back after a declined settlement. Interest
// folded in by the failed operation stays folded; the position is value
// equivalent to the pre-call state.
func (e *Engine) refund(ctx context.Context, principal string, amount int64, now int64) error {
	mu := e.principalLock(principal)
	mu.Lock()
	defer mu.Unlock()

	acct, err := e.store.Account(ctx, principal)
	if err != nil {
		return err
	}
	if acct.Empty() {
		acct.LastAccrual = now
	}
	acct.Balance += amount
	return e.store.SaveAccount(ctx, principal, acct)
}

func (e *Engine) notify(ctx context.Context, msg notification.Message) {
	if e.notifier == nil {
		return
	}
	_ = e.notifier.Send(ctx, msg)
}

func (e *Engine) principalLock(principal string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(principal, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

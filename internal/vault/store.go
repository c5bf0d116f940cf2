package vault

import "context"

// Store persists vault accounts and the custody counter. Implementations must
// return the zero Account for principals that never deposited.
type Store interface {
	Account(ctx context.Context, principal string) (Account, error)
	SaveAccount(ctx context.Context, principal string, acct Account) error
	Custody(ctx context.Context) (int64, error)
	AddCustody(ctx context.Context, delta int64) error
}

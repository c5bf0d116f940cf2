package vault

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists vault accounts in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE vault_accounts (
//	    principal    TEXT PRIMARY KEY,
//	    balance      BIGINT NOT NULL DEFAULT 0,
//	    last_accrual BIGINT NOT NULL DEFAULT 0
//	);
//	CREATE TABLE vault_custody (
//	    id          UUID PRIMARY KEY,
//	    delta       BIGINT NOT NULL,
//	    recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Account fetches the stored position for a principal. Principals that never
// deposited report the zero account.
func (s *PostgresStore) Account(ctx context.Context, principal string) (Account, error) {
	row := s.db.QueryRow(ctx, `SELECT balance, last_accrual FROM vault_accounts WHERE principal = $1`, principal)
	var acct Account
	if err := row.Scan(&acct.Balance, &acct.LastAccrual); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, nil
		}
		return Account{}, err
	}
	return acct, nil
}

// SaveAccount upserts the principal's position.
func (s *PostgresStore) SaveAccount(ctx context.Context, principal string, acct Account) error {
	_, err := s.db.Exec(ctx, `INSERT INTO vault_accounts (principal, balance, last_accrual)
        VALUES ($1, $2, $3)
        ON CONFLICT (principal) DO UPDATE SET balance = EXCLUDED.balance, last_accrual = EXCLUDED.last_accrual`,
		principal, acct.Balance, acct.LastAccrual)
	return err
}

// Custody sums the custody journal.
func (s *PostgresStore) Custody(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COALESCE(SUM(delta), 0) FROM vault_custody`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// AddCustody appends an entry to the custody journal. Positive deltas are
// value entering custody, negative deltas are settled payouts.
func (s *PostgresStore) AddCustody(ctx context.Context, delta int64) error {
	_, err := s.db.Exec(ctx, `INSERT INTO vault_custody (id, delta) VALUES ($1, $2)`, uuid.New(), delta)
	return err
}

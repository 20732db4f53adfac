package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// CurrencyStore defines the interface for the soft-currency balance.
// Accounts are created lazily; a user with no row has a zero balance.
type CurrencyStore interface {
	// Balance returns the current balance, zero for unknown users.
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)

	// Credit adds amount to the balance and returns the new balance.
	Credit(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)

	// Debit subtracts amount if the balance covers it and returns the new
	// balance. Returns ErrInsufficientFunds, with no change, otherwise.
	// The check and the write are a single conditional update.
	Debit(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)

	// WithTx returns a new CurrencyStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CurrencyStore
}

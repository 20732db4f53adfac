package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/arcana-app/arcana-api/internal/store"
	"github.com/google/uuid"
)

// PostgresCurrencyStore implements the store.CurrencyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCurrencyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCurrencyStore creates a new PostgreSQL implementation of the
// CurrencyStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCurrencyStore(db store.DBTX, logger *slog.Logger) *PostgresCurrencyStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCurrencyStore{
		db:     db,
		logger: logger.With(slog.String("component", "currency_store")),
	}
}

// Ensure PostgresCurrencyStore implements store.CurrencyStore
var _ store.CurrencyStore = (*PostgresCurrencyStore)(nil)

// Balance implements store.CurrencyStore.Balance
func (s *PostgresCurrencyStore) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	query := `SELECT balance FROM currency_accounts WHERE user_id = $1`
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, MapError(err)
	}
	return balance, nil
}

// Credit implements store.CurrencyStore.Credit
func (s *PostgresCurrencyStore) Credit(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
) (int64, error) {
	query := `INSERT INTO currency_accounts (user_id, balance, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET balance = currency_accounts.balance + $2, updated_at = $3
		RETURNING balance`
	var balance int64
	err := s.db.QueryRowContext(ctx, query, userID, amount, time.Now().UTC()).Scan(&balance)
	if err != nil {
		return 0, MapError(err)
	}
	return balance, nil
}

// Debit implements store.CurrencyStore.Debit. The balance check and the
// write are one conditional update so a concurrent debit cannot overdraw.
func (s *PostgresCurrencyStore) Debit(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
) (int64, error) {
	query := `UPDATE currency_accounts
		SET balance = balance - $2, updated_at = $3
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance`
	var balance int64
	err := s.db.QueryRowContext(ctx, query, userID, amount, time.Now().UTC()).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, store.ErrInsufficientFunds
		}
		return 0, MapError(err)
	}
	return balance, nil
}

// WithTx implements store.CurrencyStore.WithTx
func (s *PostgresCurrencyStore) WithTx(tx *sql.Tx) store.CurrencyStore {
	return &PostgresCurrencyStore{db: tx, logger: s.logger}
}

// Package currency exposes the soft-currency balance and the credit
// operation used by the purchase flow.
package currency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arcana-app/arcana-api/internal/store"
	"github.com/google/uuid"
)

// ErrInvalidAmount is returned for a non-positive credit amount.
var ErrInvalidAmount = errors.New("amount must be positive")

// Service defines the currency account operations. Debits happen inside the
// booster open transaction, not here.
type Service interface {
	// Balance returns the current balance, zero for accounts never credited.
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)

	// Credit adds amount to the balance and returns the new balance.
	// Returns ErrInvalidAmount for amounts below 1.
	Credit(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	currency store.CurrencyStore
	logger   *slog.Logger
}

// NewService creates a new currency Service implementation.
func NewService(currencyStore store.CurrencyStore, log *slog.Logger) Service {
	if currencyStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("currencyStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		currency: currencyStore,
		logger:   log.With(slog.String("component", "currency_service")),
	}
}

// Balance implements Service.Balance.
func (s *serviceImpl) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	balance, err := s.currency.Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Credit implements Service.Credit.
func (s *serviceImpl) Credit(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	balance, err := s.currency.Credit(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to credit balance: %w", err)
	}

	s.logger.Debug("credited balance",
		slog.String("user_id", userID.String()),
		slog.Int64("amount", amount),
		slog.Int64("balance", balance))

	return balance, nil
}

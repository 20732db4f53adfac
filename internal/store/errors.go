package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrInsufficientFunds is returned by a conditional debit when the
	// balance does not cover the requested amount. The balance is unchanged.
	ErrInsufficientFunds = errors.New("insufficient currency balance")

	// Entity-specific "not found" errors

	// ErrProgressionNotFound indicates that no progression entry exists for
	// the requested card.
	ErrProgressionNotFound = fmt.Errorf("%w: progression entry", ErrNotFound)

	// ErrStreakNotFound indicates that no streak state exists for the
	// requested booster kind.
	ErrStreakNotFound = fmt.Errorf("%w: streak state", ErrNotFound)

	// ErrOpenNotFound indicates that no recorded booster open exists for the
	// requested idempotency key.
	ErrOpenNotFound = fmt.Errorf("%w: booster open", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

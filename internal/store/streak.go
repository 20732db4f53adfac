package store

import (
	"context"
	"database/sql"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/google/uuid"
)

// StreakStore defines the interface for per-kind streak state persistence.
type StreakStore interface {
	// Get retrieves the streak state for one booster kind.
	// Returns ErrStreakNotFound if the kind has never been opened.
	Get(ctx context.Context, userID uuid.UUID, kind domain.BoosterKind) (*domain.StreakState, error)

	// GetForUpdate retrieves the streak state with a row-level lock.
	// Use within a transaction that will record an open.
	// Returns ErrStreakNotFound if the kind has never been opened.
	GetForUpdate(ctx context.Context, userID uuid.UUID, kind domain.BoosterKind) (*domain.StreakState, error)

	// Upsert writes the streak state, inserting or replacing as needed.
	Upsert(ctx context.Context, state *domain.StreakState) error

	// WithTx returns a new StreakStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) StreakStore
}

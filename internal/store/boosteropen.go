package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/google/uuid"
)

// BoosterOpenRecord is the durable record of one booster open, keyed by the
// request's idempotency key. Result holds the serialized pack so a retried
// open can replay it without drawing or debiting again.
type BoosterOpenRecord struct {
	UserID         uuid.UUID
	IdempotencyKey uuid.UUID
	Kind           domain.BoosterKind
	Result         []byte
	OpenedAt       time.Time
}

// BoosterOpenStore defines the interface for booster open records.
type BoosterOpenStore interface {
	// Find retrieves the record for an idempotency key.
	// Returns ErrOpenNotFound if no open was recorded under the key.
	Find(ctx context.Context, userID, key uuid.UUID) (*BoosterOpenRecord, error)

	// Create saves a new open record.
	// Returns ErrDuplicate if the key was already used.
	Create(ctx context.Context, record *BoosterOpenRecord) error

	// WithTx returns a new BoosterOpenStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) BoosterOpenStore
}

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/google/uuid"
)

// ProgressionStore defines the interface for progression entry persistence.
// Entries exist only for cards currently in learning; mastered cards live in
// the MasteryStore instead.
type ProgressionStore interface {
	// Get retrieves the progression entry for one card.
	// Returns ErrProgressionNotFound if no entry exists.
	// NOTE: This method does NOT provide any row locking, so it should not be
	// used when you plan to update the row and need concurrency protection.
	Get(ctx context.Context, userID uuid.UUID, card domain.CardIdentity) (*domain.ProgressionEntry, error)

	// GetForUpdate retrieves the entry with a row-level lock using
	// SELECT FOR UPDATE. Use within a transaction when the row will be
	// updated. Returns ErrProgressionNotFound if no entry exists.
	GetForUpdate(ctx context.Context, userID uuid.UUID, card domain.CardIdentity) (*domain.ProgressionEntry, error)

	// Create saves a new progression entry. It handles domain validation
	// internally. Returns ErrDuplicate if an entry already exists.
	Create(ctx context.Context, entry *domain.ProgressionEntry) error

	// Update modifies an existing entry, identified by its user and card.
	// Returns ErrProgressionNotFound if no entry exists.
	Update(ctx context.Context, entry *domain.ProgressionEntry) error

	// Delete removes the entry for one card. Used when the card is mastered
	// and the entry is replaced by a mastery record.
	// Returns ErrProgressionNotFound if no entry exists.
	Delete(ctx context.Context, userID uuid.UUID, card domain.CardIdentity) error

	// ListDue returns all entries for the deck whose NextDueAt is at or
	// before now, ordered by ascending card number for determinism.
	ListDue(ctx context.Context, userID uuid.UUID, deckID domain.DeckID, now time.Time) ([]*domain.ProgressionEntry, error)

	// ListByDeck returns all active entries for the deck ordered by ascending
	// card number.
	ListByDeck(ctx context.Context, userID uuid.UUID, deckID domain.DeckID) ([]*domain.ProgressionEntry, error)

	// CountByDeck returns the number of active entries for the deck.
	CountByDeck(ctx context.Context, userID uuid.UUID, deckID domain.DeckID) (int, error)

	// WithTx returns a new ProgressionStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) ProgressionStore
}

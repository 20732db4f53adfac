package store

import (
	"context"
	"database/sql"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/google/uuid"
)

// MasteryStore defines the interface for mastery record persistence.
// Records are write-once: mastering a card is a one-time, idempotent event.
type MasteryStore interface {
	// Exists reports whether a mastery record exists for the card.
	Exists(ctx context.Context, userID uuid.UUID, card domain.CardIdentity) (bool, error)

	// Create inserts the mastery record if absent. The boolean reports
	// whether the record was created by this call; false means one already
	// existed and nothing was written. Never returns ErrDuplicate.
	Create(ctx context.Context, record *domain.MasteryRecord) (bool, error)

	// CountByDeck returns the number of mastered cards for the deck.
	CountByDeck(ctx context.Context, userID uuid.UUID, deckID domain.DeckID) (int, error)

	// WithTx returns a new MasteryStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) MasteryStore
}

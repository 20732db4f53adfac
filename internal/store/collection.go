package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/google/uuid"
)

// CollectionStore defines the interface for the collection ledger: which
// cards a user owns, at which rarity. Ownership is monotonic; nothing here
// ever removes a record.
type CollectionStore interface {
	// Grant records ownership of (card, rarity). If no record existed the
	// row is created with one copy and the boolean is true; otherwise the
	// copies counter is incremented and the boolean is false. The returned
	// record reflects the state after the grant.
	Grant(ctx context.Context, userID uuid.UUID, card domain.CardIdentity, rarity domain.Rarity, now time.Time) (*domain.OwnedCard, bool, error)

	// Owned reports whether a record exists for exactly (card, rarity).
	Owned(ctx context.Context, userID uuid.UUID, card domain.CardIdentity, rarity domain.Rarity) (bool, error)

	// ListByDeck returns all owned records for the deck, ordered by card
	// number then rarity rank.
	ListByDeck(ctx context.Context, userID uuid.UUID, deckID domain.DeckID) ([]*domain.OwnedCard, error)

	// OwnedCount returns the number of owned records (distinct card+rarity
	// pairs) for the deck. Duplicate copies do not inflate it.
	OwnedCount(ctx context.Context, userID uuid.UUID, deckID domain.DeckID) (int, error)

	// OwnedCountAtRarity returns the number of distinct card numbers owned
	// at exactly the given rarity. Deck completion checks the base rarity.
	OwnedCountAtRarity(ctx context.Context, userID uuid.UUID, deckID domain.DeckID, rarity domain.Rarity) (int, error)

	// TotalOwned returns the number of owned records across all decks.
	TotalOwned(ctx context.Context, userID uuid.UUID) (int, error)

	// WithTx returns a new CollectionStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CollectionStore
}

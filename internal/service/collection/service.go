// Package collection serves the read side of the collection ledger: per-deck
// listings, ownership counts and completion flags.
package collection

import (
	"context"
	"errors"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/google/uuid"
)

// ErrUnknownDeck is returned for a deck identifier outside the catalog.
var ErrUnknownDeck = errors.New("unknown deck")

// DeckOverview summarizes ownership for one deck.
type DeckOverview struct {
	DeckID     domain.DeckID
	TotalCards int

	// OwnedEntries counts distinct (card, rarity) records. Duplicate copies
	// do not inflate it.
	OwnedEntries int

	// DistinctAtCommon counts distinct card numbers owned at the base
	// rarity; Complete is true when it reaches TotalCards.
	DistinctAtCommon int
	Complete         bool
}

// Overview aggregates the whole collection.
type Overview struct {
	Decks      []DeckOverview
	TotalOwned int
}

// Service defines the collection ledger read operations.
type Service interface {
	// Overview returns ownership counts for every deck in the catalog,
	// ordered by deck identifier, plus the grand total of owned records.
	Overview(ctx context.Context, userID uuid.UUID) (*Overview, error)

	// DeckCards returns the owned records for one deck, ordered by card
	// number then rarity. Returns ErrUnknownDeck for an unknown identifier.
	DeckCards(ctx context.Context, userID uuid.UUID, deckID domain.DeckID) ([]*domain.OwnedCard, error)
}

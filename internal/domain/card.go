package domain

import (
	"errors"
	"fmt"
	"sort"
)

// DeckID identifies one of the collectible decks.
type DeckID string

// The closed set of collectible decks.
const (
	DeckOracle    DeckID = "oracle"
	DeckLenormand DeckID = "lenormand"
	DeckRunes     DeckID = "runes"
	DeckArcana    DeckID = "arcana"
)

// Validation errors for cards and decks.
var (
	ErrEmptyDeckID       = errors.New("deck ID cannot be empty")
	ErrInvalidCardNumber = errors.New("card number must be at least 1")
)

// Deck describes a collectible deck: its identity and how many cards it holds.
// Card numbers run from 1 to TotalCards inclusive.
type Deck struct {
	ID         DeckID
	TotalCards int
}

// CardIdentity is the composite key for a single card. It is a value type
// with structural equality and is used as a map key throughout the engine.
type CardIdentity struct {
	DeckID     DeckID `json:"deck_id"`
	CardNumber int    `json:"card_number"`
}

// String returns a human-readable form, e.g. "oracle/17".
func (c CardIdentity) String() string {
	return fmt.Sprintf("%s/%d", c.DeckID, c.CardNumber)
}

// Validate checks the identity's fields independent of any catalog.
// Range checks against a deck's TotalCards are the catalog's job.
func (c CardIdentity) Validate() error {
	if c.DeckID == "" {
		return ErrEmptyDeckID
	}
	if c.CardNumber < 1 {
		return ErrInvalidCardNumber
	}
	return nil
}

// Catalog is the read-only provider of deck definitions. The engine only
// needs deck sizes for card-number validation; display metadata lives with
// the content catalogs outside this service.
type Catalog struct {
	decks map[DeckID]Deck
}

// NewCatalog builds a catalog from the given decks.
func NewCatalog(decks ...Deck) Catalog {
	m := make(map[DeckID]Deck, len(decks))
	for _, d := range decks {
		m[d.ID] = d
	}
	return Catalog{decks: m}
}

// DefaultCatalog returns the shipped set of collectible decks.
func DefaultCatalog() Catalog {
	return NewCatalog(
		Deck{ID: DeckOracle, TotalCards: 42},
		Deck{ID: DeckLenormand, TotalCards: 36},
		Deck{ID: DeckRunes, TotalCards: 24},
		Deck{ID: DeckArcana, TotalCards: 22},
	)
}

// Deck looks up a deck by ID.
// Returns ErrUnknownDeck if the deck is not in the catalog.
func (c Catalog) Deck(id DeckID) (Deck, error) {
	d, ok := c.decks[id]
	if !ok {
		return Deck{}, fmt.Errorf("%w: %s", ErrUnknownDeck, id)
	}
	return d, nil
}

// DeckIDs returns all deck IDs in the catalog in stable (sorted) order.
func (c Catalog) DeckIDs() []DeckID {
	ids := make([]DeckID, 0, len(c.decks))
	for id := range c.decks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ValidateIdentity checks that the identity references a catalog deck and
// that its card number is within the deck's declared range.
// Returns ErrUnknownDeck or ErrInvalidCardIdentity.
func (c Catalog) ValidateIdentity(card CardIdentity) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCardIdentity, err)
	}
	deck, err := c.Deck(card.DeckID)
	if err != nil {
		return err
	}
	if card.CardNumber > deck.TotalCards {
		return fmt.Errorf("%w: card %d out of range 1..%d for deck %s",
			ErrInvalidCardIdentity, card.CardNumber, deck.TotalCards, card.DeckID)
	}
	return nil
}

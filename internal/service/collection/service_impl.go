package collection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/store"
	"github.com/google/uuid"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	catalog    domain.Catalog
	collection store.CollectionStore
	logger     *slog.Logger
}

// NewService creates a new collection Service implementation.
func NewService(
	catalog domain.Catalog,
	collectionStore store.CollectionStore,
	log *slog.Logger,
) Service {
	if collectionStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("collectionStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		catalog:    catalog,
		collection: collectionStore,
		logger:     log.With(slog.String("component", "collection_service")),
	}
}

// Overview implements Service.Overview.
func (s *serviceImpl) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	overview := &Overview{
		Decks: make([]DeckOverview, 0, len(s.catalog.DeckIDs())),
	}

	for _, deckID := range s.catalog.DeckIDs() {
		deck, err := s.catalog.Deck(deckID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve deck %s: %w", deckID, err)
		}

		owned, err := s.collection.OwnedCount(ctx, userID, deckID)
		if err != nil {
			return nil, fmt.Errorf("failed to count owned cards for %s: %w", deckID, err)
		}
		distinct, err := s.collection.OwnedCountAtRarity(ctx, userID, deckID, domain.RarityCommon)
		if err != nil {
			return nil, fmt.Errorf("failed to count base-rarity cards for %s: %w", deckID, err)
		}

		overview.Decks = append(overview.Decks, DeckOverview{
			DeckID:           deckID,
			TotalCards:       deck.TotalCards,
			OwnedEntries:     owned,
			DistinctAtCommon: distinct,
			Complete:         distinct >= deck.TotalCards,
		})
	}

	total, err := s.collection.TotalOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count total owned cards: %w", err)
	}
	overview.TotalOwned = total

	return overview, nil
}

// DeckCards implements Service.DeckCards.
func (s *serviceImpl) DeckCards(
	ctx context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) ([]*domain.OwnedCard, error) {
	if _, err := s.catalog.Deck(deckID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDeck, deckID)
	}

	cards, err := s.collection.ListByDeck(ctx, userID, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned cards: %w", err)
	}
	return cards, nil
}

package collection

import (
	"context"
	"testing"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/platform/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverviewEmptyCollection(t *testing.T) {
	t.Parallel() // Enable parallel execution
	mem := memstore.New()
	svc := NewService(domain.DefaultCatalog(), mem.Collection(), nil)

	overview, err := svc.Overview(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, overview.Decks, 4)
	assert.Zero(t, overview.TotalOwned)
	for _, deck := range overview.Decks {
		assert.Zero(t, deck.OwnedEntries)
		assert.Zero(t, deck.DistinctAtCommon)
		assert.False(t, deck.Complete)
	}
}

func TestOverviewCountsAndCompletion(t *testing.T) {
	t.Parallel() // Enable parallel execution
	mem := memstore.New()
	svc := NewService(domain.DefaultCatalog(), mem.Collection(), nil)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	// Complete the arcana deck at the base rarity.
	for n := 1; n <= 22; n++ {
		card := domain.CardIdentity{DeckID: domain.DeckArcana, CardNumber: n}
		_, _, err := mem.Collection().Grant(ctx, userID, card, domain.RarityCommon, now)
		require.NoError(t, err)
	}

	// A golden copy of an owned card is a separate record but does not
	// affect base-rarity completion.
	_, _, err := mem.Collection().Grant(ctx, userID,
		domain.CardIdentity{DeckID: domain.DeckArcana, CardNumber: 1}, domain.RarityGolden, now)
	require.NoError(t, err)

	// A lone rare in another deck does not complete it.
	_, _, err = mem.Collection().Grant(ctx, userID,
		domain.CardIdentity{DeckID: domain.DeckRunes, CardNumber: 8}, domain.RarityRare, now)
	require.NoError(t, err)

	overview, err := svc.Overview(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 24, overview.TotalOwned)

	byDeck := make(map[domain.DeckID]DeckOverview)
	for _, deck := range overview.Decks {
		byDeck[deck.DeckID] = deck
	}

	arcana := byDeck[domain.DeckArcana]
	assert.Equal(t, 23, arcana.OwnedEntries)
	assert.Equal(t, 22, arcana.DistinctAtCommon)
	assert.True(t, arcana.Complete)

	runes := byDeck[domain.DeckRunes]
	assert.Equal(t, 1, runes.OwnedEntries)
	assert.Zero(t, runes.DistinctAtCommon)
	assert.False(t, runes.Complete)
}

func TestDeckCardsOrderingAndDuplicates(t *testing.T) {
	t.Parallel() // Enable parallel execution
	mem := memstore.New()
	svc := NewService(domain.DefaultCatalog(), mem.Collection(), nil)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	card5 := domain.CardIdentity{DeckID: domain.DeckOracle, CardNumber: 5}
	card2 := domain.CardIdentity{DeckID: domain.DeckOracle, CardNumber: 2}

	for i := 0; i < 3; i++ {
		_, _, err := mem.Collection().Grant(ctx, userID, card5, domain.RarityCommon, now)
		require.NoError(t, err)
	}
	_, _, err := mem.Collection().Grant(ctx, userID, card2, domain.RarityGolden, now)
	require.NoError(t, err)
	_, _, err = mem.Collection().Grant(ctx, userID, card2, domain.RarityCommon, now)
	require.NoError(t, err)

	cards, err := svc.DeckCards(ctx, userID, domain.DeckOracle)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	// Ordered by card number, then rarity rank.
	assert.Equal(t, 2, cards[0].Card.CardNumber)
	assert.Equal(t, domain.RarityCommon, cards[0].Rarity)
	assert.Equal(t, 2, cards[1].Card.CardNumber)
	assert.Equal(t, domain.RarityGolden, cards[1].Rarity)
	assert.Equal(t, 5, cards[2].Card.CardNumber)
	assert.Equal(t, 3, cards[2].Copies)
}

func TestDeckCardsUnknownDeck(t *testing.T) {
	t.Parallel() // Enable parallel execution
	mem := memstore.New()
	svc := NewService(domain.DefaultCatalog(), mem.Collection(), nil)

	_, err := svc.DeckCards(context.Background(), uuid.New(), "tarot")
	assert.ErrorIs(t, err, ErrUnknownDeck)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardIdentityValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name    string
		card    CardIdentity
		wantErr error
	}{
		{
			name: "valid identity",
			card: CardIdentity{DeckID: DeckOracle, CardNumber: 1},
		},
		{
			name:    "empty deck ID",
			card:    CardIdentity{CardNumber: 1},
			wantErr: ErrEmptyDeckID,
		},
		{
			name:    "zero card number",
			card:    CardIdentity{DeckID: DeckOracle, CardNumber: 0},
			wantErr: ErrInvalidCardNumber,
		},
		{
			name:    "negative card number",
			card:    CardIdentity{DeckID: DeckOracle, CardNumber: -3},
			wantErr: ErrInvalidCardNumber,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.card.Validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalogValidateIdentity(t *testing.T) {
	t.Parallel() // Enable parallel execution
	catalog := DefaultCatalog()

	testCases := []struct {
		name    string
		card    CardIdentity
		wantErr error
	}{
		{
			name: "first card of deck",
			card: CardIdentity{DeckID: DeckArcana, CardNumber: 1},
		},
		{
			name: "last card of deck",
			card: CardIdentity{DeckID: DeckArcana, CardNumber: 22},
		},
		{
			name:    "card number past deck size",
			card:    CardIdentity{DeckID: DeckArcana, CardNumber: 23},
			wantErr: ErrInvalidCardIdentity,
		},
		{
			name:    "unknown deck",
			card:    CardIdentity{DeckID: "tarot", CardNumber: 1},
			wantErr: ErrUnknownDeck,
		},
		{
			name:    "zero card number",
			card:    CardIdentity{DeckID: DeckOracle, CardNumber: 0},
			wantErr: ErrInvalidCardIdentity,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := catalog.ValidateIdentity(tc.card)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultCatalogDeckSizes(t *testing.T) {
	t.Parallel() // Enable parallel execution
	catalog := DefaultCatalog()

	expected := map[DeckID]int{
		DeckOracle:    42,
		DeckLenormand: 36,
		DeckRunes:     24,
		DeckArcana:    22,
	}

	require.Len(t, catalog.DeckIDs(), len(expected))
	for id, size := range expected {
		deck, err := catalog.Deck(id)
		require.NoError(t, err)
		assert.Equal(t, size, deck.TotalCards)
	}
}

func TestCatalogDeckIDsSorted(t *testing.T) {
	t.Parallel() // Enable parallel execution
	ids := DefaultCatalog().DeckIDs()
	assert.Equal(t, []DeckID{DeckArcana, DeckLenormand, DeckOracle, DeckRunes}, ids)
}

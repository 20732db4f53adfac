// Package booster implements the randomized card draw behind reward packs:
// deck selection, weighted rarity sampling with a streak luck bonus, and
// uniform card-number selection. It owns no persistence; dedup against the
// ledger and the actual grants are the reward service's job.
package booster

import "github.com/arcana-app/arcana-api/internal/domain"

// PackSize is the number of cards in every pack, regardless of kind or
// funding source.
const PackSize = 5

// KindParams configures the draw behavior for one booster kind.
type KindParams struct {
	// RarityWeights is the base probability per tier before any luck bonus.
	// Weights are relative; they do not need to sum to 1.
	RarityWeights map[domain.Rarity]float64

	// DeckPool lists the decks this kind draws from. Empty means the whole
	// catalog.
	DeckPool []domain.DeckID
}

// Params defines all configurable parameters for pack draws.
type Params struct {
	Kinds map[domain.BoosterKind]KindParams
}

// NewDefaultParams creates a new Params instance with default values.
// The exact weights are tuning configuration, not invariants; anything that
// keeps the tiers ordered common > rare > golden is sane.
func NewDefaultParams() *Params {
	return &Params{
		Kinds: map[domain.BoosterKind]KindParams{
			domain.BoosterFree: {
				RarityWeights: map[domain.Rarity]float64{
					domain.RarityCommon: 0.80,
					domain.RarityRare:   0.17,
					domain.RarityGolden: 0.03,
				},
				// The free pack stays within a single deck per slot pool.
				DeckPool: []domain.DeckID{domain.DeckOracle},
			},
			domain.BoosterPremium: {
				RarityWeights: map[domain.Rarity]float64{
					domain.RarityCommon: 0.60,
					domain.RarityRare:   0.30,
					domain.RarityGolden: 0.10,
				},
				// Premium packs mix every deck in the catalog.
				DeckPool: nil,
			},
			domain.BoosterPaid: {
				RarityWeights: map[domain.Rarity]float64{
					domain.RarityCommon: 0.70,
					domain.RarityRare:   0.25,
					domain.RarityGolden: 0.05,
				},
				DeckPool: nil,
			},
		},
	}
}

// Kind returns the parameters for the given booster kind.
func (p *Params) Kind(kind domain.BoosterKind) (KindParams, bool) {
	kp, ok := p.Kinds[kind]
	return kp, ok
}

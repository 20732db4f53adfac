package booster

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
)

// RandomSource is the randomness the drawer consumes. It is satisfied by
// *math/rand.Rand so tests can seed it for reproducible draws.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// Common errors
var (
	ErrUnknownKind   = errors.New("unknown booster kind")
	ErrEmptyDeckPool = errors.New("booster kind has an empty deck pool")
)

// Pull is one drawn slot: which card, at which rarity.
type Pull struct {
	Card   domain.CardIdentity
	Rarity domain.Rarity
}

// Drawer performs pack draws against a deck catalog.
type Drawer struct {
	catalog domain.Catalog
	params  *Params
	rng     RandomSource
}

// NewDrawer creates a Drawer. A nil rng falls back to a time-seeded source;
// tests should inject a seeded one.
func NewDrawer(catalog domain.Catalog, params *Params, rng RandomSource) *Drawer {
	if params == nil {
		params = NewDefaultParams()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Drawer{catalog: catalog, params: params, rng: rng}
}

// Draw performs the PackSize independent slot draws for one pack of the
// given kind, shifting rarity mass upward by luckBonusPercent.
func (d *Drawer) Draw(kind domain.BoosterKind, luckBonusPercent int) ([]Pull, error) {
	kp, ok := d.params.Kind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	pool := kp.DeckPool
	if len(pool) == 0 {
		pool = d.catalog.DeckIDs()
	}
	if len(pool) == 0 {
		return nil, ErrEmptyDeckPool
	}

	weights := shiftedWeights(kp.RarityWeights, luckBonusPercent)

	pulls := make([]Pull, 0, PackSize)
	for i := 0; i < PackSize; i++ {
		deckID := pool[d.rng.Intn(len(pool))]
		deck, err := d.catalog.Deck(deckID)
		if err != nil {
			return nil, err
		}

		pulls = append(pulls, Pull{
			Card: domain.CardIdentity{
				DeckID:     deckID,
				CardNumber: 1 + d.rng.Intn(deck.TotalCards),
			},
			Rarity: sampleRarity(weights, d.rng.Float64()),
		})
	}
	return pulls, nil
}

// shiftedWeights applies the luck bonus: the common weight loses
// luckBonusPercent percent of its mass, and the removed mass is
// redistributed across the higher tiers in proportion to their base
// weights. With no higher-tier weight to receive it, the weights are
// returned unchanged.
func shiftedWeights(base map[domain.Rarity]float64, luckBonusPercent int) map[domain.Rarity]float64 {
	if luckBonusPercent <= 0 {
		return base
	}

	var upperTotal float64
	for r, w := range base {
		if r != domain.RarityCommon {
			upperTotal += w
		}
	}
	common := base[domain.RarityCommon]
	if upperTotal <= 0 || common <= 0 {
		return base
	}

	shifted := common * float64(luckBonusPercent) / 100.0
	out := make(map[domain.Rarity]float64, len(base))
	for r, w := range base {
		if r == domain.RarityCommon {
			out[r] = w - shifted
		} else {
			out[r] = w + shifted*(w/upperTotal)
		}
	}
	return out
}

// sampleRarity picks a tier by weighted sampling. roll is uniform in [0, 1).
// Tiers are walked in ascending rank order so the draw is deterministic for
// a given roll. Falls back to common if the weights are degenerate.
func sampleRarity(weights map[domain.Rarity]float64, roll float64) domain.Rarity {
	var total float64
	for _, r := range domain.Rarities() {
		if w := weights[r]; w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return domain.RarityCommon
	}

	target := roll * total
	var cumulative float64
	for _, r := range domain.Rarities() {
		w := weights[r]
		if w <= 0 {
			continue
		}
		cumulative += w
		if target < cumulative {
			return r
		}
	}
	return domain.RarityCommon
}

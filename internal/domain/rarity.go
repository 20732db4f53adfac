package domain

// Rarity classifies how desirable a drawn card is. Tiers are ordered:
// common < rare < golden.
type Rarity string

// Rarity tiers, lowest to highest.
const (
	RarityCommon Rarity = "common"
	RarityRare   Rarity = "rare"
	RarityGolden Rarity = "golden"
)

// rarityRanks maps each tier to its position in the ordering.
var rarityRanks = map[Rarity]int{
	RarityCommon: 0,
	RarityRare:   1,
	RarityGolden: 2,
}

// Valid reports whether r is a known tier.
func (r Rarity) Valid() bool {
	_, ok := rarityRanks[r]
	return ok
}

// Rank returns the tier's position in the ordering (common = 0).
// Unknown tiers rank below common.
func (r Rarity) Rank() int {
	rank, ok := rarityRanks[r]
	if !ok {
		return -1
	}
	return rank
}

// AtLeast reports whether r is the given tier or better. Used by reward
// summaries that filter for "rare or better" pulls.
func (r Rarity) AtLeast(other Rarity) bool {
	return r.Rank() >= other.Rank()
}

// Rarities returns all tiers in ascending order.
func Rarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityGolden}
}

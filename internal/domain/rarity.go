package domain

import (
	"fmt"
	"strings"
)

// Rarity is an item rarity tier
type Rarity string

// Rarity tiers
const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists every tier in ascending order of rarity.
// Weighted draws walk the tiers in this order.
var Rarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
}

// Rank returns the position of the tier in Rarities, or -1 if unknown
func (r Rarity) Rank() int {
	for i, tier := range Rarities {
		if tier == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is a known tier
func (r Rarity) Valid() bool {
	return r.Rank() >= 0
}

// ParseRarity normalizes and validates a rarity name
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown rarity %q", ErrInvalidInput, s)
	}
	return r, nil
}

// RarityWeights maps a tier to its relative draw weight.
// Missing tiers count as zero.
type RarityWeights map[Rarity]int64

// Total sums the weights of all known tiers
func (w RarityWeights) Total() int64 {
	var total int64
	for _, tier := range Rarities {
		total += w[tier]
	}
	return total
}

// Validate checks that every weight is non-negative, every key is a known
// tier and at least one weight is positive.
func (w RarityWeights) Validate() error {
	for tier, weight := range w {
		if !tier.Valid() {
			return fmt.Errorf("%w: unknown tier %q", ErrInvalidDistribution, tier)
		}
		if weight < 0 {
			return fmt.Errorf("%w: negative weight for %s", ErrInvalidDistribution, tier)
		}
	}
	if w.Total() <= 0 {
		return fmt.Errorf("%w: no tier has a positive weight", ErrInvalidDistribution)
	}
	return nil
}

// Probability returns the chance of drawing the tier, in [0,1]
func (w RarityWeights) Probability(tier Rarity) float64 {
	total := w.Total()
	if total <= 0 {
		return 0
	}
	return float64(w[tier]) / float64(total)
}

// Package lootbox implements the two random steps of a case opening:
// drawing a rarity tier from a case's weights and picking an item of that tier.
package lootbox

import (
	"fmt"

	"github.com/osse101/CaseBot_Go/internal/domain"
)

// tierRef is a tier with the cumulative weight up to and including it.
type tierRef struct {
	Rarity      domain.Rarity
	CumulWeight int64
}

// cumulate builds the cumulative table over tiers with positive weight, in
// ascending rarity order.
func cumulate(weights domain.RarityWeights) ([]tierRef, int64, error) {
	if err := weights.Validate(); err != nil {
		return nil, 0, err
	}

	refs := make([]tierRef, 0, len(domain.Rarities))
	var total int64
	for _, tier := range domain.Rarities {
		w := weights[tier]
		if w <= 0 {
			continue
		}
		total += w
		refs = append(refs, tierRef{Rarity: tier, CumulWeight: total})
	}
	return refs, total, nil
}

// DrawRarity picks a tier with probability weight/total. rnd must return
// values in [0,1). The roll is floor(rnd*total) and the first tier whose
// running sum exceeds the roll wins; a roll past the end lands on the last
// tier with positive weight.
func DrawRarity(weights domain.RarityWeights, rnd func() float64) (domain.Rarity, error) {
	refs, total, err := cumulate(weights)
	if err != nil {
		return "", err
	}
	if rnd == nil {
		return "", fmt.Errorf("%w: no random source", domain.ErrInvalidInput)
	}

	roll := int64(rnd() * float64(total))
	if roll < 0 {
		roll = 0
	}

	lo, hi := 0, len(refs)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if refs[mid].CumulWeight <= roll {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return refs[lo].Rarity, nil
}

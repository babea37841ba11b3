package lootbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/utils"
)

func TestDrawRarity_Boundaries(t *testing.T) {
	weights := domain.RarityWeights{domain.RarityCommon: 70, domain.RarityUncommon: 30}

	tests := []struct {
		name     string
		roll     float64
		expected domain.Rarity
	}{
		{"lowest roll", 0.0, domain.RarityCommon},
		{"last common", 0.699, domain.RarityCommon},
		{"first uncommon", 0.70, domain.RarityUncommon},
		{"highest roll", 0.9999, domain.RarityUncommon},
		{"out of range falls back to last positive tier", 1.0, domain.RarityUncommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DrawRarity(weights, utils.SequenceRand(tt.roll))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDrawRarity_SkipsZeroWeightTiers(t *testing.T) {
	weights := domain.RarityWeights{
		domain.RarityCommon:    0,
		domain.RarityRare:      10,
		domain.RarityEpic:      0,
		domain.RarityLegendary: 10,
	}

	got, err := DrawRarity(weights, utils.SequenceRand(0.0))
	require.NoError(t, err)
	assert.Equal(t, domain.RarityRare, got)

	got, err = DrawRarity(weights, utils.SequenceRand(0.5))
	require.NoError(t, err)
	assert.Equal(t, domain.RarityLegendary, got)
}

func TestDrawRarity_InvalidDistribution(t *testing.T) {
	cases := map[string]domain.RarityWeights{
		"empty":    {},
		"all zero": {domain.RarityCommon: 0, domain.RarityEpic: 0},
		"negative": {domain.RarityCommon: 10, domain.RarityRare: -5},
	}
	for name, w := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DrawRarity(w, utils.RandomFloat)
			assert.ErrorIs(t, err, domain.ErrInvalidDistribution)
		})
	}
}

func TestDrawRarity_Distribution(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping statistical test in short mode")
	}

	weights := domain.RarityWeights{domain.RarityCommon: 70, domain.RarityUncommon: 30}
	const draws = 100000

	counts := make(map[domain.Rarity]int)
	for i := 0; i < draws; i++ {
		r, err := DrawRarity(weights, utils.RandomFloat)
		require.NoError(t, err)
		counts[r]++
	}

	assert.InDelta(t, 0.70, float64(counts[domain.RarityCommon])/draws, 0.01)
	assert.InDelta(t, 0.30, float64(counts[domain.RarityUncommon])/draws, 0.01)
	assert.Zero(t, counts[domain.RarityLegendary])
}

func BenchmarkDrawRarity(b *testing.B) {
	weights := domain.RarityWeights{
		domain.RarityCommon:   30,
		domain.RarityUncommon: 40,
		domain.RarityRare:     20,
		domain.RarityEpic:     10,
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = DrawRarity(weights, utils.RandomFloat)
	}
}

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBot_Go/internal/database/memory"
	"github.com/osse101/CaseBot_Go/internal/domain"
)

func createTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func boolPtr(b bool) *bool { return &b }

func validConfig() *Config {
	return &Config{
		Version: "1.0",
		Items: []ItemDef{
			{Name: "Apple", Rarity: "common", Category: "food", Price: 40, SellPrice: 20},
			{Name: "Golden Apple", Rarity: "uncommon", Category: "food", Price: 400, SellPrice: 200},
		},
		Cases: []CaseDef{
			{Name: "Food Case", Price: 100, Weights: map[string]int64{"common": 70, "uncommon": 30}},
		},
	}
}

func TestLoader_LoadBundledCatalog(t *testing.T) {
	loader := NewLoader()

	cfg, err := loader.Load(DefaultConfigPath)
	require.NoError(t, err)
	require.NoError(t, loader.Validate(cfg))

	assert.Len(t, cfg.Items, 26)
	assert.Len(t, cfg.Cases, 6)
	assert.Empty(t, UnpopulatedTiers(cfg), "every weighted tier has items")

	food := cfg.Cases[0].ToCase()
	assert.Equal(t, "Food Case", food.Name)
	assert.Equal(t, int64(100), food.Price)
	assert.Equal(t, domain.RarityWeights{domain.RarityCommon: 70, domain.RarityUncommon: 30}, food.Weights)
	assert.True(t, food.Active)
}

func TestLoader_Load(t *testing.T) {
	loader := NewLoader()

	t.Run("file not found", func(t *testing.T) {
		_, err := loader.Load("/nonexistent/catalog.json")
		assert.ErrorContains(t, err, "failed to read catalog config file")
	})

	t.Run("schema violation", func(t *testing.T) {
		path := createTempFile(t, `{
			"version": "1.0",
			"items": [{"name": "Apple", "rarity": "mythic", "category": "food", "price": 1, "sell_price": 1}],
			"cases": [{"name": "Food Case", "price": 100, "rarity_weights": {"common": 1}}]
		}`)
		_, err := loader.Load(path)
		assert.ErrorIs(t, err, domain.ErrCatalogValidation)
		assert.ErrorContains(t, err, "/items/0/rarity")
	})

	t.Run("inactive flag", func(t *testing.T) {
		path := createTempFile(t, `{
			"version": "1.0",
			"items": [{"name": "Apple", "rarity": "common", "category": "food", "price": 1, "sell_price": 1}],
			"cases": [{"name": "Old Case", "price": 100, "rarity_weights": {"common": 1}, "is_active": false}]
		}`)
		cfg, err := loader.Load(path)
		require.NoError(t, err)
		assert.False(t, cfg.Cases[0].ToCase().Active)
	})
}

func TestLoader_Validate(t *testing.T) {
	loader := NewLoader()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no items", mutate: func(c *Config) { c.Items = nil }, wantMsg: ErrMsgNoItemsDefined},
		{name: "no cases", mutate: func(c *Config) { c.Cases = nil }, wantMsg: ErrMsgNoCasesDefined},
		{name: "duplicate item", mutate: func(c *Config) { c.Items[1].Name = "Apple" }, wantMsg: "duplicate item name"},
		{name: "unknown rarity", mutate: func(c *Config) { c.Items[0].Rarity = "mythic" }, wantMsg: "unknown rarity"},
		{name: "unknown category", mutate: func(c *Config) { c.Items[0].Category = "potions" }, wantMsg: "unknown category"},
		{name: "sell above price", mutate: func(c *Config) { c.Items[0].SellPrice = 41 }, wantMsg: "sells for 41"},
		{name: "zero weights", mutate: func(c *Config) {
			c.Cases[0].Weights = map[string]int64{"common": 0}
		}, wantMsg: domain.ErrMsgInvalidDistribution},
		{name: "duplicate case", mutate: func(c *Config) {
			c.Cases = append(c.Cases, c.Cases[0])
		}, wantMsg: "duplicate case name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := loader.Validate(cfg)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrCatalogValidation)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}

	assert.ErrorIs(t, loader.Validate(nil), domain.ErrCatalogValidation)
}

func TestUnpopulatedTiers(t *testing.T) {
	cfg := validConfig()
	cfg.Cases = append(cfg.Cases, CaseDef{
		Name:    "Legendary Case",
		Price:   1000,
		Weights: map[string]int64{"legendary": 20, "epic": 50, "common": 30, "rare": 0},
	})

	got := UnpopulatedTiers(cfg)
	assert.Equal(t, map[string][]domain.Rarity{
		"Legendary Case": {domain.RarityEpic, domain.RarityLegendary},
	}, got)
}

func TestLoader_SyncToStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	loader := NewLoader()
	cfg := validConfig()
	cfg.Cases = append(cfg.Cases, CaseDef{Name: "Old Case", Price: 10, Weights: map[string]int64{"common": 1}, Active: boolPtr(false)})

	res, err := loader.SyncToStore(ctx, cfg, store)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ItemsInserted)
	assert.Equal(t, 2, res.CasesInserted)
	assert.True(t, res.Changed())

	res, err = loader.SyncToStore(ctx, cfg, store)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ItemsSkipped)
	assert.Equal(t, 2, res.CasesSkipped)
	assert.False(t, res.Changed())

	cfg.Items[0].Price = 50
	res, err = loader.SyncToStore(ctx, cfg, store)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ItemsUpdated)
	assert.Equal(t, 1, res.ItemsSkipped)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(50), items[0].Price)

	active, err := store.ListActiveCases(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Food Case", active[0].Name)
}

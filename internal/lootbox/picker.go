package lootbox

import (
	"context"
	"fmt"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/utils"
)

// ItemPool lists catalog items by rarity tier
type ItemPool interface {
	ItemsByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Item, error)
}

// Picker selects an item uniformly among the catalog items of a tier
type Picker struct {
	pool ItemPool
	rnd  func() float64
}

// NewPicker creates a Picker backed by pool using the process-wide random source
func NewPicker(pool ItemPool) *Picker {
	return &Picker{pool: pool, rnd: utils.RandomFloat}
}

// NewPickerWithRand creates a Picker with an injected random source
func NewPickerWithRand(pool ItemPool, rnd func() float64) *Picker {
	return &Picker{pool: pool, rnd: rnd}
}

// Pick returns one item of the given rarity. It never falls back to another
// tier: an empty tier is a catalog configuration error.
func (p *Picker) Pick(ctx context.Context, rarity domain.Rarity) (*domain.Item, error) {
	items, err := p.pool.ItemsByRarity(ctx, rarity)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		logger.FromContext(ctx).Error(LogMsgEmptyRarityPool, "rarity", rarity)
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyRarityPool, rarity)
	}

	idx := int(p.rnd() * float64(len(items)))
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx < 0 {
		idx = 0
	}

	item := items[idx]
	return &item, nil
}

// Draw runs both random steps for a case: rarity first, then the item
func (p *Picker) Draw(ctx context.Context, c *domain.Case) (*domain.Item, error) {
	rarity, err := DrawRarity(c.Weights, p.rnd)
	if err != nil {
		logger.FromContext(ctx).Error(fmt.Sprintf(LogMsgInvalidWeightsFmt, c.ID), "error", err)
		return nil, err
	}
	logger.FromContext(ctx).Debug(LogMsgRarityDrawn, "case_id", c.ID, "rarity", rarity)

	item, err := p.Pick(ctx, rarity)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug(LogMsgItemPicked, "case_id", c.ID, "item_id", item.ID)
	return item, nil
}

package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/event"
)

func TestEventMetricsCollector_CaseOpened(t *testing.T) {
	c := NewEventMetricsCollector()
	counter := CasesOpened.WithLabelValues("Starter", string(domain.RarityRare))
	before := testutil.ToFloat64(counter)
	spent := testutil.ToFloat64(MoneySpent)

	evt := event.NewCaseOpenedEvent(domain.CaseOpenedPayload{
		CaseName: "Starter", Rarity: domain.RarityRare, Price: 250,
	})
	require.NoError(t, c.HandleEvent(context.Background(), evt))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, spent+250, testutil.ToFloat64(MoneySpent))
}

func TestEventMetricsCollector_DecodesJSONPayload(t *testing.T) {
	c := NewEventMetricsCollector()
	before := testutil.ToFloat64(LevelUps)

	evt := event.New(event.LevelUp, map[string]any{"user_id": 1, "old_level": 1, "new_level": 3})
	require.NoError(t, c.HandleEvent(context.Background(), evt))

	assert.Equal(t, before+2, testutil.ToFloat64(LevelUps))
}

func TestEventMetricsCollector_BadPayloadCounted(t *testing.T) {
	c := NewEventMetricsCollector()
	errs := EventHandlerErrors.WithLabelValues(string(event.ItemSold))
	before := testutil.ToFloat64(errs)

	evt := event.New(event.ItemSold, "not an object")
	assert.NoError(t, c.HandleEvent(context.Background(), evt))
	assert.Equal(t, before+1, testutil.ToFloat64(errs))
}

func TestEventMetricsCollector_RegisterOnBus(t *testing.T) {
	bus := event.NewMemoryBus()
	NewEventMetricsCollector().Register(bus)
	before := testutil.ToFloat64(BalanceAdjustments.WithLabelValues(DirectionDebit))

	err := bus.Publish(context.Background(), event.NewBalanceAdjustedEvent(domain.BalanceAdjustedPayload{Amount: -10}))
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(BalanceAdjustments.WithLabelValues(DirectionDebit)))
}

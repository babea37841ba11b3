package metrics

import (
	"context"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/event"
	"github.com/osse101/CaseBot_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	event.SubscribeAll(bus, e.HandleEvent)
}

// HandleEvent updates metrics for one event. Decode failures are counted,
// never returned, so a bad payload cannot trigger publisher retries.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if err := record(evt); err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		logger.FromContext(ctx).Warn(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}
	logger.FromContext(ctx).Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func record(evt event.Event) error {
	switch evt.Type {
	case event.CaseOpened:
		p, err := event.DecodePayload[domain.CaseOpenedPayload](evt.Payload)
		if err != nil {
			return err
		}
		CasesOpened.WithLabelValues(p.CaseName, string(p.Rarity)).Inc()
		MoneySpent.Add(float64(p.Price))

	case event.ItemSold:
		p, err := event.DecodePayload[domain.ItemSoldPayload](evt.Payload)
		if err != nil {
			return err
		}
		ItemsSold.WithLabelValues(string(p.Rarity)).Inc()
		MoneyEarned.Add(float64(p.Credited))

	case event.LevelUp:
		p, err := event.DecodePayload[domain.LevelUpPayload](evt.Payload)
		if err != nil {
			return err
		}
		if gained := p.NewLevel - p.OldLevel; gained > 0 {
			LevelUps.Add(float64(gained))
		}

	case event.BalanceAdjusted:
		p, err := event.DecodePayload[domain.BalanceAdjustedPayload](evt.Payload)
		if err != nil {
			return err
		}
		direction := DirectionCredit
		if p.Amount < 0 {
			direction = DirectionDebit
		}
		BalanceAdjustments.WithLabelValues(direction).Inc()

	case event.UserRegistered:
		UsersRegistered.Inc()

	case event.EconomyReset:
		EconomyResets.Inc()
	}
	return nil
}

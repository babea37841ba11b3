package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseBot_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event types
const (
	CaseOpened      Type = domain.EventTypeCaseOpened
	ItemSold        Type = domain.EventTypeItemSold
	LevelUp         Type = domain.EventTypeLevelUp
	BalanceAdjusted Type = domain.EventTypeBalanceAdjusted
	UserRegistered  Type = domain.EventTypeUserRegistered
	EconomyReset    Type = domain.EventTypeEconomyReset
)

// AllTypes lists every event type the engine publishes
var AllTypes = []Type{CaseOpened, ItemSold, LevelUp, BalanceAdjusted, UserRegistered, EconomyReset}

// Event is a versioned envelope around a typed payload
type Event struct {
	ID         string         `json:"id"`
	Version    string         `json:"version"`
	Type       Type           `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    interface{}    `json:"payload"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// New wraps payload in an envelope with a fresh id
func New(eventType Type, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Version:    EventSchemaVersion,
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// WithMetadata returns a copy of e carrying key=value
func (e Event) WithMetadata(key string, value any) Event {
	md := make(map[string]any, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) any {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// NewCaseOpenedEvent creates a case.opened event
func NewCaseOpenedEvent(p domain.CaseOpenedPayload) Event { return New(CaseOpened, p) }

// NewItemSoldEvent creates an item.sold event
func NewItemSoldEvent(p domain.ItemSoldPayload) Event { return New(ItemSold, p) }

// NewLevelUpEvent creates a user.level_up event
func NewLevelUpEvent(p domain.LevelUpPayload) Event { return New(LevelUp, p) }

// NewBalanceAdjustedEvent creates a balance.adjusted event
func NewBalanceAdjustedEvent(p domain.BalanceAdjustedPayload) Event { return New(BalanceAdjusted, p) }

// NewUserRegisteredEvent creates a user.registered event
func NewUserRegisteredEvent(p domain.UserRegisteredPayload) Event { return New(UserRegistered, p) }

// NewEconomyResetEvent creates an economy.reset event
func NewEconomyResetEvent(p domain.EconomyResetPayload) Event { return New(EconomyReset, p) }

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Publisher is what services depend on: fire and forget, with delivery
// failures handled behind the interface.
type Publisher interface {
	PublishWithRetry(ctx context.Context, event Event)
}

// MemoryBus is an in-memory implementation of the Event Bus.
// Handlers run synchronously in subscription order.
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Every handler runs even
// when an earlier one fails; the failures are joined.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf(ErrMsgHandlerErrorFormat, len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes a handler to every type in AllTypes
func SubscribeAll(bus Bus, handler Handler) {
	for _, t := range AllTypes {
		bus.Subscribe(t, handler)
	}
}

package event

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/worker"
)

type fakeChannel struct {
	mu         sync.Mutex
	declared   []string
	kind       string
	durable    bool
	published  []amqp.Publishing
	keys       []string
	publishErr error
	declareErr error
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.declareErr != nil {
		return c.declareErr
	}
	c.declared = append(c.declared, name)
	c.kind = kind
	c.durable = durable
	return nil
}

func (c *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.published)
}

func startPool(t *testing.T) *worker.Pool {
	pool := worker.NewPool(2, 16)
	pool.Start()
	t.Cleanup(func() { _ = pool.Stop(context.Background()) })
	return pool
}

func TestAMQPSink_DeclaresDurableFanout(t *testing.T) {
	ch := &fakeChannel{}
	_, err := NewAMQPSink(ch, "casebot.events", startPool(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"casebot.events"}, ch.declared)
	assert.Equal(t, AMQPExchangeType, ch.kind)
	assert.True(t, ch.durable)

	_, err = NewAMQPSink(&fakeChannel{declareErr: errors.New("access refused")}, "x", startPool(t))
	assert.ErrorContains(t, err, "access refused")
}

func TestAMQPSink_DeliversBusEvents(t *testing.T) {
	ch := &fakeChannel{}
	sink, err := NewAMQPSink(ch, "casebot.events", startPool(t))
	require.NoError(t, err)

	bus := NewMemoryBus()
	sink.Register(bus)

	evt := NewItemSoldEvent(domain.ItemSoldPayload{UserID: 9, ItemID: 2, Credited: 40})
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Eventually(t, func() bool { return ch.count() == 1 }, time.Second, 5*time.Millisecond)

	ch.mu.Lock()
	msg := ch.published[0]
	key := ch.keys[0]
	ch.mu.Unlock()

	assert.Equal(t, string(ItemSold), key)
	assert.Equal(t, evt.ID, msg.MessageId)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, AMQPContentType, msg.ContentType)

	var decoded struct {
		ID      string                 `json:"id"`
		Type    Type                   `json:"type"`
		Payload domain.ItemSoldPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, ItemSold, decoded.Type)
	assert.Equal(t, int64(40), decoded.Payload.Credited)
}

func TestAMQPSink_PublishFailureDeadLetters(t *testing.T) {
	path := deadLetterPath(t)
	dl, err := NewDeadLetterWriter(path)
	require.NoError(t, err)
	defer dl.Close()

	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	sink, err := NewAMQPSink(ch, "casebot.events", startPool(t))
	require.NoError(t, err)
	sink.WithDeadLetter(dl)

	require.NoError(t, sink.Handle(context.Background(), New(CaseOpened, nil)))

	assert.Eventually(t, func() bool {
		entries, err := ReadDeadLetters(path)
		return err == nil && len(entries) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestAMQPSink_StoppedPoolRejects(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Start()
	require.NoError(t, pool.Stop(context.Background()))

	sink, err := NewAMQPSink(&fakeChannel{}, "casebot.events", pool)
	require.NoError(t, err)

	err = sink.Handle(context.Background(), New(CaseOpened, nil))
	assert.ErrorIs(t, err, worker.ErrPoolStopped)
	require.NoError(t, sink.Close())
}

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/worker"
)

// amqpChannel is the subset of *amqp.Channel the sink uses
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSink forwards bus events to a RabbitMQ exchange. Deliveries run on a
// worker pool so a slow broker never holds up the publishing transaction.
type AMQPSink struct {
	conn       *amqp.Connection
	channel    amqpChannel
	exchange   string
	pool       *worker.Pool
	deadLetter *DeadLetterWriter
	mu         sync.Mutex
}

// DialAMQPSink connects to the broker and declares a durable fanout exchange
func DialAMQPSink(url, exchange string, pool *worker.Pool) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgAMQPDialFailed, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf(ErrMsgAMQPChannelFailed, err)
	}

	sink, err := NewAMQPSink(ch, exchange, pool)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	sink.conn = conn
	logger.Info(LogMsgAMQPConnected, "exchange", exchange)
	return sink, nil
}

// NewAMQPSink declares the exchange on an open channel
func NewAMQPSink(ch amqpChannel, exchange string, pool *worker.Pool) (*AMQPSink, error) {
	if err := ch.ExchangeDeclare(exchange, AMQPExchangeType, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf(ErrMsgAMQPExchangeFailed, exchange, err)
	}
	return &AMQPSink{channel: ch, exchange: exchange, pool: pool}, nil
}

// WithDeadLetter records deliveries the broker rejected
func (s *AMQPSink) WithDeadLetter(dl *DeadLetterWriter) *AMQPSink {
	s.deadLetter = dl
	return s
}

// Register subscribes the sink to every event type on bus
func (s *AMQPSink) Register(bus Bus) {
	SubscribeAll(bus, s.Handle)
}

// Handle queues the event for delivery. It only fails when the pool is
// saturated or stopped, which the resilient publisher turns into a retry.
func (s *AMQPSink) Handle(_ context.Context, evt Event) error {
	job := worker.JobFunc(func(ctx context.Context) error {
		err := s.deliver(evt)
		if err != nil {
			logger.FromContext(ctx).Error(LogMsgAMQPDeliveryFailed, "event_type", evt.Type, "event_id", evt.ID, "error", err)
			if s.deadLetter != nil {
				if dlErr := s.deadLetter.Write(evt, 1, err); dlErr != nil {
					logger.Error(LogMsgDeadLetterWriteFailed, "error", dlErr)
				}
			}
		}
		return err
	})
	if err := s.pool.TryEnqueue(job); err != nil {
		return fmt.Errorf(ErrMsgAMQPEnqueueFailed, evt.Type, err)
	}
	return nil
}

func (s *AMQPSink) deliver(evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf(ErrMsgEncodeEventFailed, evt.Type, err)
	}

	ts := evt.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	// amqp channels are not safe for concurrent publishing
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.channel.Publish(s.exchange, string(evt.Type), false, false, amqp.Publishing{
		ContentType:     AMQPContentType,
		ContentEncoding: "utf-8",
		MessageId:       evt.ID,
		Type:            string(evt.Type),
		Body:            body,
		DeliveryMode:    amqp.Persistent,
		Timestamp:       ts,
	})
	if err != nil {
		return fmt.Errorf(ErrMsgAMQPPublishFailed, evt.Type, err)
	}
	return nil
}

// Close closes the channel and, when the sink dialed it, the connection
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.channel.Close()
	if s.conn != nil {
		if cerr := s.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

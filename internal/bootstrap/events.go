package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/osse101/CaseBot_Go/internal/config"
	"github.com/osse101/CaseBot_Go/internal/event"
	"github.com/osse101/CaseBot_Go/internal/metrics"
	"github.com/osse101/CaseBot_Go/internal/worker"
)

// EventSystem groups the bus, the publisher services write through, and the
// optional broker fan-out.
type EventSystem struct {
	Bus       event.Bus
	Publisher *event.ResilientPublisher
	AMQPSink  *event.AMQPSink
	AMQPPool  *worker.Pool

	amqpDeadLetter *event.DeadLetterWriter
}

// InitializeEventSystem creates the event bus and resilient publisher,
// registers the metrics collector and, when AMQP_URL is set, a broker sink
// fed through a bounded worker pool.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	eventBus := event.NewMemoryBus()

	maxRetries := cfg.EventMaxRetries
	if maxRetries == 0 {
		maxRetries = EventDefaultMaxRetries
	}

	retryDelay := cfg.EventRetryDelay
	if retryDelay == 0 {
		retryDelay = EventDefaultRetryDelay
	}

	deadLetterPath := cfg.EventDeadLetter
	if deadLetterPath == "" {
		deadLetterPath = EventDefaultDeadLetterPath
	}

	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateDeadLetterDir, err)
	}

	publisher, err := event.NewResilientPublisher(eventBus, maxRetries, retryDelay, deadLetterPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateResilientPublisher, err)
	}

	metrics.NewEventMetricsCollector().Register(eventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	sys := &EventSystem{Bus: eventBus, Publisher: publisher}

	if cfg.AMQPURL == "" {
		slog.Info(LogMsgAMQPSinkDisabled)
	} else {
		pool := worker.NewPool(cfg.EventWorkers, cfg.EventQueueSize).WithJobTimeout(AMQPJobTimeout)
		sink, err := event.DialAMQPSink(cfg.AMQPURL, cfg.AMQPExchange, pool)
		if err != nil {
			_ = publisher.Shutdown(context.Background())
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectAMQP, err)
		}
		dl, err := event.NewDeadLetterWriter(amqpDeadLetterPath(deadLetterPath))
		if err != nil {
			_ = sink.Close()
			_ = publisher.Shutdown(context.Background())
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateDeadLetterDir, err)
		}
		pool.Start()
		sink.WithDeadLetter(dl).Register(eventBus)
		sys.AMQPSink = sink
		sys.AMQPPool = pool
		sys.amqpDeadLetter = dl
		slog.Info(LogMsgAMQPSinkConnected, "exchange", cfg.AMQPExchange, "workers", cfg.EventWorkers)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", maxRetries,
		"retry_delay", retryDelay,
		"deadletter_path", deadLetterPath)

	return sys, nil
}

// amqpDeadLetterPath places broker rejects next to the publisher's dead letters
func amqpDeadLetterPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + AMQPDeadLetterSuffix + ext
}

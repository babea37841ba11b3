package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/CaseBot_Go/internal/economy"
	"github.com/osse101/CaseBot_Go/internal/idempotency"
	"github.com/osse101/CaseBot_Go/internal/repository"
	"github.com/osse101/CaseBot_Go/internal/server"
	"github.com/osse101/CaseBot_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped so a partially built app can be released.
type ShutdownComponents struct {
	Server      *server.Server
	Sweeper     *worker.Sweeper
	Economy     economy.Service
	Events      *EventSystem
	Idempotency idempotency.Store
	Store       repository.Store
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in this order:
// 1. HTTP server (stop accepting new requests)
// 2. Background sweeper
// 3. Application services (complete in-flight publishes)
// 4. Event publisher, then the broker pool (flush pending events)
// 5. Stores
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	if components.Server != nil {
		slog.Info(LogMsgShuttingDownServer)
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Sweeper != nil {
		if err := components.Sweeper.Shutdown(ctx); err != nil {
			slog.Error(LogMsgSweeperShutdownFailed, "error", err)
		}
	}

	if components.Economy != nil {
		shutdownService(ctx, ServiceNameEconomy, components.Economy)
	}

	if events := components.Events; events != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := events.Publisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
		if events.AMQPPool != nil {
			if err := events.AMQPPool.Stop(ctx); err != nil {
				slog.Error(LogMsgAMQPPoolStopFailed, "error", err)
			}
		}
		if events.AMQPSink != nil {
			closeQuietly("amqp_sink", events.AMQPSink)
		}
		if events.amqpDeadLetter != nil {
			closeQuietly("amqp_deadletter", events.amqpDeadLetter)
		}
	}

	if components.Idempotency != nil {
		closeQuietly("idempotency", components.Idempotency)
	}
	if components.Store != nil {
		closeQuietly("store", components.Store)
	}

	slog.Info(LogMsgServerStopped)
}

type shutdownableService interface {
	Shutdown(context.Context) error
}

// shutdownService shuts down a service and logs any error
func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}

type closer interface {
	Close() error
}

func closeQuietly(name string, c closer) {
	if err := c.Close(); err != nil {
		slog.Error(LogMsgCloseFailed, "component", name, "error", err)
	}
}

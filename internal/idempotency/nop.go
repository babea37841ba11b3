package idempotency

import (
	"context"
	"time"
)

// NopStore remembers nothing; every request executes
type NopStore struct{}

func (NopStore) Get(context.Context, string) (*Record, error) { return nil, nil }

func (NopStore) Save(_ context.Context, rec *Record) (*Record, bool, error) { return rec, true, nil }

func (NopStore) Purge(context.Context, time.Time) (int, error) { return 0, nil }

func (NopStore) Close() error { return nil }

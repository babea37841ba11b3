// Package idempotency stores the responses of mutating requests under a
// client-chosen key so a retried request replays the first outcome instead
// of opening a second case or selling a second unit.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// Backend names accepted by Open
const (
	BackendBolt  = "bolt"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown idempotency backend")

// Record is a stored response
type Record struct {
	Key         string    `json:"key"`
	Fingerprint string    `json:"fingerprint"`
	StatusCode  int       `json:"status_code"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the record is past its retention
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// Store persists records. Save never overwrites: when the key already holds
// a live record that record is returned with created == false.
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	Save(ctx context.Context, rec *Record) (stored *Record, created bool, err error)
	// Purge deletes expired records and returns how many went
	Purge(ctx context.Context, now time.Time) (int, error)
	Close() error
}

// Fingerprint hashes the parts of a request that must match on replay
func Fingerprint(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		// length prefix keeps ("ab","c") and ("a","bc") apart
		fmt.Fprintf(h, "%d:", len(p))
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Options configure Open
type Options struct {
	Backend  string
	BoltPath string
	RedisURL string
	TTL      time.Duration
}

// Open builds the configured backend
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendBolt:
		return OpenBolt(opts.BoltPath)
	case BackendRedis:
		return DialRedis(ctx, opts.RedisURL)
	case BackendNone, "":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

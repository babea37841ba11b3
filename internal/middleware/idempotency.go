// Package middleware holds HTTP middleware that needs more state than the
// server package's header and logging wrappers.
package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"time"

	"github.com/osse101/CaseBot_Go/internal/concurrency"
	"github.com/osse101/CaseBot_Go/internal/idempotency"
	"github.com/osse101/CaseBot_Go/internal/logger"
)

// Idempotency replays the stored response for a repeated Idempotency-Key on
// mutating requests. Requests without the header pass through untouched.
type Idempotency struct {
	store idempotency.Store
	locks *concurrency.LockManager
	ttl   time.Duration
	now   func() time.Time
}

// NewIdempotency creates the middleware; ttl <= 0 uses idempotency.DefaultTTL
func NewIdempotency(store idempotency.Store, locks *concurrency.LockManager, ttl time.Duration) *Idempotency {
	if ttl <= 0 {
		ttl = idempotency.DefaultTTL
	}
	if locks == nil {
		locks = concurrency.NewLockManager()
	}
	return &Idempotency{store: store, locks: locks, ttl: ttl, now: time.Now}
}

// Handler wraps next
func (m *Idempotency) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientKey := r.Header.Get(HeaderIdempotencyKey)
		if clientKey == "" || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		if len(clientKey) > MaxIdempotencyKeyLength {
			writeError(w, http.StatusBadRequest, ErrMsgKeyTooLong)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrMsgReadBodyFailed)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		ctx := r.Context()
		log := logger.FromContext(ctx)
		key := idempotency.Fingerprint([]byte(r.Method), []byte(r.URL.Path), []byte(clientKey))
		fingerprint := idempotency.Fingerprint(body)

		unlock, err := m.locks.LockContext(ctx, stripe(key))
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, ErrMsgRequestCancelled)
			return
		}
		defer unlock()

		stored, err := m.store.Get(ctx, key)
		if err != nil {
			log.Error(LogMsgLookupFailed, "error", err)
			writeError(w, http.StatusServiceUnavailable, ErrMsgStoreUnavailable)
			return
		}
		if stored != nil {
			if stored.Fingerprint != fingerprint {
				log.Warn(LogMsgFingerprintHit, "path", r.URL.Path)
				writeError(w, http.StatusUnprocessableEntity, ErrMsgKeyReused)
				return
			}
			log.Debug(LogMsgReplayed, "path", r.URL.Path, "status", stored.StatusCode)
			replay(w, stored)
			return
		}

		rec := newRecorder(w)
		next.ServeHTTP(rec, r)

		// 5xx outcomes are retryable, so the key stays unclaimed
		if rec.status >= http.StatusInternalServerError {
			return
		}
		now := m.now().UTC()
		_, _, err = m.store.Save(ctx, &idempotency.Record{
			Key:         key,
			Fingerprint: fingerprint,
			StatusCode:  rec.status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
			CreatedAt:   now,
			ExpiresAt:   now.Add(m.ttl),
		})
		if err != nil {
			log.Error(LogMsgSaveFailed, "error", err)
		}
	})
}

// stripe maps a key onto a bounded set of lock names
func stripe(key string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return fmt.Sprintf("idem:%d", h.Sum32()%LockStripes)
}

func replay(w http.ResponseWriter, rec *idempotency.Record) {
	if rec.ContentType != "" {
		w.Header().Set("Content-Type", rec.ContentType)
	}
	w.Header().Set(HeaderIdempotentReplayed, "true")
	w.WriteHeader(rec.StatusCode)
	_, _ = w.Write(rec.Body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// recorder tees the response so it can be stored after the handler returns
type recorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newRecorder(w http.ResponseWriter) *recorder {
	return &recorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *recorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

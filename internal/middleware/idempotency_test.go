package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBot_Go/internal/idempotency"
)

func newTestMiddleware(t *testing.T) (*Idempotency, *int32) {
	t.Helper()
	store, err := idempotency.OpenBolt(filepath.Join(t.TempDir(), "idem.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewIdempotency(store, nil, time.Hour), new(int32)
}

func countingHandler(calls *int32, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"call":%d}`, n)
	})
}

func post(h http.Handler, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIdempotency_ReplaysFirstResponse(t *testing.T) {
	m, calls := newTestMiddleware(t)
	h := m.Handler(countingHandler(calls, http.StatusOK))

	first := post(h, "/api/v1/cases/starter/open", "abc", `{"user_id":1}`)
	second := post(h, "/api/v1/cases/starter/open", "abc", `{"user_id":1}`)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(HeaderIdempotentReplayed))
	assert.Empty(t, first.Header().Get(HeaderIdempotentReplayed))
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	m, calls := newTestMiddleware(t)
	h := m.Handler(countingHandler(calls, http.StatusOK))

	post(h, "/x", "", `{}`)
	post(h, "/x", "", `{}`)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestIdempotency_KeyScopedToPath(t *testing.T) {
	m, calls := newTestMiddleware(t)
	h := m.Handler(countingHandler(calls, http.StatusOK))

	post(h, "/a", "k", `{}`)
	post(h, "/b", "k", `{}`)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestIdempotency_DifferentBodyRejected(t *testing.T) {
	m, calls := newTestMiddleware(t)
	h := m.Handler(countingHandler(calls, http.StatusOK))

	post(h, "/a", "k", `{"user_id":1}`)
	rr := post(h, "/a", "k", `{"user_id":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	m, calls := newTestMiddleware(t)
	h := m.Handler(countingHandler(calls, http.StatusOK))

	rr := post(h, "/a", strings.Repeat("k", MaxIdempotencyKeyLength+1), `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestIdempotency_ServerErrorsNotStored(t *testing.T) {
	m, calls := newTestMiddleware(t)
	h := m.Handler(countingHandler(calls, http.StatusServiceUnavailable))

	post(h, "/a", "k", `{}`)
	post(h, "/a", "k", `{}`)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestIdempotency_ClientErrorsReplayed(t *testing.T) {
	m, calls := newTestMiddleware(t)
	h := m.Handler(countingHandler(calls, http.StatusBadRequest))

	post(h, "/a", "k", `{}`)
	rr := post(h, "/a", "k", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestIdempotency_ConcurrentDuplicatesRunOnce(t *testing.T) {
	m, calls := newTestMiddleware(t)
	h := m.Handler(countingHandler(calls, http.StatusOK))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := post(h, "/a", "same", `{"user_id":1}`)
			assert.Equal(t, http.StatusOK, rr.Code)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

type failingStore struct{ idempotency.NopStore }

func (failingStore) Get(context.Context, string) (*idempotency.Record, error) {
	return nil, errors.New("down")
}

func TestIdempotency_StoreFailure(t *testing.T) {
	calls := new(int32)
	h := NewIdempotency(failingStore{}, nil, 0).Handler(countingHandler(calls, http.StatusOK))

	rr := post(h, "/a", "k", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestStripe_Bounded(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 5000; i++ {
		seen[stripe(idempotency.Fingerprint([]byte{byte(i), byte(i >> 8)}))] = struct{}{}
	}
	assert.LessOrEqual(t, len(seen), LockStripes)
	assert.Equal(t, stripe("x"), stripe("x"))
}

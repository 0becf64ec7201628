package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpass/passgen/internal/crypto"
)

const testSecret = "test-secret"

func echoSessionID(w http.ResponseWriter, r *http.Request) {
	id, ok := SessionIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write([]byte(id))
}

func TestSessionAuth(t *testing.T) {
	tokens := crypto.NewTokenIssuer(testSecret, time.Hour)
	valid, _, err := tokens.Issue("session-1")
	require.NoError(t, err)
	foreign, _, err := crypto.NewTokenIssuer("other-secret", time.Hour).Issue("session-1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "session-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, ""},
	}

	handler := SessionAuth(tokens)(http.HandlerFunc(echoSessionID))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestSessionIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := SessionIDFromContext(req.Context())
	assert.False(t, ok)
}

func newTestLimiter(rps float64, burst int) (*RateLimiter, *time.Time) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(rps, burst)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimit(t *testing.T) {
	rl, now := newTestLimiter(0.5, 2)
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1235").Code)

	limited := send("10.0.0.1:1236")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "2", limited.Header().Get("Retry-After"))

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234").Code)

	// A rejected request does not spend the token it was waiting for.
	*now = now.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1237").Code)
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1238").Code)
}

func TestRateLimiterEvictIdle(t *testing.T) {
	rl, now := newTestLimiter(1, 1)
	rl.bucket("10.0.0.1", *now)
	rl.bucket("10.0.0.2", now.Add(clientIdleTimeout))

	assert.Equal(t, 1, rl.evictIdle(now.Add(clientIdleTimeout+time.Second)))
	assert.Equal(t, 1, rl.Len())
	assert.NotContains(t, rl.clients, "10.0.0.1")
}

func TestRateLimiterRunStops(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

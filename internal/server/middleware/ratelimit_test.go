package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubLimiter struct {
	allow   bool
	err     error
	lastKey string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	s.lastKey = key
	return s.allow, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitDenies(t *testing.T) {
	lim := &stubLimiter{allow: false}
	h := RateLimit(lim, 10, time.Minute)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRateLimitAllows(t *testing.T) {
	lim := &stubLimiter{allow: true}
	h := RateLimit(lim, 10, time.Minute)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	lim := &stubLimiter{allow: false, err: errors.New("redis down")}
	h := RateLimit(lim, 10, time.Minute)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when the limiter errors", rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(nil, 0, 0)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with limiting disabled", rec.Code)
	}
}

func TestRateLimitKeysByClientIP(t *testing.T) {
	lim := &stubLimiter{allow: true}
	h := RateLimit(lim, 10, time.Minute)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if lim.lastKey != "ip:203.0.113.9" {
		t.Errorf("key = %q, want ip:203.0.113.9", lim.lastKey)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.RemoteAddr = "192.0.2.4:51234"
	h.ServeHTTP(httptest.NewRecorder(), req)

	if lim.lastKey != "ip:192.0.2.4" {
		t.Errorf("key = %q, want ip:192.0.2.4", lim.lastKey)
	}
}

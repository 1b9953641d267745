package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)

	s := newTestServer(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	s.UseRedis(rdb)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := s.RateLimit(2, time.Minute, 5*time.Minute, "auth")(ok)

	send := func(method, ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(method, loginPath, nil)
		r.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	const ip = "203.0.113.7"

	t.Run("within limit", func(t *testing.T) {
		for range 2 {
			expectStatus(t, send(http.MethodPost, ip), http.StatusNoContent)
		}
		if ttl := mr.TTL("auth:ip:" + ip); ttl != time.Minute {
			t.Errorf("counter ttl = %v, want %v", ttl, time.Minute)
		}
	})

	t.Run("over limit blocks", func(t *testing.T) {
		w := send(http.MethodPost, ip)
		expectStatus(t, w, http.StatusTooManyRequests)
		if got := w.Header().Get("Retry-After"); got != "300" {
			t.Errorf("Retry-After = %q", got)
		}
		if v, err := mr.Get("auth:ip:" + ip + ":blocked"); err != nil || v != "1" {
			t.Errorf("block key = %q, %v", v, err)
		}
	})

	t.Run("block outlives the window", func(t *testing.T) {
		mr.FastForward(2 * time.Minute)

		w := send(http.MethodPost, ip)
		expectStatus(t, w, http.StatusTooManyRequests)
		if got := w.Header().Get("Retry-After"); got != "180" {
			t.Errorf("Retry-After = %q, want remaining block", got)
		}
	})

	t.Run("other clients and reads pass", func(t *testing.T) {
		expectStatus(t, send(http.MethodGet, ip), http.StatusNoContent)
		expectStatus(t, send(http.MethodPost, "198.51.100.20"), http.StatusNoContent)
	})

	t.Run("block expires", func(t *testing.T) {
		mr.FastForward(3 * time.Minute)
		expectStatus(t, send(http.MethodPost, ip), http.StatusNoContent)
	})
}

func TestRateLimitRedisDown(t *testing.T) {
	s := newTestServer(t)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { rdb.Close() })
	s.UseRedis(rdb)

	h := s.RateLimit(1, time.Minute, time.Minute, "auth")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for range 3 {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, loginPath, nil))
		expectStatus(t, w, http.StatusNoContent)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "192.0.2.1:5555"
	if got := clientIP(r); got != "192.0.2.1" {
		t.Errorf("clientIP = %q", got)
	}

	r.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	if got := clientIP(r); got != "203.0.113.9" {
		t.Errorf("clientIP = %q", got)
	}
}

package internal

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gopher93185789/redshow/pkg/types"
	"go.uber.org/zap"
)

type ctxKey int

const accountKey ctxKey = iota

func withAccount(ctx context.Context, a *types.Account) context.Context {
	return context.WithValue(ctx, accountKey, a)
}

// accountFrom returns the logged in account placed in the context by
// AuthMiddleware or LoadSession.
func accountFrom(ctx context.Context) *types.Account {
	a, _ := ctx.Value(accountKey).(*types.Account)
	return a
}

// validateSession resolves the session cookie to an active account.
func (s *ServerContext) validateSession(r *http.Request) (*types.Account, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	claims, err := s.parseToken(cookie.Value)
	if err != nil {
		return nil, false
	}

	id, err := claims.accountID()
	if err != nil {
		return nil, false
	}

	a, err := s.store.AccountByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("session lookup failed", zap.Error(err))
		}
		return nil, false
	}

	if !a.Active {
		return nil, false
	}
	return a, true
}

// LoadSession attaches the account to the request when a valid session is
// present and never rejects.
func (s *ServerContext) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a, ok := s.validateSession(r); ok {
			r = r.WithContext(withAccount(r.Context(), a))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *ServerContext) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accountFrom(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		a, ok := s.validateSession(r)
		if !ok {
			clearSessionCookie(w)
			http.Redirect(w, r, loginPath+"?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(withAccount(r.Context(), a)))
	})
}

// RateLimit counts POSTs per client ip in redis and blocks a client for
// block once it exceeds limit within window. Without redis it is a no-op,
// and redis errors let the request through.
func (s *ServerContext) RateLimit(limit int, window, block time.Duration, prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.redis == nil || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := prefix + ":ip:" + clientIP(r)
			blockKey := key + ":blocked"

			if blocked, _ := s.redis.Get(ctx, blockKey).Result(); blocked == "1" {
				ttl, _ := s.redis.TTL(ctx, blockKey).Result()
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				http.Error(w, "Demasiados intentos, probá de nuevo más tarde.", http.StatusTooManyRequests)
				return
			}

			count, err := s.redis.Incr(ctx, key).Result()
			if err != nil {
				s.logger.Warn("rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if count == 1 {
				s.redis.Expire(ctx, key, window)
			}

			if count > int64(limit) {
				s.redis.Set(ctx, blockKey, "1", block)
				w.Header().Set("Retry-After", strconv.Itoa(int(block.Seconds())))
				http.Error(w, "Demasiados intentos, probá de nuevo más tarde.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

package chi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/athletedex/internal/ratelimit"
)

// RateLimitMiddleware admits requests through l. A nil limiter passes requests through.
func RateLimitMiddleware(l *ratelimit.Limiter) func(http.Handler) http.Handler {
	return rateLimit(func(*http.Request) *ratelimit.Limiter { return l })
}

// SearchRateLimitMiddleware admits requests carrying a non-empty search parameter
// through search and all others through api.
func SearchRateLimitMiddleware(api, search *ratelimit.Limiter) func(http.Handler) http.Handler {
	return rateLimit(func(r *http.Request) *ratelimit.Limiter {
		if strings.TrimSpace(r.URL.Query().Get("search")) != "" {
			return search
		}
		return api
	})
}

func rateLimit(pick func(*http.Request) *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := pick(r)
			if l == nil {
				next.ServeHTTP(w, r)
				return
			}

			res := l.Check(ratelimit.ClientID(r))
			reset := res.ResetAt.UTC().Format(time.RFC3339)

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", reset)

			if !res.Allowed {
				h.Set("Retry-After", strconv.Itoa(res.RetryAfterSeconds(l.Now())))
				writeJSON(w, http.StatusTooManyRequests, RateLimitResponse{
					Error:     "Rate limit exceeded",
					Message:   "Too many requests. Please try again later.",
					ResetTime: reset,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

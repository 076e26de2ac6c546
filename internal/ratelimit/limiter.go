// Package ratelimit implements in-process fixed-window request limiting per client.
package ratelimit

import (
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/athletedex/internal/metrics"
)

// UnknownClient is the shared bucket for requests without a client address header.
const UnknownClient = "unknown"

// Limiter names.
const (
	NameAPI    = "api"
	NameSearch = "search"
)

// Result is the outcome of one Check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfterSeconds returns the whole seconds left until the window resets, rounded up.
func (r Result) RetryAfterSeconds(now time.Time) int {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

type bucket struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per client within a fixed window.
// Not shared across processes.
type Limiter struct {
	name   string
	window time.Duration
	max    int
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*bucket
	nextPrune time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter allowing limit requests per window per client.
func New(name string, window time.Duration, limit int, opts ...Option) *Limiter {
	l := &Limiter{
		name:    name,
		window:  window,
		max:     limit,
		now:     time.Now,
		clients: make(map[string]*bucket),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the limiter name.
func (l *Limiter) Name() string { return l.name }

// Limit returns the max requests per window.
func (l *Limiter) Limit() int { return l.max }

// Now returns the limiter clock reading.
func (l *Limiter) Now() time.Time { return l.now() }

// Check records a request from clientID and decides whether it is allowed.
func (l *Limiter) Check(clientID string) Result {
	now := l.now()

	l.mu.Lock()
	l.pruneLocked(now)

	w, ok := l.clients[clientID]
	var res Result
	switch {
	case !ok || now.After(w.resetAt):
		w = &bucket{count: 1, resetAt: now.Add(l.window)}
		l.clients[clientID] = w
		res = Result{Allowed: true, Remaining: l.max - 1}
	case w.count >= l.max:
		res = Result{Allowed: false, Remaining: 0}
	default:
		w.count++
		res = Result{Allowed: true, Remaining: l.max - w.count}
	}
	res.Limit = l.max
	res.ResetAt = w.resetAt
	tracked := len(l.clients)
	l.mu.Unlock()

	decision := "allowed"
	if !res.Allowed {
		decision = "denied"
	}
	metrics.RateLimitDecisionsTotal.WithLabelValues(l.name, decision).Inc()
	metrics.RateLimitTrackedClients.WithLabelValues(l.name).Set(float64(tracked))
	return res
}

// Reset drops the window of clientID.
func (l *Limiter) Reset(clientID string) {
	l.mu.Lock()
	delete(l.clients, clientID)
	l.mu.Unlock()
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// pruneLocked drops expired windows at most once per window length.
func (l *Limiter) pruneLocked(now time.Time) {
	if now.Before(l.nextPrune) {
		return
	}
	for id, w := range l.clients {
		if now.After(w.resetAt) {
			delete(l.clients, id)
		}
	}
	l.nextPrune = now.Add(l.window)
}

// ClientID identifies the caller: first X-Forwarded-For entry, then X-Real-IP, then UnknownClient.
func ClientID(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if id := strings.TrimSpace(first); id != "" {
			return id
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return UnknownClient
}

package redis

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/athletedex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Defaults for connection handling.
const (
	DefaultTimeout = 500 * time.Millisecond
	DefaultBackoff = 5 * time.Second
)

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// Timeout bounds dialing and writes on a connection.
	Timeout time.Duration
	// Backoff is how long calls fail fast after a failed dial.
	Backoff time.Duration
}

// Store implements db.Store via rueidis.
// The connection is opened on first use and reused. A dial runs in the background
// and is shared by concurrent callers; each caller waits at most until its own
// context is done. After a failed dial, calls fail fast until the backoff elapses.
type Store struct {
	opt     rueidis.ClientOption
	dial    func(rueidis.ClientOption) (rueidis.Client, error)
	backoff time.Duration
	now     func() time.Time

	mu       sync.Mutex
	client   rueidis.Client
	dialing  chan struct{}
	dialErr  error
	nextDial time.Time
	closed   bool
}

// NewStore creates a Redis store without connecting.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}

	return &Store{
		opt: rueidis.ClientOption{
			InitAddress:      cfg.Addrs,
			Username:         cfg.Username,
			Password:         cfg.Password,
			SelectDB:         cfg.DB,
			DisableCache:     true,
			Dialer:           net.Dialer{Timeout: cfg.Timeout},
			ConnWriteTimeout: cfg.Timeout,
		},
		dial:    rueidis.NewClient,
		backoff: cfg.Backoff,
		now:     time.Now,
	}, nil
}

// conn returns the shared client, starting a dial if none is open or in flight.
func (s *Store) conn(ctx context.Context) (rueidis.Client, error) {
	s.mu.Lock()
	if s.client != nil {
		c := s.client
		s.mu.Unlock()
		return c, nil
	}
	if s.closed || s.dial == nil {
		s.mu.Unlock()
		return nil, &db.Error{Op: db.OpConnect, Err: db.ErrNotConnected}
	}
	if s.dialing == nil {
		if s.dialErr != nil && s.clock().Before(s.nextDial) {
			err := s.dialErr
			s.mu.Unlock()
			return nil, &db.Error{Op: db.OpConnect, Err: fmt.Errorf("%w: %w", db.ErrNotConnected, err)}
		}
		s.dialing = make(chan struct{})
		go s.redial(s.dialing)
	}
	done := s.dialing
	s.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, &db.Error{Op: db.OpConnect, Err: ctx.Err()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	if s.dialErr != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: s.dialErr}
	}
	return nil, &db.Error{Op: db.OpConnect, Err: db.ErrNotConnected}
}

func (s *Store) redial(done chan struct{}) {
	c, err := s.dial(s.opt)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(done)
	s.dialing = nil

	switch {
	case err != nil:
		s.dialErr = err
		s.nextDial = s.clock().Add(s.backoff)
	case s.closed:
		c.Close()
	default:
		s.client = c
		s.dialErr = nil
	}
}

func (s *Store) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	c, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if err := c.Do(ctx, c.B().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client if it was opened. A dial still in flight is closed on completion.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for cache: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

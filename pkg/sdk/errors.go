package athletedex

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kailas-cloud/athletedex/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation     = domain.ErrValidation
	ErrRateLimited    = domain.ErrRateLimited
	ErrInvalidPattern = domain.ErrInvalidPattern
	// ErrServer matches any 5xx answer.
	ErrServer = errors.New("server error")
)

// APIError is a non-2xx answer of the API.
type APIError struct {
	StatusCode int
	Title      string
	Message    string
	// Details lists rejected query parameters on a validation failure.
	Details map[string][]string
	// RetryAfter and ResetTime are set on a rate limit rejection.
	RetryAfter time.Duration
	ResetTime  time.Time
	RequestID  string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "athletedex: %d", e.StatusCode)
	if e.Title != "" {
		b.WriteString(" ")
		b.WriteString(e.Title)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap maps the status to a sentinel.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode == http.StatusBadRequest && len(e.Details) > 0:
		return ErrValidation
	case e.StatusCode == http.StatusBadRequest && e.Message == ErrInvalidPattern.Error():
		return ErrInvalidPattern
	case e.StatusCode >= 500:
		return ErrServer
	default:
		return nil
	}
}

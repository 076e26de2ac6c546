package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrValidation signals malformed, out-of-range or inconsistent filter input.
	ErrValidation = errors.New("validation failed")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrStoreUnavailable signals a relational store failure.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidPattern signals a malformed cache invalidation pattern.
	ErrInvalidPattern = errors.New("invalid cache pattern")
)

// ValidationError lists every rejected field with its reasons.
type ValidationError struct {
	Details map[string][]string
}

// NewValidationError creates an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Details: make(map[string][]string)}
}

// Add records a reason for field.
func (e *ValidationError) Add(field, msg string) {
	e.Details[field] = append(e.Details[field], msg)
}

// Has reports whether field already has a recorded reason.
func (e *ValidationError) Has(field string) bool {
	return len(e.Details[field]) > 0
}

// Empty reports whether no reasons were recorded.
func (e *ValidationError) Empty() bool { return len(e.Details) == 0 }

// OrNil returns e if it carries reasons, otherwise a nil error.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for f := range e.Details {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	for i, f := range fields {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Details[f], ", "))
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

package apperrors

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error categories the API layer maps onto
// client-facing responses.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindQuota        Kind = "quota_exceeded"
	KindInvalidState Kind = "invalid_state_transition"
	KindPersistence  Kind = "persistence"
)

// Error carries a kind alongside the wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying cause.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind of err, or KindPersistence for untyped
// errors (the conservative default for storage failures).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsValidation(err error) bool   { return Is(err, KindValidation) }
func IsNotFound(err error) bool     { return Is(err, KindNotFound) }
func IsConflict(err error) bool     { return Is(err, KindConflict) }
func IsQuota(err error) bool        { return Is(err, KindQuota) }
func IsInvalidState(err error) bool { return Is(err, KindInvalidState) }
func IsPersistence(err error) bool  { return Is(err, KindPersistence) }

// QuotaExceeded is the typed payload for quota failures so callers can
// report the limit and the current count.
type QuotaExceeded struct {
	Resource string
	Limit    int
	Current  int
}

func (e *QuotaExceeded) Error() string {
	return fmt.Sprintf("quota_exceeded: %s limit %d reached (current %d)", e.Resource, e.Limit, e.Current)
}

// NewQuotaExceeded wraps a QuotaExceeded payload in a kinded error.
func NewQuotaExceeded(resource string, limit, current int) error {
	q := &QuotaExceeded{Resource: resource, Limit: limit, Current: current}
	return &Error{Kind: KindQuota, Msg: q.Error(), Err: q}
}

// AsQuotaExceeded extracts the quota payload when present.
func AsQuotaExceeded(err error) (*QuotaExceeded, bool) {
	var q *QuotaExceeded
	if errors.As(err, &q) {
		return q, true
	}
	return nil, false
}

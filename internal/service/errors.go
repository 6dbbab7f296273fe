package service

import "errors"

// Category is the only part of a failure that crosses the service boundary.
type Category string

const (
	CategoryAuth        Category = "invalid_signature"
	CategoryMalformed   Category = "malformed_payload"
	CategoryDeclined    Category = "declined"
	CategoryNotFound    Category = "not_found"
	CategoryConflict    Category = "conflict"
	CategoryInvariant   Category = "invariant_violation"
	CategoryRetriable   Category = "retriable"
	CategoryInternal    Category = "internal"
	CategoryRateLimited Category = "rate_limited"
)

// Error carries a category and a stable reason code. The wrapped error is
// kept for logs and errors.Is, never rendered to callers.
type Error struct {
	Category Category
	Reason   string
	Err      error
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return string(e.Category)
	}
	return string(e.Category) + ": " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(category Category, reason string, err error) *Error {
	return &Error{Category: category, Reason: reason, Err: err}
}

// CategoryOf reports the category of err, treating unknown errors as internal.
func CategoryOf(err error) Category {
	var se *Error
	if errors.As(err, &se) {
		return se.Category
	}
	return CategoryInternal
}

// ReasonOf reports the reason code of err, if any.
func ReasonOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Reason
	}
	return ""
}

// IsRetriable reports whether redelivering the same input may succeed.
func IsRetriable(err error) bool {
	switch CategoryOf(err) {
	case CategoryRetriable, CategoryInternal, CategoryInvariant:
		return true
	default:
		return false
	}
}

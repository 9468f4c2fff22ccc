// Package apperrors implements the error taxonomy shared by every core
// subsystem: validation failures, missing entities, precondition
// violations, concurrent-mutation conflicts, malformed static data and
// broken invariants.
//
// A small named-kind enum wrapping a plain Go error, left for the
// transport layer to map onto whatever status codes it wants.
package apperrors

import "fmt"

// Kind enumerates the error categories.
type Kind int

const (
	// Validation indicates malformed caller input (empty id, negative
	// amount, unknown recipe, ...).
	Validation Kind = iota
	// NotFound indicates a referenced entity does not exist.
	NotFound
	// PreconditionFailed indicates a state rule was violated (ship in
	// transit, insufficient fuel, overheating, TWR < 1, non-idle
	// equipment, ...).
	PreconditionFailed
	// Conflict indicates a race between a check and the mutation that
	// depended on it (inventory consumed between check and debit).
	Conflict
	// Config indicates malformed static data (celestial config, catalog
	// files).
	Config
	// Internal indicates a broken invariant (solver produced a
	// non-finite result, unreachable state reached).
	Internal
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case PreconditionFailed:
		return "precondition_failed"
	case Conflict:
		return "conflict"
	case Config:
		return "config"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every core operation that
// can fail for a reason the caller should be told about.
type Error struct {
	Kind   Kind
	Field  string // offending field path, for Config/Validation errors
	reason string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.reason, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.reason)
}

// newf builds an *Error with a formatted reason.
func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, reason: fmt.Sprintf(format, args...)}
}

// Validationf builds a Validation error.
func Validationf(format string, args ...interface{}) *Error {
	return newf(Validation, format, args...)
}

// NotFoundf builds a NotFound error.
func NotFoundf(format string, args ...interface{}) *Error {
	return newf(NotFound, format, args...)
}

// PreconditionFailedf builds a PreconditionFailed error.
func PreconditionFailedf(format string, args ...interface{}) *Error {
	return newf(PreconditionFailed, format, args...)
}

// Conflictf builds a Conflict error.
func Conflictf(format string, args ...interface{}) *Error {
	return newf(Conflict, format, args...)
}

// Internalf builds an Internal error.
func Internalf(format string, args ...interface{}) *Error {
	return newf(Internal, format, args...)
}

// ConfigErrorf builds a Config error tagged with the offending field path,
// using dotted JSON-pointer-shaped paths such as "bodies.earth.position.type".
func ConfigErrorf(field string, format string, args ...interface{}) *Error {
	e := newf(Config, format, args...)
	e.Field = field
	return e
}

// Is reports whether err is an *Error of the given kind, so callers can
// branch without a type assertion at every call site.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

package db

import (
	"fmt"
	"strings"
)

// ErrorType classifies a raw Postgres error string into a handful of
// named buckets the rest of the module can branch on without caring
// about SQLSTATE codes directly.
type ErrorType int

const (
	DuplicatedElement ErrorType = iota
	ForeignKeyViolation
	Unknown
)

// sqlStateMarkers maps the SQLSTATE substring pgx embeds in its error
// text to the ErrorType it represents.
var sqlStateMarkers = map[string]ErrorType{
	"SQLSTATE 23505": DuplicatedElement,
	"SQLSTATE 23503": ForeignKeyViolation,
}

// GetSQLErrorCode inspects errStr for a known SQLSTATE marker and
// returns the matching ErrorType, or Unknown if none is found.
func GetSQLErrorCode(errStr string) ErrorType {
	for marker, code := range sqlStateMarkers {
		if strings.Contains(errStr, marker) {
			return code
		}
	}
	return Unknown
}

// ErrInvalidDB is returned by Proxy methods when the Proxy wraps no DB
// at all. A DB without a live connection pool fails with its own error
// from DBQuery/DBExecute instead.
var ErrInvalidDB = fmt.Errorf("no valid database connection")

// ErrInvalidQuery is returned when a QueryDesc is missing its
// properties or table name.
var ErrInvalidQuery = fmt.Errorf("query is missing required properties or table")

// ErrInvalidData is returned when an InsertReq argument cannot be
// marshalled for inclusion in the generated SQL statement.
var ErrInvalidData = fmt.Errorf("could not marshal insert argument")

// formatDBError classifies a raw Postgres error so callers can
// branch on duplicate-key/foreign-key failures without parsing
// SQLSTATE text themselves. Unclassified errors pass through as-is.
func formatDBError(err error) error {
	if err == nil {
		return nil
	}

	switch GetSQLErrorCode(err.Error()) {
	case DuplicatedElement:
		return fmt.Errorf("duplicated element: %w", err)
	case ForeignKeyViolation:
		return fmt.Errorf("foreign key violation: %w", err)
	default:
		return err
	}
}

// Package domain holds the shared error taxonomy and core value types of the
// search engine.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery signals a missing or blank query string.
	ErrEmptyQuery = errors.New("query must be a non-empty string")
	// ErrQueryTooLong signals a query exceeding the length limit.
	ErrQueryTooLong = errors.New("query too long")
	// ErrDatasetTooLarge signals a dataset exceeding the record limit.
	ErrDatasetTooLarge = errors.New("dataset too large")
	// ErrTooManyTerms signals a query with more terms than allowed.
	ErrTooManyTerms = errors.New("too many search terms")
	// ErrTermTooShort signals a term below the minimum length.
	ErrTermTooShort = errors.New("search term too short")
	// ErrUnmatchedParen signals an unbalanced parenthesis in the query.
	ErrUnmatchedParen = errors.New("unmatched parenthesis")
	// ErrMissingFieldValue signals a field search with no value after the colon.
	ErrMissingFieldValue = errors.New("missing field value")
	// ErrUnexpectedToken signals a token the grammar cannot accept.
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrSearchFailed wraps unexpected failures during filtering or scoring.
	ErrSearchFailed = errors.New("search execution failed")
	// ErrDatasetNotFound signals a missing named dataset.
	ErrDatasetNotFound = errors.New("dataset not found")
)

// ParseError is a structured query syntax error carrying the offending token
// and its position where derivable. It unwraps to one of the parse sentinels
// above so callers can branch with errors.Is.
type ParseError struct {
	Sentinel error
	Token    string
	Position int // rune offset into the query, -1 when unknown
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return e.Sentinel.Error()
	}
	if e.Position >= 0 {
		return fmt.Sprintf("%s: %q at position %d", e.Sentinel.Error(), e.Token, e.Position)
	}
	return fmt.Sprintf("%s: %q", e.Sentinel.Error(), e.Token)
}

func (e *ParseError) Unwrap() error { return e.Sentinel }

// NewParseError creates a parse error at a known position.
func NewParseError(sentinel error, token string, position int) error {
	return &ParseError{Sentinel: sentinel, Token: token, Position: position}
}

// IsParseError reports whether err is any query syntax error.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) ||
		errors.Is(err, ErrEmptyQuery) ||
		errors.Is(err, ErrTooManyTerms) ||
		errors.Is(err, ErrTermTooShort) ||
		errors.Is(err, ErrUnmatchedParen) ||
		errors.Is(err, ErrMissingFieldValue) ||
		errors.Is(err, ErrUnexpectedToken)
}

// IsValidationError reports whether err is an input-shape rejection raised
// before parsing.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrQueryTooLong) || errors.Is(err, ErrDatasetTooLarge)
}

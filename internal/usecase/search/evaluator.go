package search

import (
	"strings"

	"github.com/voca9204/findex/internal/domain/query"
	"github.com/voca9204/findex/internal/domain/record"
)

// evaluator evaluates the query tree against records. When fuzzyMatch is
// set, bare (non-phrase, non-wildcard) terms additionally match by
// similarity — fuzzy augmentation relaxes free-text terms only, never
// phrases, wildcards, or field constraints.
type evaluator struct {
	searchFields []string
	fuzzyMatch   func(value, term string) bool
}

// eval evaluates the query tree against one record. Binary operators
// evaluate both sides unconditionally — boolean algebra, not short-circuit —
// and missing fields are simply non-matching, never errors.
func (e *evaluator) eval(n query.Node, rec record.Record) bool {
	switch t := n.(type) {
	case nil:
		return false
	case *query.Term:
		for _, field := range e.searchFields {
			if value, ok := rec.String(field); ok && e.matchTerm(value, t) {
				return true
			}
		}
		return false
	case *query.FieldMatch:
		value, ok := rec.String(t.Field)
		if !ok {
			return false
		}
		return matchFieldValue(value, t)
	case *query.Binary:
		left := e.eval(t.Left, rec)
		right := e.eval(t.Right, rec)
		if t.Op == query.OpOr {
			return left || right
		}
		return left && right
	case *query.Unary:
		return !e.eval(t.Operand, rec)
	case *query.Group:
		return e.eval(t.Expr, rec)
	default:
		return false
	}
}

// matchTerm matches a free-text leaf: phrases compare exactly, wildcard
// terms glob, and bare terms match as case-insensitive substrings (or by
// similarity when fuzzy augmentation is on).
func (e *evaluator) matchTerm(value string, t *query.Term) bool {
	v := strings.ToLower(value)
	q := strings.ToLower(t.Value)
	switch {
	case t.Exact:
		return v == q
	case t.Wildcard:
		return matchGlob(v, q)
	case strings.Contains(v, q):
		return true
	default:
		return e.fuzzyMatch != nil && e.fuzzyMatch(value, t.Value)
	}
}

// matchFieldValue matches a field:value leaf: exact values compare equal,
// wildcard values glob.
func matchFieldValue(value string, t *query.FieldMatch) bool {
	v := strings.ToLower(value)
	q := strings.ToLower(t.Value)
	if t.Exact {
		return v == q
	}
	return matchGlob(v, q)
}

// matchGlob matches value against a pattern where * means "any sequence".
// The pattern is anchored: a leading or trailing * is required to float the
// respective end.
func matchGlob(value, pattern string) bool {
	segments := strings.Split(pattern, "*")

	// Fast path: no * at all.
	if len(segments) == 1 {
		return value == pattern
	}

	if segments[0] != "" {
		if !strings.HasPrefix(value, segments[0]) {
			return false
		}
		value = value[len(segments[0]):]
	}
	last := segments[len(segments)-1]

	for _, seg := range segments[1 : len(segments)-1] {
		if seg == "" {
			continue
		}
		idx := strings.Index(value, seg)
		if idx < 0 {
			return false
		}
		value = value[idx+len(seg):]
	}

	if last != "" {
		return strings.HasSuffix(value, last)
	}
	return true
}

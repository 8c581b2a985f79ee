// Package record defines the caller-supplied candidate record and the
// dot-path field accessor shared by the evaluator, scorer, and paginator.
package record

import (
	"strconv"
	"strings"
	"time"
)

// Record is one searchable entity: an opaque key/value map with no fixed
// schema. Field access goes through Lookup so that nested values resolve
// uniformly and missing fields degrade to the absent sentinel instead of
// failing the search.
type Record map[string]any

// Absent is the sentinel returned for missing fields. It compares unequal to
// every real field value and is treated as non-matching by the evaluator.
type absent struct{}

// Absent is the missing-field sentinel value.
var Absent = absent{}

// IsAbsent reports whether v is the missing-field sentinel.
func IsAbsent(v any) bool {
	_, ok := v.(absent)
	return ok
}

// Lookup resolves a dot-path ("stats.activityDays") against the record.
// Nested maps are traversed per segment; any miss yields Absent.
func (r Record) Lookup(path string) any {
	if r == nil || path == "" {
		return Absent
	}

	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			if rec, isRec := cur.(Record); isRec {
				m = map[string]any(rec)
			} else {
				return Absent
			}
		}
		v, found := m[seg]
		if !found || v == nil {
			return Absent
		}
		cur = v
	}
	return cur
}

// String resolves a path to its string form. Numeric and boolean values are
// formatted; absent fields return ("", false).
func (r Record) String(path string) (string, bool) {
	v := r.Lookup(path)
	if IsAbsent(v) {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	case time.Time:
		return t.Format(time.RFC3339), true
	default:
		return "", false
	}
}

// Float resolves a path to a float64. Strings are parsed when possible;
// absent or non-numeric fields return (0, false).
func (r Record) Float(path string) (float64, bool) {
	v := r.Lookup(path)
	if IsAbsent(v) {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Time resolves a path to a time.Time. RFC3339 strings, "2006-01-02" dates,
// and unix-millisecond numbers are accepted.
func (r Record) Time(path string) (time.Time, bool) {
	v := r.Lookup(path)
	if IsAbsent(v) {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts, true
		}
		if ts, err := time.Parse("2006-01-02", t); err == nil {
			return ts, true
		}
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(t)).UTC(), true
	case int64:
		return time.UnixMilli(t).UTC(), true
	default:
		return time.Time{}, false
	}
}

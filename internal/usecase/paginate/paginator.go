// Package paginate produces stable, resumable pages over sorted result sets
// using opaque cursors.
package paginate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/voca9204/findex/internal/domain/record"
	"github.com/voca9204/findex/internal/domain/search/request"
	"github.com/voca9204/findex/internal/domain/search/result"
)

// Page size defaults.
const (
	DefaultPageSize = 20
	DefaultMaxSize  = 100
)

// Validation is the outcome of an explicit cursor check.
type Validation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Paginator slices sorted result sets into cursor-addressed pages. Safe for
// concurrent use.
type Paginator struct {
	defaultSize int
	maxSize     int
	codec       *Codec
}

// New creates a paginator. Non-positive sizes fall back to the defaults;
// a nil codec gets the default codec.
func New(defaultSize, maxSize int, codec *Codec) *Paginator {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if defaultSize > maxSize {
		defaultSize = maxSize
	}
	if codec == nil {
		codec = NewCodec(0, 0, 0)
	}
	return &Paginator{defaultSize: defaultSize, maxSize: maxSize, codec: codec}
}

// Codec returns the cursor codec.
func (p *Paginator) Codec() *Codec { return p.codec }

// Paginate sorts the full result set by sortField/sortDirection and returns
// the requested page. A missing or malformed cursor starts from the edge;
// a cursor whose record has since disappeared falls back to the nearest
// position by sort value rather than failing.
func (p *Paginator) Paginate(
	results []result.Scored, page request.Page,
	sortField, sortDirection, cursorField string,
) ([]result.Scored, result.PageInfo) {
	size := page.PageSize()
	if size <= 0 {
		size = p.defaultSize
	}
	if size > p.maxSize {
		size = p.maxSize
	}

	info := result.PageInfo{
		PageSize:      size,
		SortField:     sortField,
		SortDirection: sortDirection,
	}
	if len(results) == 0 {
		return nil, info
	}

	sorted := sortResults(results, sortField, sortDirection)

	pos := -1
	if cur := p.codec.Decode(page.Cursor()); cur != nil {
		pos = p.locate(sorted, cur, sortField, sortDirection, cursorField)
	}

	var start, end int
	switch page.Direction() {
	case request.PagePrev:
		if pos < 0 {
			// No prior page exists before the first one.
			return nil, info
		}
		end = pos
		start = end - size
		if start < 0 {
			start = 0
		}
	default: // next
		start = pos + 1
		end = start + size
		if end > len(sorted) {
			end = len(sorted)
		}
	}
	if start >= end {
		return nil, info
	}

	slice := sorted[start:end]
	info.StartIndex = start
	info.EndIndex = end
	info.HasPrev = start > 0
	info.HasNext = end < len(sorted)

	if info.HasNext {
		last := slice[len(slice)-1]
		info.NextCursor = p.codec.NewCursor(
			last.Record().Lookup(cursorField),
			last.Record().Lookup(sortField),
		)
	}
	if info.HasPrev {
		first := slice[0]
		info.PrevCursor = p.codec.NewCursor(
			first.Record().Lookup(cursorField),
			first.Record().Lookup(sortField),
		)
	}

	out := make([]result.Scored, len(slice))
	copy(out, slice)
	return out, info
}

// ValidateCursor explicitly checks a cursor against the current result set.
// It reports expired cursors and cursors whose anchor record no longer
// exists; pagination itself degrades silently instead.
func (p *Paginator) ValidateCursor(
	token string, results []result.Scored, cursorField string,
) Validation {
	if token == "" {
		return Validation{Valid: false, Reason: "Cursor is empty"}
	}
	cur := p.codec.Decode(token)
	if cur == nil {
		return Validation{Valid: false, Reason: "Cursor is malformed"}
	}
	if p.codec.Expired(cur) {
		return Validation{Valid: false, Reason: "Cursor expired"}
	}

	want := valueKey(cur.Value)
	for i := range results {
		if valueKey(results[i].Record().Lookup(cursorField)) == want {
			return Validation{Valid: true}
		}
	}
	return Validation{Valid: false, Reason: "Cursor record no longer exists"}
}

// locate finds the cursor's anchor in the sorted set: exact cursor-field
// match first, then a binary search for the nearest position by sort value
// when the record has been removed.
func (p *Paginator) locate(
	sorted []result.Scored, cur *Cursor,
	sortField, sortDirection, cursorField string,
) int {
	want := valueKey(cur.Value)
	for i := range sorted {
		if valueKey(sorted[i].Record().Lookup(cursorField)) == want {
			return i
		}
	}

	// Approximate-position fallback: the last index whose sort value still
	// precedes the cursor's sort value.
	n := sort.Search(len(sorted), func(i int) bool {
		c := compareValues(sorted[i].Record().Lookup(sortField), cur.SortValue)
		if sortDirection == request.SortDesc {
			c = -c
		}
		return c >= 0
	})
	return n - 1
}

// sortResults stable-sorts a copy of the results by the sort field.
func sortResults(results []result.Scored, sortField, sortDirection string) []result.Scored {
	sorted := make([]result.Scored, len(results))
	copy(sorted, results)

	sort.SliceStable(sorted, func(i, j int) bool {
		c := compareValues(
			sorted[i].Record().Lookup(sortField),
			sorted[j].Record().Lookup(sortField),
		)
		if sortDirection == request.SortDesc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

// compareValues orders two field values: numerically when both are numbers,
// chronologically when both parse as times, otherwise by string form.
// Absent values sort first.
func compareValues(a, b any) int {
	aAbsent, bAbsent := record.IsAbsent(a), record.IsAbsent(b)
	switch {
	case aAbsent && bAbsent:
		return 0
	case aAbsent:
		return -1
	case bAbsent:
		return 1
	}

	ra := record.Record{"v": a}
	rb := record.Record{"v": b}

	if fa, okA := ra.Float("v"); okA {
		if fb, okB := rb.Float("v"); okB {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	if ta, okA := ra.Time("v"); okA {
		if tb, okB := rb.Time("v"); okB {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			default:
				return 0
			}
		}
	}

	return strings.Compare(valueKey(a), valueKey(b))
}

// valueKey reduces a field value to a comparable string form.
func valueKey(v any) string {
	if record.IsAbsent(v) || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Package request defines the validated search request.
package request

import (
	"fmt"
	"strings"
)

// Request parameter limits and defaults.
const (
	DefaultFuzzyThreshold = 60
	DefaultSearchField    = "userId"

	// SortAsc and SortDesc are the accepted sort directions.
	SortAsc  = "ASC"
	SortDesc = "DESC"

	// PageNext and PagePrev are the accepted pagination directions.
	PageNext = "next"
	PagePrev = "prev"
)

// Page holds cursor pagination parameters.
type Page struct {
	cursor    string
	pageSize  int
	direction string
}

// NewPage validates pagination parameters. pageSize 0 means "engine default";
// clamping to the page-size bounds happens in the paginator.
func NewPage(cursor string, pageSize int, direction string) (Page, error) {
	if direction == "" {
		direction = PageNext
	}
	if direction != PageNext && direction != PagePrev {
		return Page{}, fmt.Errorf("direction must be %q or %q, got %q", PageNext, PagePrev, direction)
	}
	if pageSize < 0 {
		return Page{}, fmt.Errorf("page size must not be negative, got %d", pageSize)
	}
	return Page{cursor: cursor, pageSize: pageSize, direction: direction}, nil
}

// Cursor returns the opaque resume token, empty for the first page.
func (p Page) Cursor() string { return p.cursor }

// PageSize returns the requested page size (0 = engine default).
func (p Page) PageSize() int { return p.pageSize }

// Direction returns "next" or "prev".
func (p Page) Direction() string { return p.direction }

// Request is a validated search request.
type Request struct {
	query          string
	searchFields   []string
	sortField      string
	sortDirection  string
	cursorField    string
	enableFuzzy    bool
	fuzzyThreshold int
	page           *Page
	filters        map[string]string
}

// New validates and normalizes search parameters.
// Defaults: searchFields=[userId], sortField=first search field,
// sortDirection=ASC, cursorField=first search field, fuzzyThreshold=60.
func New(
	query string,
	searchFields []string,
	sortField, sortDirection, cursorField string,
	enableFuzzy bool,
	fuzzyThreshold int,
	page *Page,
	filters map[string]string,
) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(searchFields) == 0 {
		searchFields = []string{DefaultSearchField}
	}
	for _, f := range searchFields {
		if strings.TrimSpace(f) == "" {
			return Request{}, fmt.Errorf("search fields must not be blank")
		}
	}
	if sortField == "" {
		sortField = searchFields[0]
	}
	if sortDirection == "" {
		sortDirection = SortAsc
	}
	sortDirection = strings.ToUpper(sortDirection)
	if sortDirection != SortAsc && sortDirection != SortDesc {
		return Request{}, fmt.Errorf("sort direction must be %q or %q, got %q",
			SortAsc, SortDesc, sortDirection)
	}
	if cursorField == "" {
		cursorField = searchFields[0]
	}
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	if fuzzyThreshold > 100 {
		return Request{}, fmt.Errorf("fuzzy threshold must be between 1 and 100, got %d", fuzzyThreshold)
	}

	return Request{
		query:          query,
		searchFields:   searchFields,
		sortField:      sortField,
		sortDirection:  sortDirection,
		cursorField:    cursorField,
		enableFuzzy:    enableFuzzy,
		fuzzyThreshold: fuzzyThreshold,
		page:           page,
		filters:        filters,
	}, nil
}

// Query returns the raw query string.
func (r *Request) Query() string { return r.query }

// SearchFields returns the fields the query is evaluated against.
func (r *Request) SearchFields() []string { return r.searchFields }

// PrimaryField returns the primary identifier field (first search field).
func (r *Request) PrimaryField() string { return r.searchFields[0] }

// SortField returns the field results are ordered by for pagination.
func (r *Request) SortField() string { return r.sortField }

// SortDirection returns ASC or DESC.
func (r *Request) SortDirection() string { return r.sortDirection }

// CursorField returns the field cursors anchor on.
func (r *Request) CursorField() string { return r.cursorField }

// FuzzyEnabled reports whether fuzzy augmentation runs.
func (r *Request) FuzzyEnabled() bool { return r.enableFuzzy }

// FuzzyThreshold returns the minimum similarity (0-100) for fuzzy matches.
func (r *Request) FuzzyThreshold() int { return r.fuzzyThreshold }

// Page returns pagination parameters, nil when pagination is not requested.
func (r *Request) Page() *Page { return r.page }

// Filters returns the equality pre-filters applied before AST evaluation.
func (r *Request) Filters() map[string]string { return r.filters }

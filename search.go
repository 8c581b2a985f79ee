package findex

import (
	"context"

	"github.com/voca9204/findex/internal/domain/search/request"
	searchuc "github.com/voca9204/findex/internal/usecase/search"
)

// Sort directions.
const (
	Asc  = request.SortAsc
	Desc = request.SortDesc
)

// Page directions.
const (
	Next = request.PageNext
	Prev = request.PagePrev
)

// Hit is one scored record.
type Hit struct {
	Record     Record
	Score      float64
	FuzzyScore int // best fuzzy similarity 0-100, -1 when fuzzy was off
	Breakdown  []Factor
}

// SearchResult is the engine response.
type SearchResult struct {
	Hits       []Hit
	TotalCount int
	Page       *PageInfo
	Metadata   Metadata
}

// SearchBuilder is a fluent builder for one search over a dataset.
type SearchBuilder struct {
	c       *Client
	dataset []Record

	query          string
	fields         []string
	sortField      string
	sortDirection  string
	cursorField    string
	fuzzy          bool
	fuzzyThreshold int
	filters        map[string]string

	paged     bool
	cursor    string
	pageSize  int
	direction string
}

// Search starts a query over the given dataset.
func (c *Client) Search(dataset []Record) *SearchBuilder {
	return &SearchBuilder{c: c, dataset: dataset}
}

// Query sets the query string ("john* AND status:active").
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.query = q
	return b
}

// Fields sets the record fields free-text terms match against. The first
// field is the primary identifier used by scoring and suggestions.
func (b *SearchBuilder) Fields(fields ...string) *SearchBuilder {
	b.fields = fields
	return b
}

// SortBy sets the sort field and direction (Asc or Desc).
func (b *SearchBuilder) SortBy(field, direction string) *SearchBuilder {
	b.sortField = field
	b.sortDirection = direction
	return b
}

// CursorField sets the unique field cursors point at. Defaults to the
// first search field.
func (b *SearchBuilder) CursorField(field string) *SearchBuilder {
	b.cursorField = field
	return b
}

// Fuzzy enables typo-tolerant matching with a minimum similarity (0 keeps
// the configured threshold).
func (b *SearchBuilder) Fuzzy(threshold int) *SearchBuilder {
	b.fuzzy = true
	b.fuzzyThreshold = threshold
	return b
}

// Where adds an exact equality filter applied before the query tree.
func (b *SearchBuilder) Where(field, value string) *SearchBuilder {
	if b.filters == nil {
		b.filters = make(map[string]string)
	}
	b.filters[field] = value
	return b
}

// PageSize requests pagination with the given page size.
func (b *SearchBuilder) PageSize(n int) *SearchBuilder {
	b.paged = true
	b.pageSize = n
	return b
}

// After continues forward from a cursor returned by a previous page.
func (b *SearchBuilder) After(cursor string) *SearchBuilder {
	b.paged = true
	b.cursor = cursor
	b.direction = Next
	return b
}

// Before pages backward from a cursor returned by a previous page.
func (b *SearchBuilder) Before(cursor string) *SearchBuilder {
	b.paged = true
	b.cursor = cursor
	b.direction = Prev
	return b
}

// Do executes the search.
func (b *SearchBuilder) Do(ctx context.Context) (*SearchResult, error) {
	var page *request.Page
	if b.paged {
		p, err := request.NewPage(b.cursor, b.pageSize, b.direction)
		if err != nil {
			return nil, err
		}
		page = &p
	}

	req, err := request.New(
		b.query, b.fields,
		b.sortField, b.sortDirection, b.cursorField,
		b.fuzzy, b.fuzzyThreshold,
		page, b.filters,
	)
	if err != nil {
		return nil, err
	}

	res, err := b.c.engine.Search(ctx, &req, b.dataset)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, len(res.Data))
	for i := range res.Data {
		sc := &res.Data[i]
		hits[i] = Hit{
			Record:     sc.Record(),
			Score:      sc.Score(),
			FuzzyScore: sc.FuzzyScore(),
			Breakdown:  sc.Breakdown(),
		}
	}

	return &SearchResult{
		Hits:       hits,
		TotalCount: res.TotalCount,
		Page:       res.Pagination,
		Metadata:   res.Metadata,
	}, nil
}

// Suggest proposes typo-tolerant completions for a partial query from the
// distinct values of field across the dataset.
func (c *Client) Suggest(partial string, dataset []Record, field string, limit int) []Suggestion {
	return c.engine.Suggestions(partial, dataset, searchuc.SuggestOptions{
		Field:          field,
		MaxSuggestions: limit,
	})
}

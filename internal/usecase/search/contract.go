package search

import (
	"github.com/voca9204/findex/internal/domain/record"
	"github.com/voca9204/findex/internal/domain/search/request"
	"github.com/voca9204/findex/internal/domain/search/result"
	"github.com/voca9204/findex/internal/usecase/fuzzy"
	"github.com/voca9204/findex/internal/usecase/paginate"
	"github.com/voca9204/findex/internal/usecase/parse"
	"github.com/voca9204/findex/internal/usecase/score"
)

// QueryParser parses a query string into a tree.
type QueryParser interface {
	Parse(query string) (*parse.ParsedQuery, error)
}

// Matcher finds and scores approximate string matches.
type Matcher interface {
	Similarity(a, b string) int
	FindMatches(query string, candidates []string, opts fuzzy.Options) []fuzzy.Match
}

// Scorer assigns relevance scores to candidate records.
type Scorer interface {
	ScoreResults(
		terms []string,
		recs []record.Record,
		fuzzy []int,
		opts score.Options,
	) []result.Scored
}

// Pager slices sorted result sets into cursor-addressed pages.
type Pager interface {
	Paginate(
		results []result.Scored, page request.Page,
		sortField, sortDirection, cursorField string,
	) ([]result.Scored, result.PageInfo)
	ValidateCursor(token string, results []result.Scored, cursorField string) paginate.Validation
}

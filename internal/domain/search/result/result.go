// Package result defines scored records, pages, and search metadata.
package result

import (
	"time"

	"github.com/voca9204/findex/internal/domain/record"
)

// Factor is one relevance component of a scored record.
type Factor struct {
	Name     string  `json:"name"`
	Raw      float64 `json:"raw"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

// Scored wraps a candidate record with its relevance score. The original
// record is embedded untouched; score fields are explicit, never merged
// into the record map.
type Scored struct {
	rec       record.Record
	score     float64
	breakdown []Factor
	fuzzy     int // best fuzzy similarity 0-100, -1 when fuzzy did not run
}

// New creates a scored record. fuzzy is the best fuzzy similarity for the
// record, or -1 when fuzzy augmentation did not run.
func New(rec record.Record, score float64, breakdown []Factor, fuzzy int) Scored {
	return Scored{rec: rec, score: score, breakdown: breakdown, fuzzy: fuzzy}
}

// Record returns the original candidate record.
func (s *Scored) Record() record.Record { return s.rec }

// Score returns the relevance score in [0, maxScore].
func (s *Scored) Score() float64 { return s.score }

// Breakdown returns per-factor contributions, nil unless requested.
func (s *Scored) Breakdown() []Factor { return s.breakdown }

// FuzzyScore returns the best fuzzy similarity (0-100), -1 if fuzzy was off.
func (s *Scored) FuzzyScore() int { return s.fuzzy }

// WithScore returns a copy with a replaced score (used by normalization).
func (s Scored) WithScore(score float64) Scored {
	s.score = score
	return s
}

// PageInfo describes one returned page. Created per page, never persisted.
type PageInfo struct {
	PageSize      int    `json:"pageSize"`
	HasNext       bool   `json:"hasNext"`
	HasPrev       bool   `json:"hasPrev"`
	NextCursor    string `json:"nextCursor,omitempty"`
	PrevCursor    string `json:"prevCursor,omitempty"`
	StartIndex    int    `json:"startIndex"`
	EndIndex      int    `json:"endIndex"`
	SortField     string `json:"sortField"`
	SortDirection string `json:"sortDirection"`
}

// Metadata reports per-search telemetry attached to every response.
type Metadata struct {
	SearchID        string        `json:"searchId"`
	ResponseTime    time.Duration `json:"responseTime"`
	FromCache       bool          `json:"fromCache"`
	Timestamp       time.Time     `json:"timestamp"`
	QueryComplexity float64       `json:"queryComplexity"`
	TermCount       int           `json:"termCount"`
	EngineVersion   string        `json:"engineVersion"`
}

// SearchResult is the full engine response: scored data, optional pagination,
// and telemetry.
type SearchResult struct {
	Data       []Scored
	TotalCount int
	Pagination *PageInfo
	Metadata   Metadata
}

// Suggestion is one typo-tolerant completion for a partial query.
type Suggestion struct {
	Suggestion string `json:"suggestion"`
	Similarity int    `json:"similarity"`
}

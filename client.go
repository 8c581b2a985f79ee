// Package findex is an embeddable in-memory search engine: a boolean query
// language, typo-tolerant matching, multi-factor relevance scoring, and
// cursor pagination over plain record maps.
package findex

import (
	"time"

	"github.com/voca9204/findex/internal/domain/record"
	"github.com/voca9204/findex/internal/domain/search/result"
	"github.com/voca9204/findex/internal/usecase/fuzzy"
	"github.com/voca9204/findex/internal/usecase/paginate"
	"github.com/voca9204/findex/internal/usecase/parse"
	"github.com/voca9204/findex/internal/usecase/score"
	searchuc "github.com/voca9204/findex/internal/usecase/search"
)

// Record is one searchable document: arbitrary JSON-style fields, looked up
// by dot paths.
type Record = record.Record

// Weights are the relevance factor weights.
type Weights = score.Weights

// Factor is one relevance component of a hit's score breakdown.
type Factor = result.Factor

// PageInfo describes one returned page.
type PageInfo = result.PageInfo

// Metadata is per-search telemetry.
type Metadata = result.Metadata

// Suggestion is one typo-tolerant completion.
type Suggestion = result.Suggestion

type clientConfig struct {
	minTermLength   int
	maxTerms        int
	defaultOperator string

	fuzzyThreshold   int
	fuzzyMaxDistance int
	fuzzyMinLength   int

	weights     Weights
	scoreFields score.Fields

	defaultPageSize int
	maxPageSize     int

	maxQueryLength int
	maxDatasetSize int
	maxResults     int

	normalizeScores bool
	withBreakdown   bool

	cacheSize int
	cacheTTL  time.Duration
}

// Option configures a Client.
type Option func(*clientConfig)

// WithTermLimits bounds parsed queries: minimum term length and maximum
// term count.
func WithTermLimits(minLength, maxTerms int) Option {
	return func(c *clientConfig) {
		c.minTermLength = minLength
		c.maxTerms = maxTerms
	}
}

// WithDefaultOperator sets the implicit operator joining adjacent terms
// ("AND" or "OR").
func WithDefaultOperator(op string) Option {
	return func(c *clientConfig) { c.defaultOperator = op }
}

// WithFuzzyTuning sets fuzzy matching acceptance: minimum similarity (0-100),
// maximum edit distance, and minimum candidate length.
func WithFuzzyTuning(threshold, maxDistance, minLength int) Option {
	return func(c *clientConfig) {
		c.fuzzyThreshold = threshold
		c.fuzzyMaxDistance = maxDistance
		c.fuzzyMinLength = minLength
	}
}

// WithWeights overrides relevance factor weights. Zero values keep defaults.
func WithWeights(w Weights) Option {
	return func(c *clientConfig) { c.weights = w }
}

// WithPageSizes sets the default and maximum page size.
func WithPageSizes(def, max int) Option {
	return func(c *clientConfig) {
		c.defaultPageSize = def
		c.maxPageSize = max
	}
}

// WithLimits sets hard per-search bounds: query length, dataset size,
// and results kept after scoring. Zero keeps the default for that bound.
func WithLimits(maxQueryLength, maxDatasetSize, maxResults int) Option {
	return func(c *clientConfig) {
		c.maxQueryLength = maxQueryLength
		c.maxDatasetSize = maxDatasetSize
		c.maxResults = maxResults
	}
}

// WithNormalization rescales scores to [0,100] across each result set.
func WithNormalization() Option {
	return func(c *clientConfig) { c.normalizeScores = true }
}

// WithBreakdown attaches per-factor score contributions to every hit.
func WithBreakdown() Option {
	return func(c *clientConfig) { c.withBreakdown = true }
}

// WithResultCache sets the scored-result cache capacity and TTL. A zero
// size disables caching.
func WithResultCache(size int, ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.cacheSize = size
		c.cacheTTL = ttl
	}
}

// Client is the findex entry point. Safe for concurrent use.
type Client struct {
	engine *searchuc.Service
}

// New creates a findex engine with the given options.
func New(opts ...Option) *Client {
	cfg := &clientConfig{
		minTermLength:    2,
		maxTerms:         10,
		defaultOperator:  "AND",
		fuzzyThreshold:   60,
		fuzzyMaxDistance: 3,
		fuzzyMinLength:   2,
		scoreFields:      score.DefaultFields(),
		defaultPageSize:  20,
		maxPageSize:      100,
		maxQueryLength:   1000,
		maxDatasetSize:   100000,
		maxResults:       100,
		cacheSize:        100,
		cacheTTL:         5 * time.Minute,
	}
	for _, o := range opts {
		o(cfg)
	}

	parser := parse.New(cfg.minTermLength, cfg.maxTerms, cfg.defaultOperator)
	matcher := fuzzy.New(cfg.fuzzyThreshold, cfg.fuzzyMaxDistance, cfg.fuzzyMinLength)
	scorer := score.New(cfg.weights, cfg.scoreFields)
	codec := paginate.NewCodec(1000, 5*time.Minute, 5*time.Minute)
	pager := paginate.New(cfg.defaultPageSize, cfg.maxPageSize, codec)

	engine := searchuc.NewService(parser, matcher, scorer, pager, searchuc.Config{
		MaxQueryLength:  cfg.maxQueryLength,
		MaxDatasetSize:  cfg.maxDatasetSize,
		MaxResults:      cfg.maxResults,
		NormalizeScores: cfg.normalizeScores,
		WithBreakdown:   cfg.withBreakdown,
		CacheSize:       cfg.cacheSize,
		CacheTTL:        cfg.cacheTTL,
	})

	return &Client{engine: engine}
}

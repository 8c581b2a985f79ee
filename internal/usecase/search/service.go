// Package search orchestrates the full pipeline: validate, parse, filter,
// fuzzy-augment, score, truncate, paginate.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voca9204/findex/internal/cache"
	"github.com/voca9204/findex/internal/domain"
	"github.com/voca9204/findex/internal/domain/query"
	"github.com/voca9204/findex/internal/domain/record"
	"github.com/voca9204/findex/internal/domain/search/request"
	"github.com/voca9204/findex/internal/domain/search/result"
	"github.com/voca9204/findex/internal/logger"
	"github.com/voca9204/findex/internal/metrics"
	"github.com/voca9204/findex/internal/usecase/fuzzy"
	"github.com/voca9204/findex/internal/usecase/score"
	"github.com/voca9204/findex/internal/version"
)

// Config bounds a single search call.
type Config struct {
	MaxQueryLength  int // characters, inclusive
	MaxDatasetSize  int // records, inclusive
	MaxResults      int // scored results kept before pagination, 0 = unlimited
	NormalizeScores bool
	WithBreakdown   bool
	CacheSize       int           // result cache entries, 0 disables caching
	CacheTTL        time.Duration // result cache entry lifetime
}

// cachedResult is an immutable snapshot of a scored result set. Pagination
// is recomputed per request, so one entry serves every page of the set.
type cachedResult struct {
	scored     []result.Scored
	termCount  int
	complexity float64
}

// Service is the search engine facade. Safe for concurrent use: the
// pipeline stages hold only configuration and the cache is synchronized.
type Service struct {
	parser  QueryParser
	matcher Matcher
	scorer  Scorer
	pager   Pager
	cfg     Config
	results *cache.Cache[[32]byte, *cachedResult]
	now     func() time.Time
}

// NewService wires the pipeline stages into a search engine.
func NewService(parser QueryParser, matcher Matcher, scorer Scorer, pager Pager, cfg Config) *Service {
	s := &Service{
		parser:  parser,
		matcher: matcher,
		scorer:  scorer,
		pager:   pager,
		cfg:     cfg,
		now:     time.Now,
	}
	if cfg.CacheSize > 0 {
		s.results = cache.New[[32]byte, *cachedResult](cfg.CacheSize, cfg.CacheTTL)
	}
	return s
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search runs the full pipeline over the dataset and returns a scored,
// optionally paginated result. The dataset is read-only; records are never
// mutated. A cached scored set short-circuits everything up to pagination.
func (s *Service) Search(ctx context.Context, req *request.Request, dataset []record.Record) (*result.SearchResult, error) {
	start := s.now()
	log := logger.FromContext(ctx)

	res, err := s.search(ctx, req, dataset, start)

	elapsed := s.now().Sub(start)
	fuzzyLabel := "off"
	if req != nil && req.FuzzyEnabled() {
		fuzzyLabel = "on"
	}
	metrics.SearchDuration.WithLabelValues(fuzzyLabel).Observe(elapsed.Seconds())
	metrics.SearchesTotal.WithLabelValues(statusLabel(err)).Inc()

	if err != nil {
		log.Warn("search failed",
			zap.Error(err),
			zap.Duration("elapsed", elapsed),
		)
		return nil, err
	}

	log.Info("search completed",
		zap.String("searchId", res.Metadata.SearchID),
		zap.Int("totalCount", res.TotalCount),
		zap.Bool("fromCache", res.Metadata.FromCache),
		zap.Duration("elapsed", elapsed),
	)
	return res, nil
}

func (s *Service) search(ctx context.Context, req *request.Request, dataset []record.Record, start time.Time) (*result.SearchResult, error) {
	if req == nil || strings.TrimSpace(req.Query()) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if s.cfg.MaxQueryLength > 0 && len([]rune(req.Query())) > s.cfg.MaxQueryLength {
		return nil, domain.ErrQueryTooLong
	}
	if s.cfg.MaxDatasetSize > 0 && len(dataset) > s.cfg.MaxDatasetSize {
		return nil, domain.ErrDatasetTooLarge
	}
	metrics.DatasetRecords.Observe(float64(len(dataset)))

	key := cacheKey(req)
	if s.results != nil {
		if hit, ok := s.results.Get(key); ok {
			metrics.ResultCacheTotal.WithLabelValues("hit").Inc()
			return s.respond(req, hit, true, start), nil
		}
		metrics.ResultCacheTotal.WithLabelValues("miss").Inc()
	}

	parsed, err := s.parser.Parse(req.Query())
	if err != nil {
		return nil, err
	}
	terms := query.Terms(parsed.Root)

	ev := &evaluator{searchFields: req.SearchFields()}
	if req.FuzzyEnabled() {
		threshold := req.FuzzyThreshold()
		ev.fuzzyMatch = func(value, term string) bool {
			hits := s.matcher.FindMatches(term, []string{value}, fuzzy.Options{
				Threshold: threshold,
				Limit:     1,
			})
			return len(hits) > 0
		}
	}

	matched := make([]record.Record, 0, len(dataset))
	for _, rec := range dataset {
		if !passesFilters(rec, req.Filters()) {
			continue
		}
		if ev.eval(parsed.Root, rec) {
			matched = append(matched, rec)
		}
	}

	fuzzyScores := s.fuzzyScores(req, terms, matched)

	scored := s.scorer.ScoreResults(terms, matched, fuzzyScores, score.Options{
		PrimaryField:    req.PrimaryField(),
		NormalizeScores: s.cfg.NormalizeScores,
		WithBreakdown:   s.cfg.WithBreakdown,
	})
	if s.cfg.MaxResults > 0 && len(scored) > s.cfg.MaxResults {
		scored = scored[:s.cfg.MaxResults]
	}

	entry := &cachedResult{
		scored:     scored,
		termCount:  parsed.TermCount,
		complexity: parsed.Complexity,
	}
	if s.results != nil {
		s.results.Set(key, entry)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return s.respond(req, entry, false, start), nil
}

// respond paginates the scored set for this request and attaches metadata.
// Cached and fresh sets take the same path.
func (s *Service) respond(req *request.Request, entry *cachedResult, fromCache bool, start time.Time) *result.SearchResult {
	res := &result.SearchResult{
		Data:       entry.scored,
		TotalCount: len(entry.scored),
	}
	if page := req.Page(); page != nil {
		data, info := s.pager.Paginate(
			entry.scored, *page,
			req.SortField(), req.SortDirection(), req.CursorField(),
		)
		res.Data = data
		res.Pagination = &info
	}
	now := s.now()
	res.Metadata = result.Metadata{
		SearchID:        uuid.NewString(),
		ResponseTime:    now.Sub(start),
		FromCache:       fromCache,
		Timestamp:       now,
		QueryComplexity: entry.complexity,
		TermCount:       entry.termCount,
		EngineVersion:   version.Engine,
	}
	return res
}

// fuzzyScores computes, per matched record, the best similarity between any
// query term and the record's primary field. -1 throughout when fuzzy is
// off, and per record when it lacks the primary field.
func (s *Service) fuzzyScores(req *request.Request, terms []string, matched []record.Record) []int {
	scores := make([]int, len(matched))
	if !req.FuzzyEnabled() || len(terms) == 0 {
		for i := range scores {
			scores[i] = -1
		}
		return scores
	}
	primary := req.PrimaryField()
	for i, rec := range matched {
		value, ok := rec.String(primary)
		if !ok {
			// No primary value to compare: the comparison did not run.
			scores[i] = -1
			continue
		}
		best := 0
		for _, term := range terms {
			if sim := s.matcher.Similarity(value, term); sim > best {
				best = sim
			}
		}
		scores[i] = best
	}
	return scores
}

// passesFilters applies exact equality filters (case-insensitive) before the
// query tree runs. A record missing a filtered field never passes.
func passesFilters(rec record.Record, filters map[string]string) bool {
	for field, want := range filters {
		value, ok := rec.String(field)
		if !ok || !strings.EqualFold(value, want) {
			return false
		}
	}
	return true
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsValidationError(err):
		return "validation_error"
	case domain.IsParseError(err):
		return "parse_error"
	default:
		return "error"
	}
}

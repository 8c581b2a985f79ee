package search

import (
	"sort"
	"strings"

	"github.com/voca9204/findex/internal/domain/record"
	"github.com/voca9204/findex/internal/domain/search/result"
	"github.com/voca9204/findex/internal/usecase/fuzzy"
)

// SuggestOptions bound a suggestion lookup.
type SuggestOptions struct {
	Field          string // record field to draw candidates from
	MaxSuggestions int    // 0 falls back to 5
	MinSimilarity  int    // 0 falls back to the matcher threshold
}

const defaultMaxSuggestions = 5

// Suggestions proposes typo-tolerant completions for a partial query by
// fuzzy-matching it against the distinct values of one record field.
func (s *Service) Suggestions(partial string, dataset []record.Record, opts SuggestOptions) []result.Suggestion {
	partial = strings.TrimSpace(partial)
	if partial == "" || len(dataset) == 0 {
		return nil
	}

	limit := opts.MaxSuggestions
	if limit <= 0 {
		limit = defaultMaxSuggestions
	}

	candidates := distinctValues(dataset, opts.Field)
	matches := s.matcher.FindMatches(partial, candidates, fuzzy.Options{
		Threshold: opts.MinSimilarity,
		Limit:     limit,
	})

	suggestions := make([]result.Suggestion, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, result.Suggestion{
			Suggestion: m.Text,
			Similarity: m.Similarity,
		})
	}
	return suggestions
}

// distinctValues collects the unique string values of field across the
// dataset, sorted so equal-similarity matches rank deterministically.
func distinctValues(dataset []record.Record, field string) []string {
	seen := make(map[string]struct{}, len(dataset))
	values := make([]string, 0, len(dataset))
	for _, rec := range dataset {
		v, ok := rec.String(field)
		if !ok || v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

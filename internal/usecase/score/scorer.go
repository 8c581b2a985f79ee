// Package score implements the multi-factor relevance scorer. Each factor is
// independently bounded, weighted by configuration, and reported in an
// auditable per-record breakdown.
package score

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/voca9204/findex/internal/domain/record"
	"github.com/voca9204/findex/internal/domain/search/result"
)

// Factor bounds. Raw factor scores are normalized against these before the
// configured weight is applied, so retargeting a weight never changes the
// factor's internal shape.
const (
	textMatchBound  = 20.0
	activityBound   = 25.0
	recencyBound    = 15.0
	fieldMatchBound = 15.0
	behaviorBound   = 15.0

	// Per-term text match points.
	pointsExact        = 10.0
	pointsPrefix       = 7.0
	pointsWordBoundary = 6.0
	pointsSubstring    = 5.0

	// Per-term identifier field match points.
	pointsFieldMatch = 5.0
)

// Weights are the factor weights. Callers retarget them per query intent
// (e.g., boosting Activity for an "active users" search) without touching
// the algorithm. Zero values fall back to the defaults.
type Weights struct {
	TextMatch  float64
	FuzzyMatch float64
	Activity   float64
	Recency    float64
	FieldMatch float64
	Behavior   float64
	MaxScore   float64
}

// DefaultWeights mirror the factor bounds: a weight equal to the bound keeps
// raw and weighted contributions identical.
func DefaultWeights() Weights {
	return Weights{
		TextMatch:  textMatchBound,
		FuzzyMatch: 15,
		Activity:   activityBound,
		Recency:    recencyBound,
		FieldMatch: fieldMatchBound,
		Behavior:   behaviorBound,
		MaxScore:   100,
	}
}

// Fields are the record paths each signal reads from. All are optional:
// an absent field zeroes its factor, never fails the search.
type Fields struct {
	ActivityDays string // count of active days
	Volume       string // monetary volume
	Status       string // categorical activity state
	LastEvent    string // timestamp of the last relevant event
	Frequency    string // visit/session count
	Retention    string // retention rate, 0-1 or 0-100
}

// DefaultFields returns the conventional record layout.
func DefaultFields() Fields {
	return Fields{
		ActivityDays: "activityDays",
		Volume:       "totalVolume",
		Status:       "status",
		LastEvent:    "lastActivityAt",
		Frequency:    "sessionCount",
		Retention:    "retentionRate",
	}
}

// Options configure one scoring pass.
type Options struct {
	PrimaryField    string // identifier field text factors match against
	NormalizeScores bool   // min-max rescale to [0,100] across the set
	WithBreakdown   bool   // attach per-factor contributions
}

// Scorer assigns composite relevance scores. Safe for concurrent use; it
// holds only configuration.
type Scorer struct {
	weights Weights
	fields  Fields
	now     func() time.Time
}

// New creates a scorer. Zero-valued weights fall back to the defaults.
func New(weights Weights, fields Fields) *Scorer {
	def := DefaultWeights()
	if weights.TextMatch <= 0 {
		weights.TextMatch = def.TextMatch
	}
	if weights.FuzzyMatch <= 0 {
		weights.FuzzyMatch = def.FuzzyMatch
	}
	if weights.Activity <= 0 {
		weights.Activity = def.Activity
	}
	if weights.Recency <= 0 {
		weights.Recency = def.Recency
	}
	if weights.FieldMatch <= 0 {
		weights.FieldMatch = def.FieldMatch
	}
	if weights.Behavior <= 0 {
		weights.Behavior = def.Behavior
	}
	if weights.MaxScore <= 0 {
		weights.MaxScore = def.MaxScore
	}
	if fields == (Fields{}) {
		fields = DefaultFields()
	}
	return &Scorer{weights: weights, fields: fields, now: time.Now}
}

// WithClock replaces the recency clock (tests).
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// ScoreResults scores every record against the query terms and returns them
// sorted by score descending. fuzzy[i] is the best fuzzy similarity for
// recs[i], or -1 when fuzzy augmentation did not run.
func (s *Scorer) ScoreResults(
	terms []string, recs []record.Record, fuzzy []int, opts Options,
) []result.Scored {
	scored := make([]result.Scored, len(recs))
	for i, rec := range recs {
		f := -1
		if i < len(fuzzy) {
			f = fuzzy[i]
		}
		scored[i] = s.scoreRecord(rec, terms, f, opts)
	}

	if opts.NormalizeScores {
		scored = normalize(scored)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score() > scored[j].Score()
	})
	return scored
}

func (s *Scorer) scoreRecord(
	rec record.Record, terms []string, fuzzyScore int, opts Options,
) result.Scored {
	identifier, _ := rec.String(opts.PrimaryField)

	factors := []result.Factor{
		weigh("text_match", s.textMatchScore(identifier, terms), textMatchBound, s.weights.TextMatch),
		weigh("activity", s.activityScore(rec), activityBound, s.weights.Activity),
		weigh("recency", s.recencyScore(rec), recencyBound, s.weights.Recency),
		weigh("field_match", s.fieldMatchScore(identifier, terms), fieldMatchBound, s.weights.FieldMatch),
		weigh("behavior", s.behaviorScore(rec), behaviorBound, s.weights.Behavior),
	}
	if fuzzyScore >= 0 {
		factors = append(factors,
			weigh("fuzzy_match", float64(fuzzyScore), 100, s.weights.FuzzyMatch))
	}

	total := 0.0
	for _, f := range factors {
		total += f.Weighted
	}
	if total < 0 {
		total = 0
	}
	if total > s.weights.MaxScore {
		total = s.weights.MaxScore
	}

	var breakdown []result.Factor
	if opts.WithBreakdown {
		breakdown = factors
	}
	return result.New(rec, round2(total), breakdown, fuzzyScore)
}

// weigh normalizes a raw factor score against its bound and applies the
// configured weight.
func weigh(name string, raw, bound, weight float64) result.Factor {
	if raw < 0 {
		raw = 0
	}
	if raw > bound {
		raw = bound
	}
	return result.Factor{
		Name:     name,
		Raw:      round2(raw),
		Weight:   weight,
		Weighted: round2(raw / bound * weight),
	}
}

// textMatchScore sums per-term points against the identifier field:
// exact 10, prefix 7, word-boundary 6, substring 5. Bounded at 20.
func (s *Scorer) textMatchScore(identifier string, terms []string) float64 {
	if identifier == "" {
		return 0
	}
	id := strings.ToLower(identifier)

	total := 0.0
	for _, term := range terms {
		t := strings.ToLower(strings.ReplaceAll(term, "*", ""))
		if t == "" {
			continue
		}
		switch {
		case id == t:
			total += pointsExact
		case strings.HasPrefix(id, t):
			total += pointsPrefix
		case matchesWordBoundary(id, t):
			total += pointsWordBoundary
		case strings.Contains(id, t):
			total += pointsSubstring
		}
	}
	return total
}

// activityScore blends log-scaled activity days, log-scaled monetary volume,
// and a categorical status bonus. Bounded at 25.
func (s *Scorer) activityScore(rec record.Record) float64 {
	total := 0.0

	if days, ok := rec.Float(s.fields.ActivityDays); ok && days > 0 {
		total += math.Min(10, math.Log10(days+1)*5)
	}
	if volume, ok := rec.Float(s.fields.Volume); ok && volume > 0 {
		total += math.Min(10, math.Log10(volume+1)*2.5)
	}
	if status, ok := rec.String(s.fields.Status); ok {
		switch strings.ToLower(status) {
		case "active":
			total += 5
		case "new", "pending":
			total += 3
		case "dormant":
			total += 1
		}
	}
	return total
}

// recencyScore is a step function of days since the last relevant event:
// <=7d 15, <=30d 10, <=90d 5, <=180d 2, else 0. A timestamp slightly in the
// future (clock skew between the record producer and this process) counts
// as current.
func (s *Scorer) recencyScore(rec record.Record) float64 {
	last, ok := rec.Time(s.fields.LastEvent)
	if !ok {
		return 0
	}
	days := s.now().Sub(last).Hours() / 24
	switch {
	case days <= 7:
		return 15
	case days <= 30:
		return 10
	case days <= 90:
		return 5
	case days <= 180:
		return 2
	default:
		return 0
	}
}

// fieldMatchScore awards the identifier-field weight per matching term.
// Bounded at 15.
func (s *Scorer) fieldMatchScore(identifier string, terms []string) float64 {
	if identifier == "" {
		return 0
	}
	id := strings.ToLower(identifier)

	total := 0.0
	for _, term := range terms {
		t := strings.ToLower(strings.ReplaceAll(term, "*", ""))
		if t != "" && strings.Contains(id, t) {
			total += pointsFieldMatch
		}
	}
	return total
}

// behaviorScore blends normalized volume, frequency, and retention-rate
// sub-scores. Bounded at 15.
func (s *Scorer) behaviorScore(rec record.Record) float64 {
	volume := 0.0
	if v, ok := rec.Float(s.fields.Volume); ok && v > 0 {
		volume = math.Min(v/10000, 1)
	}
	frequency := 0.0
	if v, ok := rec.Float(s.fields.Frequency); ok && v > 0 {
		frequency = math.Min(v/100, 1)
	}
	retention := 0.0
	if v, ok := rec.Float(s.fields.Retention); ok && v > 0 {
		if v > 1 { // tolerate percentage form
			v /= 100
		}
		retention = math.Min(v, 1)
	}

	return (0.4*volume + 0.3*frequency + 0.3*retention) * behaviorBound
}

// normalize rescales scores to [0,100] via min-max. A degenerate set where
// every score is equal maps all records to 50.
func normalize(scored []result.Scored) []result.Scored {
	if len(scored) == 0 {
		return scored
	}

	lo, hi := scored[0].Score(), scored[0].Score()
	for _, s := range scored[1:] {
		if s.Score() < lo {
			lo = s.Score()
		}
		if s.Score() > hi {
			hi = s.Score()
		}
	}

	out := make([]result.Scored, len(scored))
	for i, s := range scored {
		if hi == lo {
			out[i] = s.WithScore(50)
			continue
		}
		out[i] = s.WithScore(round2((s.Score() - lo) / (hi - lo) * 100))
	}
	return out
}

// matchesWordBoundary reports whether term starts at a word boundary inside
// id (but not at position 0, which is the prefix case).
func matchesWordBoundary(id, term string) bool {
	idx := strings.Index(id, term)
	for idx > 0 {
		prev := rune(id[idx-1])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		next := strings.Index(id[idx+1:], term)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package fuzzy implements typo-tolerant string matching: Levenshtein edit
// distance, a 0-100 similarity scale, candidate ranking, and bounded typo
// expansion.
package fuzzy

import (
	"sort"
	"strings"
)

// Defaults for match filtering.
const (
	DefaultThreshold   = 60
	DefaultMaxDistance = 3
	DefaultMinLength   = 2

	// maxTypoVariants bounds the typo expansion helper.
	maxTypoVariants = 20
)

// Normalizer prepares a string for comparison. The default folds case;
// locale-specific normalization (diacritics, script decomposition) plugs in
// here.
type Normalizer func(string) string

// Match is one scored candidate. Ephemeral: produced per call, not retained.
type Match struct {
	Text       string `json:"text"`
	Similarity int    `json:"similarity"` // 0-100
	Distance   int    `json:"distance"`
}

// Options filter and cap FindMatches results. Zero values fall back to the
// matcher configuration.
type Options struct {
	Threshold int // minimum similarity 0-100
	Limit     int // maximum matches returned, 0 = unlimited
}

// Matcher computes edit distances and ranks approximate matches. Safe for
// concurrent use; it holds only configuration.
type Matcher struct {
	threshold   int
	maxDistance int
	minLength   int
	normalize   Normalizer
}

// New creates a matcher. Non-positive settings fall back to defaults.
func New(threshold, maxDistance, minLength int) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Matcher{
		threshold:   threshold,
		maxDistance: maxDistance,
		minLength:   minLength,
		normalize:   strings.ToLower,
	}
}

// WithNormalizer replaces the string normalization hook.
func (m *Matcher) WithNormalizer(n Normalizer) *Matcher {
	if n != nil {
		m.normalize = n
	}
	return m
}

// Distance returns the Levenshtein edit distance between the normalized
// forms of a and b. Never fails: empty inputs degrade to the length of the
// other string.
func (m *Matcher) Distance(a, b string) int {
	return levenshtein([]rune(m.normalize(a)), []rune(m.normalize(b)))
}

// Similarity returns 0-100: identical normalized strings score 100, an
// empty side scores 0 unless both are empty (100).
func (m *Matcher) Similarity(a, b string) int {
	ra, rb := []rune(m.normalize(a)), []rune(m.normalize(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	d := levenshtein(ra, rb)
	sim := int(float64(longest-d)/float64(longest)*100 + 0.5)
	if sim < 0 {
		return 0
	}
	return sim
}

// FindMatches ranks candidates against the query: similarity descending,
// then distance ascending. A candidate is kept only when its similarity
// reaches the threshold, its distance stays within the matcher bound, and
// its length reaches the minimum.
//
// Acceptance similarity treats an adjacent transposition as a single edit
// ("jhon" is one typo away from "john", not two) and, for candidates longer
// than the query, also considers the leading window of the candidate so a
// typo'd prefix still surfaces longer identifiers. The reported Distance is
// always the plain Levenshtein metric.
func (m *Matcher) FindMatches(query string, candidates []string, opts Options) []Match {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = m.threshold
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if len([]rune(c)) < m.minLength {
			continue
		}
		d := m.Distance(query, c)
		sim := m.matchSimilarity(query, c)
		if sim < threshold || d > m.maxDistance {
			continue
		}
		matches = append(matches, Match{Text: c, Similarity: sim, Distance: d})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Distance < matches[j].Distance
	})

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches
}

// TypoVariants generates up to 20 single-edit variants of the query:
// character deletions, adjacent transpositions, and keyboard-adjacency
// substitutions. This is an optimization path for pre-expanding a query
// before exact matching; FindMatches stays the canonical API.
func (m *Matcher) TypoVariants(q string) []string {
	runes := []rune(m.normalize(q))
	if len(runes) < 2 {
		return nil
	}

	seen := map[string]bool{string(runes): true}
	var variants []string
	add := func(v string) bool {
		if v == "" || seen[v] {
			return len(variants) < maxTypoVariants
		}
		seen[v] = true
		variants = append(variants, v)
		return len(variants) < maxTypoVariants
	}

	// Deletions.
	for i := range runes {
		v := string(runes[:i]) + string(runes[i+1:])
		if !add(v) {
			return variants
		}
	}

	// Adjacent transpositions.
	for i := 0; i < len(runes)-1; i++ {
		swapped := make([]rune, len(runes))
		copy(swapped, runes)
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
		if !add(string(swapped)) {
			return variants
		}
	}

	// Keyboard-adjacency substitutions.
	for i, r := range runes {
		for _, adj := range keyboardAdjacent[r] {
			sub := make([]rune, len(runes))
			copy(sub, runes)
			sub[i] = adj
			if !add(string(sub)) {
				return variants
			}
		}
	}

	return variants
}

// matchSimilarity scores a candidate for acceptance: transposition-aware
// distance over the full strings, or over the candidate's leading window
// when the candidate is longer than the query, whichever is better.
func (m *Matcher) matchSimilarity(query, candidate string) int {
	rq := []rune(m.normalize(query))
	rc := []rune(m.normalize(candidate))
	if len(rq) == 0 && len(rc) == 0 {
		return 100
	}
	if len(rq) == 0 || len(rc) == 0 {
		return 0
	}

	best := similarityFor(osaDistance(rq, rc), len(rq), len(rc))
	if len(rc) > len(rq) {
		window := rc[:len(rq)]
		if s := similarityFor(osaDistance(rq, window), len(rq), len(window)); s > best {
			best = s
		}
	}
	return best
}

func similarityFor(distance, lenA, lenB int) int {
	longest := lenA
	if lenB > longest {
		longest = lenB
	}
	sim := int(float64(longest-distance)/float64(longest)*100 + 0.5)
	if sim < 0 {
		return 0
	}
	return sim
}

// levenshtein is the classic two-row dynamic program over runes.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = minOf(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// osaDistance is the optimal-string-alignment variant: like levenshtein but
// an adjacent transposition counts as one edit. Used for match acceptance
// only; the exported Distance stays a true metric.
func osaDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	rows := make([][]int, len(a)+1)
	for i := range rows {
		rows[i] = make([]int, len(b)+1)
		rows[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		rows[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			rows[i][j] = minOf(
				rows[i-1][j]+1,
				rows[i][j-1]+1,
				rows[i-1][j-1]+cost,
			)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if t := rows[i-2][j-2] + 1; t < rows[i][j] {
					rows[i][j] = t
				}
			}
		}
	}
	return rows[len(a)][len(b)]
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// keyboardAdjacent maps each key to its QWERTY row neighbors.
var keyboardAdjacent = map[rune][]rune{
	'q': {'w'}, 'w': {'q', 'e'}, 'e': {'w', 'r'}, 'r': {'e', 't'},
	't': {'r', 'y'}, 'y': {'t', 'u'}, 'u': {'y', 'i'}, 'i': {'u', 'o'},
	'o': {'i', 'p'}, 'p': {'o'},
	'a': {'s'}, 's': {'a', 'd'}, 'd': {'s', 'f'}, 'f': {'d', 'g'},
	'g': {'f', 'h'}, 'h': {'g', 'j'}, 'j': {'h', 'k'}, 'k': {'j', 'l'},
	'l': {'k'},
	'z': {'x'}, 'x': {'z', 'c'}, 'c': {'x', 'v'}, 'v': {'c', 'b'},
	'b': {'v', 'n'}, 'n': {'b', 'm'}, 'm': {'n'},
}

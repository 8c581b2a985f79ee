package fuzzy

import (
	"testing"
)

func TestDistance(t *testing.T) {
	m := New(60, 3, 2)

	tests := []struct {
		a, b string
		want int
	}{
		{"john", "john", 0},
		{"john", "jhon", 2},
		{"kitten", "sitting", 3},
		{"", "john", 4},
		{"john", "", 4},
		{"", "", 0},
		{"JOHN", "john", 0},
	}

	for _, tt := range tests {
		if got := m.Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDistance_MetricProperties(t *testing.T) {
	m := New(60, 3, 2)
	words := []string{"john", "jhon", "johnny", "jane", "doe", ""}

	for _, a := range words {
		if d := m.Distance(a, a); d != 0 {
			t.Errorf("identity: Distance(%q, %q) = %d, want 0", a, a, d)
		}
		for _, b := range words {
			ab, ba := m.Distance(a, b), m.Distance(b, a)
			if ab != ba {
				t.Errorf("symmetry: Distance(%q, %q) = %d, Distance(%q, %q) = %d", a, b, ab, b, a, ba)
			}
			for _, c := range words {
				if ac, bc := m.Distance(a, c), m.Distance(b, c); ac > ab+bc {
					t.Errorf("triangle: d(%q,%q)=%d > d(%q,%q)+d(%q,%q)=%d",
						a, c, ac, a, b, b, c, ab+bc)
				}
			}
		}
	}
}

func TestSimilarity(t *testing.T) {
	m := New(60, 3, 2)

	tests := []struct {
		a, b string
		want int
	}{
		{"john", "john", 100},
		{"JOHN", "john", 100},
		{"john", "jhon", 50},
		{"", "", 100},
		{"john", "", 0},
		{"", "john", 0},
		{"kitten", "sitting", 57},
	}

	for _, tt := range tests {
		if got := m.Similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("Similarity(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFindMatches_TypoFindsNearNames(t *testing.T) {
	m := New(60, 3, 2)

	matches := m.FindMatches("jhon", []string{"john", "johnny", "jane", "jo"}, Options{})

	if len(matches) != 2 {
		t.Fatalf("matches = %+v, want 2 entries", matches)
	}
	if matches[0].Text != "john" {
		t.Errorf("best match = %q, want john", matches[0].Text)
	}
	if matches[1].Text != "johnny" {
		t.Errorf("second match = %q, want johnny", matches[1].Text)
	}
	// Transposition counts as one typo for acceptance, but the reported
	// distance stays the plain metric.
	if matches[0].Distance != 2 {
		t.Errorf("john distance = %d, want 2", matches[0].Distance)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Errorf("matches not sorted by similarity: %+v", matches)
	}
}

func TestFindMatches_FiltersAndCaps(t *testing.T) {
	m := New(60, 3, 2)

	if got := m.FindMatches("john", []string{"j"}, Options{}); len(got) != 0 {
		t.Errorf("short candidate kept: %+v", got)
	}
	if got := m.FindMatches("john", []string{"completely"}, Options{}); len(got) != 0 {
		t.Errorf("distant candidate kept: %+v", got)
	}

	capped := m.FindMatches("john", []string{"john", "johns", "johnn"}, Options{Limit: 1})
	if len(capped) != 1 || capped[0].Text != "john" {
		t.Errorf("capped = %+v, want exactly [john]", capped)
	}
}

func TestFindMatches_ThresholdOverride(t *testing.T) {
	m := New(60, 3, 2)

	// jane sits at similarity 25 against jhon; even threshold 20 keeps it
	// only if distance allows (3 <= maxDistance).
	loose := m.FindMatches("jhon", []string{"jane"}, Options{Threshold: 20})
	if len(loose) != 1 {
		t.Fatalf("loose = %+v, want jane accepted", loose)
	}
	strict := m.FindMatches("jhon", []string{"jane"}, Options{Threshold: 90})
	if len(strict) != 0 {
		t.Errorf("strict = %+v, want empty", strict)
	}
}

func TestTypoVariants(t *testing.T) {
	m := New(60, 3, 2)

	variants := m.TypoVariants("john")
	if len(variants) == 0 || len(variants) > 20 {
		t.Fatalf("variants count = %d, want 1..20", len(variants))
	}

	want := map[string]bool{"jhon": false, "jon": false}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
		if v == "john" {
			t.Errorf("variants contain the original query")
		}
	}
	for v, seen := range want {
		if !seen {
			t.Errorf("variants missing %q: %v", v, variants)
		}
	}
}

func TestTypoVariants_ShortQuery(t *testing.T) {
	m := New(60, 3, 2)
	if got := m.TypoVariants("j"); got != nil {
		t.Errorf("variants for single rune = %v, want nil", got)
	}
}

func TestWithNormalizer(t *testing.T) {
	m := New(60, 3, 2).WithNormalizer(func(s string) string { return s })

	// Identity normalizer keeps case significant.
	if got := m.Distance("JOHN", "john"); got != 4 {
		t.Errorf("Distance with identity normalizer = %d, want 4", got)
	}
}

package parse

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/voca9204/findex/internal/domain"
	"github.com/voca9204/findex/internal/domain/query"
)

func TestParse_SingleTerm(t *testing.T) {
	p := New(2, 10, "AND")

	pq, err := p.Parse("john")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	term, ok := pq.Root.(*query.Term)
	if !ok {
		t.Fatalf("root = %T, want *query.Term", pq.Root)
	}
	if term.Value != "john" || term.Exact || term.Wildcard {
		t.Errorf("term = %+v, want plain john", term)
	}
	if pq.TermCount != 1 {
		t.Errorf("term count = %d, want 1", pq.TermCount)
	}
}

func TestParse_ImplicitOperatorEquivalence(t *testing.T) {
	p := New(2, 10, "AND")

	implicit, err := p.Parse("john doe")
	if err != nil {
		t.Fatalf("implicit: %v", err)
	}
	keyword, err := p.Parse("john AND doe")
	if err != nil {
		t.Fatalf("keyword: %v", err)
	}
	symbol, err := p.Parse("john && doe")
	if err != nil {
		t.Fatalf("symbol: %v", err)
	}

	if !reflect.DeepEqual(implicit.Root, keyword.Root) {
		t.Errorf("implicit tree %+v != keyword tree %+v", implicit.Root, keyword.Root)
	}
	if !reflect.DeepEqual(keyword.Root, symbol.Root) {
		t.Errorf("keyword tree %+v != symbol tree %+v", keyword.Root, symbol.Root)
	}

	bin, ok := implicit.Root.(*query.Binary)
	if !ok || bin.Op != query.OpAnd {
		t.Fatalf("root = %+v, want AND binary", implicit.Root)
	}
}

func TestParse_DefaultOperatorOr(t *testing.T) {
	p := New(2, 10, "OR")

	pq, err := p.Parse("john doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bin, ok := pq.Root.(*query.Binary)
	if !ok || bin.Op != query.OpOr {
		t.Fatalf("root = %+v, want OR binary", pq.Root)
	}
}

func TestParse_LeftAssociativeEqualPrecedence(t *testing.T) {
	p := New(2, 10, "AND")

	// Equal precedence, left to right: (aa OR bb) AND cc.
	pq, err := p.Parse("aa OR bb AND cc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root, ok := pq.Root.(*query.Binary)
	if !ok || root.Op != query.OpAnd {
		t.Fatalf("root = %+v, want AND", pq.Root)
	}
	left, ok := root.Left.(*query.Binary)
	if !ok || left.Op != query.OpOr {
		t.Fatalf("left = %+v, want OR", root.Left)
	}
	if right, ok := root.Right.(*query.Term); !ok || right.Value != "cc" {
		t.Errorf("right = %+v, want cc", root.Right)
	}
}

func TestParse_GroupOverridesOrder(t *testing.T) {
	p := New(2, 10, "AND")

	pq, err := p.Parse("aa OR (bb AND cc)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root, ok := pq.Root.(*query.Binary)
	if !ok || root.Op != query.OpOr {
		t.Fatalf("root = %+v, want OR", pq.Root)
	}
	grp, ok := root.Right.(*query.Group)
	if !ok {
		t.Fatalf("right = %T, want *query.Group", root.Right)
	}
	if inner, ok := grp.Expr.(*query.Binary); !ok || inner.Op != query.OpAnd {
		t.Errorf("group expr = %+v, want AND", grp.Expr)
	}
}

func TestParse_GroupAroundLeafCollapses(t *testing.T) {
	p := New(2, 10, "AND")

	pq, err := p.Parse("((john))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pq.Root.(*query.Term); !ok {
		t.Errorf("root = %T, want *query.Term (groups collapsed)", pq.Root)
	}
}

func TestParse_FieldSearch(t *testing.T) {
	p := New(2, 10, "AND")

	tests := []struct {
		name  string
		input string
		field string
		value string
		exact bool
	}{
		{"plain", "status:active", "status", "active", true},
		{"wildcard value", "name:jo*", "name", "jo*", false},
		{"quoted value", `name:"john doe"`, "name", "john doe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pq, err := p.Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			fm, ok := pq.Root.(*query.FieldMatch)
			if !ok {
				t.Fatalf("root = %T, want *query.FieldMatch", pq.Root)
			}
			if fm.Field != tt.field || fm.Value != tt.value || fm.Exact != tt.exact {
				t.Errorf("field match = %+v, want {%s %s %t}", fm, tt.field, tt.value, tt.exact)
			}
		})
	}
}

func TestParse_DetachedColonIsNotFieldSearch(t *testing.T) {
	p := New(2, 10, "AND")

	_, err := p.Parse("name : value")
	if !errors.Is(err, domain.ErrUnexpectedToken) {
		t.Errorf("err = %v, want ErrUnexpectedToken", err)
	}
}

func TestParse_Phrase(t *testing.T) {
	p := New(2, 10, "AND")

	pq, err := p.Parse(`"john doe"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	term, ok := pq.Root.(*query.Term)
	if !ok {
		t.Fatalf("root = %T, want *query.Term", pq.Root)
	}
	if term.Value != "john doe" || !term.Exact {
		t.Errorf("term = %+v, want exact phrase", term)
	}
}

func TestParse_UnterminatedPhraseRunsToEnd(t *testing.T) {
	p := New(2, 10, "AND")

	pq, err := p.Parse(`"john doe`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	term, ok := pq.Root.(*query.Term)
	if !ok || term.Value != "john doe" {
		t.Errorf("root = %+v, want phrase john doe", pq.Root)
	}
}

func TestParse_Negation(t *testing.T) {
	p := New(2, 10, "AND")

	for _, input := range []string{"NOT john", "!john", "-john"} {
		t.Run(input, func(t *testing.T) {
			pq, err := p.Parse(input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			un, ok := pq.Root.(*query.Unary)
			if !ok || un.Op != query.OpNot {
				t.Fatalf("root = %+v, want NOT unary", pq.Root)
			}
			if term, ok := un.Operand.(*query.Term); !ok || term.Value != "john" {
				t.Errorf("operand = %+v, want john", un.Operand)
			}
		})
	}
}

func TestParse_DoubleNegationCancels(t *testing.T) {
	p := New(2, 10, "AND")

	pq, err := p.Parse("NOT NOT john")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pq.Root.(*query.Term); !ok {
		t.Errorf("root = %T, want *query.Term", pq.Root)
	}
}

func TestParse_PlusPrefixIsPassThrough(t *testing.T) {
	p := New(2, 10, "AND")

	pq, err := p.Parse("+john")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if term, ok := pq.Root.(*query.Term); !ok || term.Value != "john" {
		t.Errorf("root = %+v, want john", pq.Root)
	}
}

func TestParse_HyphenInsideWordStaysOneTerm(t *testing.T) {
	p := New(2, 10, "AND")

	pq, err := p.Parse("john-doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if term, ok := pq.Root.(*query.Term); !ok || term.Value != "john-doe" {
		t.Errorf("root = %+v, want john-doe", pq.Root)
	}
}

func TestParse_Errors(t *testing.T) {
	p := New(2, 10, "AND")

	tests := []struct {
		name     string
		input    string
		sentinel error
	}{
		{"empty", "", domain.ErrEmptyQuery},
		{"blank", "   ", domain.ErrEmptyQuery},
		{"unclosed paren", "(john", domain.ErrUnmatchedParen},
		{"stray closing paren", "john)", domain.ErrUnmatchedParen},
		{"missing field value", "status:", domain.ErrMissingFieldValue},
		{"term too short", "j", domain.ErrTermTooShort},
		{"short term in tree", "john AND j", domain.ErrTermTooShort},
		{"trailing operator", "john AND", domain.ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.input)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("err = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestParse_WildcardExemptFromMinLength(t *testing.T) {
	p := New(2, 10, "AND")

	pq, err := p.Parse("j*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	term, ok := pq.Root.(*query.Term)
	if !ok || !term.Wildcard {
		t.Errorf("root = %+v, want wildcard term", pq.Root)
	}
}

func TestParse_FieldValueExemptFromMinLength(t *testing.T) {
	p := New(2, 10, "AND")

	// An exact field value is an equality probe, not a free-text term: a
	// one-character value is a legitimate lookup ("grade:a"), so the minimum
	// term length applies to bare terms only.
	pq, err := p.Parse("grade:a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &query.FieldMatch{Field: "grade", Value: "a", Exact: true}
	if !reflect.DeepEqual(pq.Root, want) {
		t.Errorf("got %#v, want %#v", pq.Root, want)
	}

	// The same character as a bare term is still too short.
	if _, err := p.Parse("a"); !errors.Is(err, domain.ErrTermTooShort) {
		t.Errorf("bare term err = %v, want ErrTermTooShort", err)
	}

	// A wildcard field value reduced to nothing but stars has no content.
	if _, err := p.Parse("grade:*"); !errors.Is(err, domain.ErrTermTooShort) {
		t.Errorf("star-only field value err = %v, want ErrTermTooShort", err)
	}
}

func TestParse_TooManyTerms(t *testing.T) {
	p := New(2, 10, "AND")

	terms := make([]string, 11)
	for i := range terms {
		terms[i] = "aa"
	}
	_, err := p.Parse(strings.Join(terms, " "))
	if !errors.Is(err, domain.ErrTooManyTerms) {
		t.Errorf("err = %v, want ErrTooManyTerms", err)
	}
}

func TestParse_Deterministic(t *testing.T) {
	p := New(2, 10, "AND")
	input := `(john* OR "jane doe") AND status:active AND NOT dormant`

	first, err := p.Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := p.Parse(input)
		if err != nil {
			t.Fatalf("parse %d: %v", i, err)
		}
		if !reflect.DeepEqual(first.Root, again.Root) {
			t.Fatalf("parse %d produced a different tree", i)
		}
		if again.TermCount != first.TermCount || again.Complexity != first.Complexity {
			t.Fatalf("parse %d produced different figures", i)
		}
	}
}

func TestParse_ParseErrorCarriesPosition(t *testing.T) {
	p := New(2, 10, "AND")

	_, err := p.Parse("john AND ()")
	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *domain.ParseError", err)
	}
	if pe.Position < 0 {
		t.Errorf("position = %d, want >= 0", pe.Position)
	}
}

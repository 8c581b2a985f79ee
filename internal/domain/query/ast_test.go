package query

import (
	"reflect"
	"testing"
)

// john AND (NOT alice OR status:active)
func testTree() Node {
	return &Binary{
		Op:   OpAnd,
		Left: &Term{Value: "john"},
		Right: &Group{
			Expr: &Binary{
				Op:    OpOr,
				Left:  &Unary{Op: OpNot, Operand: &Term{Value: "alice"}},
				Right: &FieldMatch{Field: "status", Value: "active", Exact: true},
			},
		},
	}
}

func TestTermCount(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want int
	}{
		{"nil", nil, 0},
		{"term", &Term{Value: "john"}, 1},
		{"field match", &FieldMatch{Field: "status", Value: "active"}, 1},
		{"negated leaf still counts", &Unary{Op: OpNot, Operand: &Term{Value: "john"}}, 1},
		{"tree", testTree(), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TermCount(tt.node); got != tt.want {
				t.Errorf("TermCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComplexity(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want float64
	}{
		{"nil", nil, 0},
		{"leaf", &Term{Value: "john"}, 1},
		{"unary", &Unary{Op: OpNot, Operand: &Term{Value: "john"}}, 2.5},
		{"group", &Group{Expr: &Term{Value: "john"}}, 2.2},
		{
			"binary",
			&Binary{Op: OpAnd, Left: &Term{Value: "a"}, Right: &Term{Value: "b"}},
			4,
		},
		// 2 + 1 + 1.2 + (2 + (1.5 + 1) + 1) = 9.7
		{"tree", testTree(), 9.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Complexity(tt.node)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Complexity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerms(t *testing.T) {
	got := Terms(testTree())
	want := []string{"john", "active"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %v, want %v", got, want)
	}
}

func TestTerms_DoubleNegationRestoresLeaf(t *testing.T) {
	n := &Unary{Op: OpNot, Operand: &Unary{Op: OpNot, Operand: &Term{Value: "john"}}}
	got := Terms(n)
	if !reflect.DeepEqual(got, []string{"john"}) {
		t.Errorf("Terms = %v, want [john]", got)
	}
}

func TestTerms_Nil(t *testing.T) {
	if got := Terms(nil); got != nil {
		t.Errorf("Terms(nil) = %v, want nil", got)
	}
}

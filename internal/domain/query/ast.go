// Package query defines the boolean query AST and its tokens.
//
// The tree is a sealed sum type: every Node is one of Term, FieldMatch,
// Binary, Unary, or Group, and consumers switch exhaustively. Leaves are
// always Term or FieldMatch.
package query

// Node is one vertex of the parsed query tree.
type Node interface {
	node()
}

// Term is a free-text leaf matched against the configured search fields.
type Term struct {
	Value    string
	Exact    bool // quoted phrase, no wildcard expansion
	Wildcard bool // value contains *, glob-like matching
}

// FieldMatch is a field:value leaf matched against a single field.
type FieldMatch struct {
	Field string
	Value string
	Exact bool
}

// Binary joins two subtrees with AND or OR. Both sides are always
// evaluated; there is no short-circuit.
type Binary struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

// Unary negates its operand (NOT).
type Unary struct {
	Op      UnaryOp
	Operand Node
}

// Group is an explicitly parenthesized subtree.
type Group struct {
	Expr Node
}

func (*Term) node()       {}
func (*FieldMatch) node() {}
func (*Binary) node()     {}
func (*Unary) node()      {}
func (*Group) node()      {}

// BinaryOp is a binary boolean operator.
type BinaryOp string

// Binary operators. Symbol forms (&&, ||) normalize to these.
const (
	OpAnd BinaryOp = "AND"
	OpOr  BinaryOp = "OR"
)

// UnaryOp is a unary boolean operator.
type UnaryOp string

// OpNot negates its operand. The ! and - prefixes normalize to it;
// the + prefix is a required-term no-op and produces no Unary node.
const OpNot UnaryOp = "NOT"

// Complexity weights. Reported to callers for telemetry only; evaluation
// does not consult them.
const (
	leafWeight   = 1.0
	binaryWeight = 2.0
	unaryWeight  = 1.5
	groupWeight  = 1.2
)

// TermCount returns the number of leaves under n.
func TermCount(n Node) int {
	switch t := n.(type) {
	case nil:
		return 0
	case *Term, *FieldMatch:
		return 1
	case *Binary:
		return TermCount(t.Left) + TermCount(t.Right)
	case *Unary:
		return TermCount(t.Operand)
	case *Group:
		return TermCount(t.Expr)
	default:
		return 0
	}
}

// Complexity returns the weighted size of the tree under n:
// leaf=1, binary=2+children, unary=1.5+child, group=1.2+child.
func Complexity(n Node) float64 {
	switch t := n.(type) {
	case nil:
		return 0
	case *Term, *FieldMatch:
		return leafWeight
	case *Binary:
		return binaryWeight + Complexity(t.Left) + Complexity(t.Right)
	case *Unary:
		return unaryWeight + Complexity(t.Operand)
	case *Group:
		return groupWeight + Complexity(t.Expr)
	default:
		return 0
	}
}

// Terms collects the leaf values under n in left-to-right order.
// Negated leaves are skipped: they exclude records and should not
// contribute positive relevance signals.
func Terms(n Node) []string {
	var out []string
	collectTerms(n, false, &out)
	return out
}

func collectTerms(n Node, negated bool, out *[]string) {
	switch t := n.(type) {
	case nil:
	case *Term:
		if !negated {
			*out = append(*out, t.Value)
		}
	case *FieldMatch:
		if !negated {
			*out = append(*out, t.Value)
		}
	case *Binary:
		collectTerms(t.Left, negated, out)
		collectTerms(t.Right, negated, out)
	case *Unary:
		collectTerms(t.Operand, !negated, out)
	case *Group:
		collectTerms(t.Expr, negated, out)
	}
}

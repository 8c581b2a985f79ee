// Package parse implements the boolean query language parser: a lexer, a
// recursive-descent parser, and the post-parse normalization passes.
//
// Binary operators have equal precedence and associate left to right, so
// "a OR b AND c" parses as "(a OR b) AND c". Unary operators bind tighter
// than binary. Two adjacent terms are joined with the configured default
// operator (implicit AND).
package parse

import (
	"strings"

	"github.com/voca9204/findex/internal/domain"
	"github.com/voca9204/findex/internal/domain/query"
)

// Defaults for parser limits.
const (
	DefaultMinTermLength = 2
	DefaultMaxTerms      = 10
)

// ParsedQuery is the parse result: the query tree plus reporting figures.
// TermCount and Complexity are informational; evaluation ignores them.
type ParsedQuery struct {
	Root       query.Node
	TermCount  int
	Complexity float64
}

// Parser parses query strings into ASTs.
type Parser struct {
	minTermLength int
	maxTerms      int
	defaultOp     query.BinaryOp
}

// New creates a parser. Non-positive limits fall back to the defaults;
// defaultOp other than OR falls back to AND.
func New(minTermLength, maxTerms int, defaultOp string) *Parser {
	if minTermLength <= 0 {
		minTermLength = DefaultMinTermLength
	}
	if maxTerms <= 0 {
		maxTerms = DefaultMaxTerms
	}
	op := query.OpAnd
	if strings.EqualFold(defaultOp, string(query.OpOr)) {
		op = query.OpOr
	}
	return &Parser{minTermLength: minTermLength, maxTerms: maxTerms, defaultOp: op}
}

// Parse tokenizes and parses a query string, then runs the normalization
// passes: prune empty subtrees, collapse redundant groups, validate term
// length and term count.
func (p *Parser) Parse(input string) (*ParsedQuery, error) {
	if strings.TrimSpace(input) == "" {
		return nil, domain.ErrEmptyQuery
	}

	tokens, err := newLexer(input).tokenize()
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, domain.ErrEmptyQuery
	}

	ts := &tokenStream{tokens: tokens}
	root, err := p.parseExpression(ts)
	if err != nil {
		return nil, err
	}
	if tok, ok := ts.peek(); ok {
		if tok.Type == query.TokenRParen {
			return nil, domain.NewParseError(domain.ErrUnmatchedParen, ")", tok.Position)
		}
		return nil, domain.NewParseError(domain.ErrUnexpectedToken, tok.Value, tok.Position)
	}

	root = prune(root)
	root = collapse(root)
	if root == nil {
		return nil, domain.ErrEmptyQuery
	}
	if err := p.validateTerms(root); err != nil {
		return nil, err
	}

	count := query.TermCount(root)
	if count > p.maxTerms {
		return nil, domain.ErrTooManyTerms
	}

	return &ParsedQuery{
		Root:       root,
		TermCount:  count,
		Complexity: query.Complexity(root),
	}, nil
}

// parseExpression implements: term ((AND|OR|<implicit>) term)*.
func (p *Parser) parseExpression(ts *tokenStream) (query.Node, error) {
	left, err := p.parseTerm(ts)
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := ts.peek()
		if !ok || tok.Type == query.TokenRParen {
			return left, nil
		}

		op := p.defaultOp
		if tok.Type == query.TokenOperator && tok.Kind == query.OperatorBinary {
			op = query.BinaryOp(tok.Value)
			ts.next()
			if _, ok := ts.peek(); !ok {
				return nil, domain.NewParseError(domain.ErrUnexpectedToken, tok.Value, tok.Position)
			}
		}

		right, err := p.parseTerm(ts)
		if err != nil {
			return nil, err
		}
		left = &query.Binary{Op: op, Left: left, Right: right}
	}
}

// parseTerm implements: UNARY? primary. Stacked unaries are folded pairwise
// (NOT NOT x == x); the + prefix is a pass-through.
func (p *Parser) parseTerm(ts *tokenStream) (query.Node, error) {
	negate := false
	for {
		tok, ok := ts.peek()
		if !ok || tok.Type != query.TokenOperator || tok.Kind != query.OperatorUnary {
			break
		}
		ts.next()
		if tok.Value != "+" {
			negate = !negate
		}
	}

	node, err := p.parsePrimary(ts)
	if err != nil {
		return nil, err
	}
	if negate {
		return &query.Unary{Op: query.OpNot, Operand: node}, nil
	}
	return node, nil
}

// parsePrimary implements: LPAREN expression RPAREN | field_search | search_term.
func (p *Parser) parsePrimary(ts *tokenStream) (query.Node, error) {
	tok, ok := ts.peek()
	if !ok {
		return nil, domain.NewParseError(domain.ErrUnexpectedToken, "", -1)
	}

	switch tok.Type {
	case query.TokenLParen:
		ts.next()
		inner, err := p.parseExpression(ts)
		if err != nil {
			return nil, err
		}
		closing, ok := ts.peek()
		if !ok || closing.Type != query.TokenRParen {
			return nil, domain.NewParseError(domain.ErrUnmatchedParen, "(", tok.Position)
		}
		ts.next()
		return &query.Group{Expr: inner}, nil

	case query.TokenTerm:
		ts.next()
		// field:value requires the colon to touch the identifier; "a : b"
		// leaves the colon stray and fails as an unexpected token.
		if colon, ok := ts.peek(); ok && colon.Type == query.TokenColon &&
			colon.Position == tok.Position+len([]rune(tok.Value)) {
			ts.next()
			return p.parseFieldValue(ts, tok)
		}
		return termNode(tok.Value, false), nil

	case query.TokenPhrase:
		ts.next()
		return termNode(tok.Value, true), nil

	default:
		return nil, domain.NewParseError(domain.ErrUnexpectedToken, tok.Value, tok.Position)
	}
}

// parseFieldValue completes field:value after the colon has been consumed.
func (p *Parser) parseFieldValue(ts *tokenStream, field query.Token) (query.Node, error) {
	val, ok := ts.peek()
	if !ok || (val.Type != query.TokenTerm && val.Type != query.TokenPhrase) {
		return nil, domain.NewParseError(domain.ErrMissingFieldValue, field.Value, field.Position)
	}
	ts.next()

	exact := val.Type == query.TokenPhrase || !strings.Contains(val.Value, "*")
	return &query.FieldMatch{Field: field.Value, Value: val.Value, Exact: exact}, nil
}

func termNode(value string, phrase bool) query.Node {
	wildcard := !phrase && strings.Contains(value, "*")
	return &query.Term{Value: value, Exact: phrase, Wildcard: wildcard}
}

// validateTerms enforces the minimum term length on every leaf. Wildcard
// terms are exempt: "a*" is a deliberate prefix probe.
func (p *Parser) validateTerms(n query.Node) error {
	switch t := n.(type) {
	case nil:
		return nil
	case *query.Term:
		if !t.Wildcard && len([]rune(t.Value)) < p.minTermLength {
			return domain.NewParseError(domain.ErrTermTooShort, t.Value, -1)
		}
		return nil
	case *query.FieldMatch:
		if t.Exact {
			return nil
		}
		if len([]rune(strings.ReplaceAll(t.Value, "*", ""))) == 0 {
			return domain.NewParseError(domain.ErrTermTooShort, t.Value, -1)
		}
		return nil
	case *query.Binary:
		if err := p.validateTerms(t.Left); err != nil {
			return err
		}
		return p.validateTerms(t.Right)
	case *query.Unary:
		return p.validateTerms(t.Operand)
	case *query.Group:
		return p.validateTerms(t.Expr)
	default:
		return nil
	}
}

// prune removes empty subtrees: blank leaves collapse to nil, a binary node
// with one empty side becomes the other side, an empty unary or group
// disappears entirely.
func prune(n query.Node) query.Node {
	switch t := n.(type) {
	case nil:
		return nil
	case *query.Term:
		if strings.TrimSpace(t.Value) == "" {
			return nil
		}
		return t
	case *query.FieldMatch:
		if strings.TrimSpace(t.Field) == "" || strings.TrimSpace(t.Value) == "" {
			return nil
		}
		return t
	case *query.Binary:
		left, right := prune(t.Left), prune(t.Right)
		if left == nil {
			return right
		}
		if right == nil {
			return left
		}
		return &query.Binary{Op: t.Op, Left: left, Right: right}
	case *query.Unary:
		operand := prune(t.Operand)
		if operand == nil {
			return nil
		}
		return &query.Unary{Op: t.Op, Operand: operand}
	case *query.Group:
		inner := prune(t.Expr)
		if inner == nil {
			return nil
		}
		return &query.Group{Expr: inner}
	default:
		return n
	}
}

// collapse unwraps groups around single leaves and nested groups; a group
// around a composite subtree stays, preserving explicit precedence.
func collapse(n query.Node) query.Node {
	switch t := n.(type) {
	case nil:
		return nil
	case *query.Binary:
		return &query.Binary{Op: t.Op, Left: collapse(t.Left), Right: collapse(t.Right)}
	case *query.Unary:
		return &query.Unary{Op: t.Op, Operand: collapse(t.Operand)}
	case *query.Group:
		inner := collapse(t.Expr)
		switch inner.(type) {
		case *query.Term, *query.FieldMatch, *query.Group:
			return inner
		}
		return &query.Group{Expr: inner}
	default:
		return n
	}
}

// tokenStream is a forward-only cursor over the token slice.
type tokenStream struct {
	tokens []query.Token
	pos    int
}

func (ts *tokenStream) peek() (query.Token, bool) {
	if ts.pos >= len(ts.tokens) {
		return query.Token{}, false
	}
	return ts.tokens[ts.pos], true
}

func (ts *tokenStream) next() {
	ts.pos++
}

package parse

import (
	"strings"

	"github.com/voca9204/findex/internal/domain"
	"github.com/voca9204/findex/internal/domain/query"
)

// lexer turns a query string into tokens. Tokens are ephemeral: the parser
// consumes them immediately.
type lexer struct {
	runes []rune
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{runes: []rune(input)}
}

// tokenize scans the whole input. The only lexical error is a stray quote
// terminator; unterminated quotes are tolerated and consume to end of input.
func (l *lexer) tokenize() ([]query.Token, error) {
	var tokens []query.Token

	for l.pos < len(l.runes) {
		r := l.runes[l.pos]

		switch {
		case isSpace(r):
			l.pos++

		case r == '(':
			tokens = append(tokens, query.Token{Type: query.TokenLParen, Value: "(", Position: l.pos})
			l.pos++

		case r == ')':
			tokens = append(tokens, query.Token{Type: query.TokenRParen, Value: ")", Position: l.pos})
			l.pos++

		case r == ':':
			tokens = append(tokens, query.Token{Type: query.TokenColon, Value: ":", Position: l.pos})
			l.pos++

		case r == '"' || r == '\'':
			tokens = append(tokens, l.scanPhrase(r))

		case r == '&' && l.peek(1) == '&':
			tokens = append(tokens, query.Token{
				Type: query.TokenOperator, Value: "AND",
				Kind: query.OperatorBinary, Position: l.pos,
			})
			l.pos += 2

		case r == '|' && l.peek(1) == '|':
			tokens = append(tokens, query.Token{
				Type: query.TokenOperator, Value: "OR",
				Kind: query.OperatorBinary, Position: l.pos,
			})
			l.pos += 2

		case (r == '!' || r == '-' || r == '+') && l.startsTerm(tokens):
			tokens = append(tokens, l.scanPrefixOperator(r))

		default:
			tok, err := l.scanWord()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
	}

	return tokens, nil
}

// scanPhrase reads a quoted phrase. The closing quote may be missing, in
// which case the phrase runs to end of input.
func (l *lexer) scanPhrase(quote rune) query.Token {
	start := l.pos
	l.pos++ // skip opening quote

	var sb strings.Builder
	for l.pos < len(l.runes) && l.runes[l.pos] != quote {
		sb.WriteRune(l.runes[l.pos])
		l.pos++
	}
	if l.pos < len(l.runes) {
		l.pos++ // skip closing quote
	}

	return query.Token{Type: query.TokenPhrase, Value: sb.String(), Position: start}
}

// scanPrefixOperator reads a !, - or + that prefixes a term. + is the
// required-term form and passes through; ! and - normalize to NOT.
func (l *lexer) scanPrefixOperator(r rune) query.Token {
	tok := query.Token{Type: query.TokenOperator, Kind: query.OperatorUnary, Position: l.pos}
	if r == '+' {
		tok.Value = "+"
	} else {
		tok.Value = "NOT"
	}
	l.pos++
	return tok
}

// scanWord reads a bare term up to the next delimiter. The keywords AND, OR,
// and NOT (case-insensitive) become operator tokens.
func (l *lexer) scanWord() (query.Token, error) {
	start := l.pos
	var sb strings.Builder

	for l.pos < len(l.runes) {
		r := l.runes[l.pos]
		if isSpace(r) || r == '(' || r == ')' || r == ':' || r == '"' || r == '\'' {
			break
		}
		sb.WriteRune(r)
		l.pos++
	}

	word := sb.String()
	if word == "" {
		return query.Token{}, domain.NewParseError(domain.ErrUnexpectedToken, string(l.runes[start]), start)
	}

	switch strings.ToUpper(word) {
	case "AND", "OR":
		return query.Token{
			Type: query.TokenOperator, Value: strings.ToUpper(word),
			Kind: query.OperatorBinary, Position: start,
		}, nil
	case "NOT":
		return query.Token{
			Type: query.TokenOperator, Value: "NOT",
			Kind: query.OperatorUnary, Position: start,
		}, nil
	}

	return query.Token{Type: query.TokenTerm, Value: word, Position: start}, nil
}

// startsTerm reports whether a prefix operator at the current position would
// attach to a term: it must be followed by a term character and must not sit
// inside a word (john-doe stays one term).
func (l *lexer) startsTerm(tokens []query.Token) bool {
	next := l.peek(1)
	if next == 0 || isSpace(next) || next == ')' {
		return false
	}
	if len(tokens) == 0 {
		return true
	}
	last := tokens[len(tokens)-1]
	// A prefix is only valid after an operator, an opening paren, or a gap.
	if last.Type == query.TokenOperator || last.Type == query.TokenLParen {
		return true
	}
	return l.pos > 0 && isSpace(l.runes[l.pos-1])
}

func (l *lexer) peek(n int) rune {
	if l.pos+n >= len(l.runes) {
		return 0
	}
	return l.runes[l.pos+n]
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

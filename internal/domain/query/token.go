package query

// TokenType classifies a lexed token.
type TokenType int

// Token types produced by the lexer.
const (
	TokenTerm TokenType = iota
	TokenPhrase
	TokenField
	TokenColon
	TokenLParen
	TokenRParen
	TokenOperator
)

func (t TokenType) String() string {
	switch t {
	case TokenTerm:
		return "TERM"
	case TokenPhrase:
		return "PHRASE"
	case TokenField:
		return "FIELD"
	case TokenColon:
		return "COLON"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenOperator:
		return "OPERATOR"
	default:
		return "UNKNOWN"
	}
}

// OperatorKind distinguishes binary from unary operator tokens.
type OperatorKind int

// Operator subtypes.
const (
	OperatorNone OperatorKind = iota
	OperatorBinary
	OperatorUnary
)

// Token is one lexed unit of the query string. Ephemeral: consumed by the
// parser immediately after lexing.
type Token struct {
	Type     TokenType
	Value    string
	Kind     OperatorKind // set for TokenOperator only
	Position int          // rune offset of the token start
}

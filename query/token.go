package query

import "strings"

// TokenType identifies the kind of a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError

	// Keywords
	TokenSelect
	TokenFrom
	TokenWhere
	TokenOrder
	TokenBy
	TokenLimit
	TokenOffset
	TokenAnd
	TokenOr
	TokenNot
	TokenIn
	TokenBetween
	TokenLike
	TokenIs
	TokenNull
	TokenAsc
	TokenDesc

	// Literals and names
	TokenIdent
	TokenQuotedIdent
	TokenString
	TokenUntermString // opening quote with no closing quote before EOF
	TokenNumber
	TokenBool

	// Operators
	TokenEqual        // =
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=

	// Punctuation
	TokenComma
	TokenDot
	TokenLeftParen
	TokenRightParen
	TokenStar
)

// Token is one lexical token. Start and End are byte offsets into the
// source text; Value holds the decoded lexeme (quotes stripped, escapes
// applied).
type Token struct {
	Type  TokenType
	Value string
	Start int
	End   int
}

var keywords = map[string]TokenType{
	"select":  TokenSelect,
	"from":    TokenFrom,
	"where":   TokenWhere,
	"order":   TokenOrder,
	"by":      TokenBy,
	"limit":   TokenLimit,
	"offset":  TokenOffset,
	"and":     TokenAnd,
	"or":      TokenOr,
	"not":     TokenNot,
	"in":      TokenIn,
	"between": TokenBetween,
	"like":    TokenLike,
	"is":      TokenIs,
	"null":    TokenNull,
	"asc":     TokenAsc,
	"desc":    TokenDesc,
}

// identifierType classifies an identifier as a keyword, boolean literal, or
// plain identifier. Keyword matching is case-insensitive.
func identifierType(ident string) TokenType {
	lower := strings.ToLower(ident)
	if t, ok := keywords[lower]; ok {
		return t
	}
	if lower == "true" || lower == "false" {
		return TokenBool
	}
	return TokenIdent
}

// IsKeyword reports whether the word is a grammar keyword.
func IsKeyword(word string) bool {
	_, ok := keywords[strings.ToLower(word)]
	return ok
}

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return "error"
	case TokenSelect:
		return "SELECT"
	case TokenFrom:
		return "FROM"
	case TokenWhere:
		return "WHERE"
	case TokenOrder:
		return "ORDER"
	case TokenBy:
		return "BY"
	case TokenLimit:
		return "LIMIT"
	case TokenOffset:
		return "OFFSET"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenIn:
		return "IN"
	case TokenBetween:
		return "BETWEEN"
	case TokenLike:
		return "LIKE"
	case TokenIs:
		return "IS"
	case TokenNull:
		return "NULL"
	case TokenAsc:
		return "ASC"
	case TokenDesc:
		return "DESC"
	case TokenIdent:
		return "identifier"
	case TokenQuotedIdent:
		return "quoted identifier"
	case TokenString:
		return "string"
	case TokenUntermString:
		return "unterminated string"
	case TokenNumber:
		return "number"
	case TokenBool:
		return "boolean"
	case TokenEqual:
		return "="
	case TokenNotEqual:
		return "!="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenComma:
		return ","
	case TokenDot:
		return "."
	case TokenLeftParen:
		return "("
	case TokenRightParen:
		return ")"
	case TokenStar:
		return "*"
	default:
		return "unknown"
	}
}

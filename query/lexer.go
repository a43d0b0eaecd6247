package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes query strings. It never fails: unexpected runes become
// TokenError tokens and unterminated quotes become TokenUntermString, so
// completion keeps working on half-typed input.
type Lexer struct {
	input string
	pos   int // byte offset of ch
	next  int // byte offset after ch
	ch    rune
}

// NewLexer creates a lexer over the input text.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.next >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input)
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.pos = l.next
	l.next += w
}

func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readStringLiteral reads a single-quoted string. A doubled quote ('')
// escapes an embedded quote. The second result is false when the closing
// quote is missing.
func (l *Lexer) readStringLiteral() (string, bool) {
	var b strings.Builder
	l.readChar() // opening quote
	for l.ch != 0 {
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				b.WriteRune('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // closing quote
			return b.String(), true
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	return b.String(), false
}

// readQuotedIdent reads a double-quoted identifier, preserving internal
// spaces. A doubled quote ("") escapes an embedded quote.
func (l *Lexer) readQuotedIdent() (string, bool) {
	var b strings.Builder
	l.readChar() // opening quote
	for l.ch != 0 {
		if l.ch == '"' {
			if l.peekChar() == '"' {
				b.WriteRune('"')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			return b.String(), true
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	return b.String(), false
}

func (l *Lexer) readNumber() string {
	var b strings.Builder
	if l.ch == '-' {
		b.WriteRune(l.ch)
		l.readChar()
	}
	for unicode.IsDigit(l.ch) || l.ch == '.' {
		// A dot not followed by a digit is a method call on a
		// numeric-named column, not part of the number.
		if l.ch == '.' && !unicode.IsDigit(l.peekChar()) {
			break
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	return b.String()
}

func (l *Lexer) readIdentifier() string {
	var b strings.Builder
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' {
		b.WriteRune(l.ch)
		l.readChar()
	}
	return b.String()
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start := l.pos
	var tok Token

	switch l.ch {
	case 0:
		tok = Token{Type: TokenEOF}
	case '=':
		tok = Token{Type: TokenEqual, Value: "="}
		l.readChar()
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			tok = Token{Type: TokenNotEqual, Value: "!="}
		} else {
			tok = Token{Type: TokenError, Value: "!"}
			l.readChar()
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			tok = Token{Type: TokenLessEqual, Value: "<="}
		} else if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			tok = Token{Type: TokenNotEqual, Value: "!="}
		} else {
			tok = Token{Type: TokenLess, Value: "<"}
			l.readChar()
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			tok = Token{Type: TokenGreaterEqual, Value: ">="}
		} else {
			tok = Token{Type: TokenGreater, Value: ">"}
			l.readChar()
		}
	case '\'':
		value, terminated := l.readStringLiteral()
		if terminated {
			tok = Token{Type: TokenString, Value: value}
		} else {
			tok = Token{Type: TokenUntermString, Value: value}
		}
	case '"':
		value, terminated := l.readQuotedIdent()
		if terminated {
			tok = Token{Type: TokenQuotedIdent, Value: value}
		} else {
			tok = Token{Type: TokenUntermString, Value: value}
		}
	case '*':
		tok = Token{Type: TokenStar, Value: "*"}
		l.readChar()
	case ',':
		tok = Token{Type: TokenComma, Value: ","}
		l.readChar()
	case '.':
		tok = Token{Type: TokenDot, Value: "."}
		l.readChar()
	case '(':
		tok = Token{Type: TokenLeftParen, Value: "("}
		l.readChar()
	case ')':
		tok = Token{Type: TokenRightParen, Value: ")"}
		l.readChar()
	default:
		if unicode.IsDigit(l.ch) || (l.ch == '-' && unicode.IsDigit(l.peekChar())) {
			tok = Token{Type: TokenNumber, Value: l.readNumber()}
		} else if unicode.IsLetter(l.ch) || l.ch == '_' {
			value := l.readIdentifier()
			tok = Token{Type: identifierType(value), Value: value}
		} else {
			tok = Token{Type: TokenError, Value: string(l.ch)}
			l.readChar()
		}
	}

	tok.Start = start
	tok.End = l.pos
	return tok
}

// Tokenize returns all tokens from the input, ending with TokenEOF.
// Unrecognized characters come back as TokenError tokens for the parser to
// reject with position information; tokenization itself never fails.
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token
	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

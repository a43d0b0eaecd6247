package query

import "fmt"

// LexError reports a lexical problem, currently only unterminated quotes.
// It is recoverable: completion keeps working on input that fails to lex.
type LexError struct {
	Pos int // byte offset of the opening quote
}

func (e *LexError) Error() string {
	return "Unclosed string"
}

// ParseErrorKind discriminates parse failures.
type ParseErrorKind int

const (
	ParseErrUnexpectedToken ParseErrorKind = iota
	ParseErrUnmatchedOpenParen
	ParseErrUnmatchedCloseParen
	ParseErrUnknownMethod
)

// ParseError is a positioned syntax error. Open is the number of
// parentheses still open at EOF for ParseErrUnmatchedOpenParen.
type ParseError struct {
	Kind ParseErrorKind
	Pos  int
	Open int
	Msg  string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ParseErrUnmatchedOpenParen:
		return fmt.Sprintf("Missing %d )", e.Open)
	case ParseErrUnmatchedCloseParen:
		return "Extra )"
	case ParseErrUnknownMethod:
		return fmt.Sprintf("Unknown method: %s", e.Msg)
	default:
		return e.Msg
	}
}

func unexpectedf(pos int, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: ParseErrUnexpectedToken, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// EvalError reports a WHERE-clause evaluation failure, such as a type
// mismatch that cannot be coerced or a reference to a missing column.
// Any EvalError aborts the whole query: partial result sets are never
// returned.
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string { return e.Msg }

func evalErrorf(format string, args ...interface{}) *EvalError {
	return &EvalError{Msg: fmt.Sprintf(format, args...)}
}

package query

import (
	"errors"
	"fmt"
)

// Input limits. Queries come from interactive users and scripts alike, so
// the front end bounds everything it is asked to chew on before any real
// work happens.
const (
	// MaxQueryLength bounds the raw query string (1MB).
	MaxQueryLength = 1024 * 1024

	// MaxTokens bounds the token count of a single query.
	MaxTokens = 1000

	// MaxExpressionDepth bounds WHERE expression nesting.
	MaxExpressionDepth = 100

	// MaxColumnNameLength bounds a single column name.
	MaxColumnNameLength = 256

	// MaxTableNameLength bounds a table name. Tables are often named
	// after file paths, so this is generous.
	MaxTableNameLength = 4096
)

var (
	ErrQueryTooLong      = errors.New("query too long")
	ErrTooManyTokens     = errors.New("too many tokens in query")
	ErrExpressionTooDeep = errors.New("expression nesting too deep")
	ErrColumnNameTooLong = errors.New("column name too long")
	ErrEmptyTableName    = errors.New("table name cannot be empty")
	ErrTableNameTooLong  = errors.New("table name too long")
)

// ValidateQuery checks the raw query string against MaxQueryLength.
func ValidateQuery(query string) error {
	if len(query) > MaxQueryLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrQueryTooLong, len(query), MaxQueryLength)
	}
	return nil
}

// ValidateTableName checks table name length and non-emptiness.
func ValidateTableName(name string) error {
	if name == "" {
		return ErrEmptyTableName
	}
	if len(name) > MaxTableNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrTableNameTooLong, len(name), MaxTableNameLength)
	}
	return nil
}

// ValidateColumnName checks column name length.
func ValidateColumnName(name string) error {
	if len(name) > MaxColumnNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrColumnNameTooLong, len(name), MaxColumnNameLength)
	}
	return nil
}

// ValidateTokens checks the token count against MaxTokens.
func ValidateTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return fmt.Errorf("%w: %d tokens (max %d)", ErrTooManyTokens, len(tokens), MaxTokens)
	}
	return nil
}

// ExpressionDepthCounter tracks expression nesting during a parse. The
// parser calls Enter on every recursive descent and Exit on the way out.
type ExpressionDepthCounter struct {
	depth    int
	maxDepth int
}

func NewExpressionDepthCounter() *ExpressionDepthCounter {
	return &ExpressionDepthCounter{maxDepth: MaxExpressionDepth}
}

// Enter increments depth and errors once the limit is exceeded.
func (c *ExpressionDepthCounter) Enter() error {
	c.depth++
	if c.depth > c.maxDepth {
		return fmt.Errorf("%w: %d (max %d)", ErrExpressionTooDeep, c.depth, c.maxDepth)
	}
	return nil
}

// Exit decrements depth.
func (c *ExpressionDepthCounter) Exit() {
	c.depth--
}

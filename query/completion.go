package query

import (
	"strings"
	"unicode/utf8"

	"github.com/tabq/tabq/data"
)

// ContextKind classifies the grammatical position of the cursor inside a
// partially typed query.
type ContextKind int

const (
	// ContextStart means nothing useful has been typed yet.
	ContextStart ContextKind = iota
	// ContextAfterSelect means the cursor is in the SELECT column list.
	ContextAfterSelect
	// ContextAfterFrom means the cursor expects a table name.
	ContextAfterFrom
	// ContextInWhere means the cursor is somewhere in the WHERE clause.
	ContextInWhere
	// ContextAfterColumn means the cursor sits right after "column." and
	// expects a method name.
	ContextAfterColumn
	// ContextAfterComparison means the cursor follows a comparison
	// operator and expects a literal.
	ContextAfterComparison
	// ContextOrderBy means the cursor is in the ORDER BY list.
	ContextOrderBy
)

func (k ContextKind) String() string {
	switch k {
	case ContextStart:
		return "Start"
	case ContextAfterSelect:
		return "AfterSelect"
	case ContextAfterFrom:
		return "AfterFrom"
	case ContextInWhere:
		return "InWhere"
	case ContextAfterColumn:
		return "AfterColumn"
	case ContextAfterComparison:
		return "AfterComparison"
	case ContextOrderBy:
		return "OrderBy"
	default:
		return "Unknown"
	}
}

// Context is the result of cursor classification. Column is set for
// AfterColumn and AfterComparison, naming the column the cursor relates
// to with any surrounding quotes already stripped.
type Context struct {
	Kind   ContextKind
	Column string
}

// ContextAt classifies the cursor position in text. It truncates at the
// cursor, lexes the prefix, and walks the token stream backwards. The
// second return is the partial word being typed at the cursor, empty when
// the cursor does not touch an identifier.
//
// ContextAt never fails: on input it cannot make sense of it returns the
// most specific context it can determine and an empty partial.
func ContextAt(text string, cursor int) (Context, string) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	// Never split a rune.
	for cursor > 0 && cursor < len(text) && !utf8.RuneStart(text[cursor]) {
		cursor--
	}
	prefix := text[:cursor]

	tokens := Tokenize(prefix)
	// Drop the EOF sentinel.
	if n := len(tokens); n > 0 && tokens[n-1].Type == TokenEOF {
		tokens = tokens[:n-1]
	}
	if len(tokens) == 0 {
		return Context{Kind: ContextStart}, ""
	}

	// A bare identifier touching the cursor is the word being typed, not
	// part of the established context.
	partial := ""
	last := tokens[len(tokens)-1]
	if last.End == len(prefix) {
		switch last.Type {
		case TokenIdent, TokenNumber:
			partial = last.Value
			tokens = tokens[:len(tokens)-1]
		case TokenQuotedIdent, TokenUntermString:
			partial = last.Value
			tokens = tokens[:len(tokens)-1]
		}
	}
	if len(tokens) == 0 {
		return Context{Kind: ContextStart}, partial
	}

	last = tokens[len(tokens)-1]

	// "column." awaiting a method name. The column may be quoted, and any
	// number of open parens or connectives may precede it.
	if last.Type == TokenDot && len(tokens) >= 2 {
		prev := tokens[len(tokens)-2]
		switch prev.Type {
		case TokenIdent, TokenQuotedIdent, TokenNumber:
			return Context{Kind: ContextAfterColumn, Column: prev.Value}, partial
		}
	}

	// "column >" awaiting a literal.
	if isComparisonToken(last.Type) && len(tokens) >= 2 {
		prev := tokens[len(tokens)-2]
		switch prev.Type {
		case TokenIdent, TokenQuotedIdent, TokenNumber:
			return Context{Kind: ContextAfterComparison, Column: prev.Value}, partial
		}
	}

	// Otherwise the innermost clause keyword decides.
	for i := len(tokens) - 1; i >= 0; i-- {
		switch tokens[i].Type {
		case TokenBy:
			if i > 0 && tokens[i-1].Type == TokenOrder {
				return Context{Kind: ContextOrderBy}, partial
			}
		case TokenWhere:
			return Context{Kind: ContextInWhere}, partial
		case TokenFrom:
			return Context{Kind: ContextAfterFrom}, partial
		case TokenSelect:
			return Context{Kind: ContextAfterSelect}, partial
		}
	}
	return Context{Kind: ContextStart}, partial
}

func isComparisonToken(t TokenType) bool {
	switch t {
	case TokenEqual, TokenNotEqual, TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual:
		return true
	}
	return false
}

// Schema is the completion vocabulary for one table.
type Schema struct {
	Table   string
	Columns []string
	Types   map[string]data.Type
}

// SchemaFor builds a completion Schema from a table.
func SchemaFor(t *data.Table) Schema {
	cols := t.Columns()
	s := Schema{
		Table:   t.Name(),
		Columns: make([]string, 0, len(cols)),
		Types:   make(map[string]data.Type, len(cols)),
	}
	for _, c := range cols {
		s.Columns = append(s.Columns, c.Name)
		s.Types[strings.ToLower(c.Name)] = c.Type
	}
	return s
}

func (s Schema) columnType(name string) data.Type {
	if t, ok := s.Types[strings.ToLower(name)]; ok {
		return t
	}
	return data.TypeString
}

var whereKeywords = []string{"AND", "OR", "NOT", "IN", "BETWEEN", "LIKE", "IS NULL", "ORDER BY"}

// Suggest returns candidate completions for a cursor context, filtered by
// the partial word being typed. Multi-word column names come back
// double-quoted so they can be inserted verbatim.
func Suggest(sch Schema, ctx Context, partial string) []string {
	switch ctx.Kind {
	case ContextStart:
		return filterPrefix([]string{"SELECT"}, partial)
	case ContextAfterSelect:
		out := make([]string, 0, len(sch.Columns)+1)
		out = append(out, quotedColumns(sch.Columns)...)
		out = append(out, "*")
		return filterPrefix(out, partial)
	case ContextAfterFrom:
		if sch.Table == "" {
			return nil
		}
		return filterPrefix([]string{sch.Table}, partial)
	case ContextInWhere:
		cols := filterPrefix(quotedColumns(sch.Columns), partial)
		// Keywords only crowd in when no column matches what is typed.
		if len(cols) > 0 && partial != "" {
			return cols
		}
		return append(cols, filterPrefix(whereKeywords, partial)...)
	case ContextAfterColumn:
		return filterPrefix(MethodNames(), partial)
	case ContextAfterComparison:
		switch sch.columnType(ctx.Column) {
		case data.TypeDateTime:
			return filterPrefix([]string{"DateTime(", "DateTime.Today", "DateTime.Now"}, partial)
		case data.TypeString:
			return filterPrefix([]string{"''"}, partial)
		default:
			return nil
		}
	case ContextOrderBy:
		out := append(quotedColumns(sch.Columns), "ASC", "DESC")
		return filterPrefix(out, partial)
	default:
		return nil
	}
}

// quotedColumns double-quotes names that would not lex as a single
// identifier token.
func quotedColumns(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		if needsQuoting(name) {
			out[i] = `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
		} else {
			out[i] = name
		}
	}
	return out
}

func needsQuoting(name string) bool {
	if name == "" {
		return true
	}
	for _, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			continue
		}
		return true
	}
	return IsKeyword(name)
}

func filterPrefix(candidates []string, partial string) []string {
	if partial == "" {
		out := make([]string, len(candidates))
		copy(out, candidates)
		return out
	}
	var out []string
	lower := strings.ToLower(partial)
	for _, c := range candidates {
		bare := strings.Trim(c, `"`)
		if strings.HasPrefix(strings.ToLower(bare), lower) {
			out = append(out, c)
		}
	}
	return out
}

package query

import (
	"strconv"
	"strings"

	"github.com/tabq/tabq/data"
)

// Options configures a parse. Columns is the known column-name set of the
// target table, passed in as read-only configuration: the parser needs it
// to tell a numeric-named column (a column literally called "202204") from
// a numeric literal, and it must not hold a reference back into a live
// schema to do so.
type Options struct {
	Columns []string
}

// Parser consumes a token stream into a Statement.
type Parser struct {
	tokens  []Token
	pos     int
	parens  int // currently open parentheses
	depth   *ExpressionDepthCounter
	columns map[string]bool
}

// NewParser creates a parser over the given tokens.
func NewParser(tokens []Token, opts Options) *Parser {
	cols := make(map[string]bool, len(opts.Columns))
	for _, c := range opts.Columns {
		cols[c] = true
	}
	return &Parser{
		tokens:  tokens,
		depth:   NewExpressionDepthCounter(),
		columns: cols,
	}
}

// Parse lexes and parses a query string.
func Parse(text string, opts Options) (*Statement, error) {
	if err := ValidateQuery(text); err != nil {
		return nil, err
	}
	tokens := Tokenize(text)
	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}
	return ParseTokens(tokens, opts)
}

// ParseTokens parses an already-tokenized query.
func ParseTokens(tokens []Token, opts Options) (*Statement, error) {
	p := NewParser(tokens, opts)
	stmt, err := p.parseStatement()
	if err != nil {
		// An unexpected EOF inside an open group reports the outstanding
		// paren count, which is the diagnostic the user can act on.
		if pe, ok := err.(*ParseError); ok && pe.Kind == ParseErrUnexpectedToken &&
			p.current().Type == TokenEOF && p.parens > 0 {
			return nil, &ParseError{Kind: ParseErrUnmatchedOpenParen, Pos: pe.Pos, Open: p.parens}
		}
		return nil, err
	}

	switch p.current().Type {
	case TokenEOF:
		return stmt, nil
	case TokenRightParen:
		return nil, &ParseError{Kind: ParseErrUnmatchedCloseParen, Pos: p.current().Start}
	case TokenError:
		return nil, unexpectedf(p.current().Start, "invalid character in query: %s", p.current().Value)
	case TokenUntermString:
		return nil, &LexError{Pos: p.current().Start}
	default:
		return nil, unexpectedf(p.current().Start, "unexpected trailing tokens after query: %s", p.current().Value)
	}
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() {
	p.pos++
}

func (p *Parser) expect(tokType TokenType) error {
	if p.current().Type != tokType {
		return unexpectedf(p.current().Start, "expected %v, got %v", tokType, p.current().Type)
	}
	p.advance()
	return nil
}

// parseStatement parses: SELECT list FROM table [WHERE expr]
// [ORDER BY ...] [LIMIT n] [OFFSET n]
func (p *Parser) parseStatement() (*Statement, error) {
	if err := p.expect(TokenSelect); err != nil {
		return nil, unexpectedf(p.current().Start, "query must start with SELECT")
	}

	columns, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenFrom); err != nil {
		return nil, unexpectedf(p.current().Start, "expected FROM after SELECT list, got %v", p.current().Type)
	}

	table, err := p.parseTableName()
	if err != nil {
		return nil, err
	}

	stmt := &Statement{Columns: columns, Table: table}

	if p.current().Type == TokenWhere {
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}

	if p.current().Type == TokenOrder {
		orderBy, err := p.parseOrderBy()
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = orderBy
	}

	if p.current().Type == TokenLimit {
		limit, err := p.parseCount("LIMIT")
		if err != nil {
			return nil, err
		}
		stmt.Limit = limit
	}

	if p.current().Type == TokenOffset {
		offset, err := p.parseCount("OFFSET")
		if err != nil {
			return nil, err
		}
		stmt.Offset = offset
	}

	return stmt, nil
}

// parseSelectList parses the SELECT column list. A bare * selects all
// columns; otherwise each item is a column name, which may be quoted or,
// for numeric-named columns, a number token.
func (p *Parser) parseSelectList() ([]string, error) {
	var columns []string
	for {
		switch p.current().Type {
		case TokenStar:
			columns = append(columns, "*")
		case TokenIdent, TokenQuotedIdent, TokenNumber:
			columns = append(columns, p.current().Value)
		case TokenUntermString:
			return nil, &LexError{Pos: p.current().Start}
		default:
			return nil, unexpectedf(p.current().Start, "expected column name in SELECT list, got %v", p.current().Type)
		}
		p.advance()

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		return columns, nil
	}
}

func (p *Parser) parseTableName() (string, error) {
	switch p.current().Type {
	case TokenIdent, TokenQuotedIdent:
		name := p.current().Value
		if err := ValidateTableName(name); err != nil {
			return "", err
		}
		p.advance()
		return name, nil
	case TokenUntermString:
		return "", &LexError{Pos: p.current().Start}
	default:
		return "", unexpectedf(p.current().Start, "expected table name after FROM, got %v", p.current().Type)
	}
}

// parseOr parses OR expressions, the lowest precedence level.
func (p *Parser) parseOr() (WhereExpr, error) {
	if err := p.depth.Enter(); err != nil {
		return nil, err
	}
	defer p.depth.Exit()

	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: TokenOr, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (WhereExpr, error) {
	if err := p.depth.Enter(); err != nil {
		return nil, err
	}
	defer p.depth.Exit()

	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: TokenAnd, Right: right}
	}
	return left, nil
}

// parseNot parses prefix NOT. A NOT directly before IN/LIKE/BETWEEN is
// handled lower down so those parse as single negated nodes.
func (p *Parser) parseNot() (WhereExpr, error) {
	if err := p.depth.Enter(); err != nil {
		return nil, err
	}
	defer p.depth.Exit()

	if p.current().Type == TokenNot {
		p.advance()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Expr: inner}, nil
	}
	return p.parseComparison()
}

// parseComparison parses a single predicate: a parenthesized group, or a
// column followed by a comparison, BETWEEN, IN, LIKE, IS [NOT] NULL, or a
// method call.
func (p *Parser) parseComparison() (WhereExpr, error) {
	switch p.current().Type {
	case TokenLeftParen:
		return p.parseGroup()
	case TokenError:
		return nil, unexpectedf(p.current().Start, "invalid character in query: %s", p.current().Value)
	case TokenUntermString:
		return nil, &LexError{Pos: p.current().Start}
	}

	column, err := p.parseColumnRef()
	if err != nil {
		return nil, err
	}

	if p.current().Type == TokenDot {
		p.advance()
		return p.parseMethodCall(column)
	}

	switch p.current().Type {
	case TokenIn:
		p.advance()
		return p.parseIn(column, false)
	case TokenBetween:
		return p.parseBetween(column)
	case TokenLike:
		return p.parseLike(column, false)
	case TokenIs:
		return p.parseIsNull(column)
	case TokenNot:
		p.advance()
		switch p.current().Type {
		case TokenIn:
			p.advance()
			return p.parseIn(column, true)
		case TokenLike:
			return p.parseLike(column, true)
		case TokenBetween:
			expr, err := p.parseBetween(column)
			if err != nil {
				return nil, err
			}
			return &NotExpr{Expr: expr}, nil
		default:
			return nil, unexpectedf(p.current().Start, "expected IN, LIKE, or BETWEEN after NOT, got %v", p.current().Type)
		}
	}

	op, ok := p.compareOp()
	if !ok {
		return nil, unexpectedf(p.current().Start, "expected comparison operator after %q, got %v", column, p.current().Type)
	}
	p.advance()

	value, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return &CompareExpr{Column: column, Operator: op, Value: value}, nil
}

// parseColumnRef reads a column reference. A number token counts as a
// column only when it names a known column; otherwise it is left for the
// caller to reject, preserving the literal-by-default reading.
func (p *Parser) parseColumnRef() (string, error) {
	switch p.current().Type {
	case TokenIdent, TokenQuotedIdent:
		name := p.current().Value
		if err := ValidateColumnName(name); err != nil {
			return "", err
		}
		p.advance()
		return name, nil
	case TokenNumber:
		if p.columns[p.current().Value] {
			name := p.current().Value
			p.advance()
			return name, nil
		}
		return "", unexpectedf(p.current().Start, "expected column name, got number %s", p.current().Value)
	case TokenUntermString:
		return "", &LexError{Pos: p.current().Start}
	default:
		return "", unexpectedf(p.current().Start, "expected column name, got %v", p.current().Type)
	}
}

// parseGroup parses a parenthesized expression, tracking open depth so an
// unterminated group at EOF reports exactly how many closers are missing.
func (p *Parser) parseGroup() (WhereExpr, error) {
	open := p.current()
	p.advance()
	p.parens++

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	switch p.current().Type {
	case TokenRightParen:
		p.advance()
		p.parens--
		return expr, nil
	case TokenEOF:
		return nil, &ParseError{Kind: ParseErrUnmatchedOpenParen, Pos: open.Start, Open: p.parens}
	default:
		return nil, unexpectedf(p.current().Start, "expected ) to close group, got %v", p.current().Type)
	}
}

// parseMethodCall parses column.Method(args) with an optional trailing
// comparison for value-returning methods. The method name is resolved
// against the closed method set here, at parse time.
func (p *Parser) parseMethodCall(column string) (WhereExpr, error) {
	if p.current().Type != TokenIdent {
		return nil, unexpectedf(p.current().Start, "expected method name after %q., got %v", column, p.current().Type)
	}
	name := p.current().Value
	method, ok := ParseMethod(name)
	if !ok {
		return nil, &ParseError{Kind: ParseErrUnknownMethod, Pos: p.current().Start, Msg: name}
	}
	p.advance()

	if err := p.expect(TokenLeftParen); err != nil {
		return nil, unexpectedf(p.current().Start, "expected ( after method %s", name)
	}
	p.parens++

	var args []data.Value
	for p.current().Type != TokenRightParen {
		arg, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	if p.current().Type != TokenRightParen {
		if p.current().Type == TokenEOF {
			return nil, &ParseError{Kind: ParseErrUnmatchedOpenParen, Pos: p.current().Start, Open: p.parens}
		}
		return nil, unexpectedf(p.current().Start, "expected ) after method arguments, got %v", p.current().Type)
	}
	p.advance()
	p.parens--

	if len(args) != method.Arity() {
		return nil, unexpectedf(p.current().Start, "method %s takes %d argument(s), got %d", method, method.Arity(), len(args))
	}

	expr := &MethodCallExpr{Column: column, Method: method, Args: args}
	if !method.ReturnsValue() {
		return expr, nil
	}

	op, ok := p.compareOp()
	if !ok {
		return nil, unexpectedf(p.current().Start, "method %s must be compared with a value", method)
	}
	p.advance()

	operand, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	expr.HasCmp = true
	expr.Cmp = op
	expr.Operand = operand
	return expr, nil
}

// parseIn parses (v1, v2, ...) after IN or NOT IN.
func (p *Parser) parseIn(column string, negated bool) (WhereExpr, error) {
	if err := p.expect(TokenLeftParen); err != nil {
		return nil, unexpectedf(p.current().Start, "expected ( after IN")
	}
	p.parens++

	var values []data.Value
	for {
		value, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		values = append(values, value)

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}

	switch p.current().Type {
	case TokenRightParen:
		p.advance()
		p.parens--
	case TokenEOF:
		return nil, &ParseError{Kind: ParseErrUnmatchedOpenParen, Pos: p.current().Start, Open: p.parens}
	default:
		return nil, unexpectedf(p.current().Start, "expected , or ) in IN list, got %v", p.current().Type)
	}

	return &InExpr{Column: column, Values: values, Negated: negated}, nil
}

func (p *Parser) parseBetween(column string) (WhereExpr, error) {
	if err := p.expect(TokenBetween); err != nil {
		return nil, err
	}
	low, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenAnd); err != nil {
		return nil, unexpectedf(p.current().Start, "expected AND in BETWEEN expression, got %v", p.current().Type)
	}
	high, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return &BetweenExpr{Column: column, Low: low, High: high}, nil
}

func (p *Parser) parseLike(column string, negated bool) (WhereExpr, error) {
	if err := p.expect(TokenLike); err != nil {
		return nil, err
	}
	if p.current().Type == TokenUntermString {
		return nil, &LexError{Pos: p.current().Start}
	}
	if p.current().Type != TokenString {
		return nil, unexpectedf(p.current().Start, "expected string pattern after LIKE, got %v", p.current().Type)
	}
	pattern := p.current().Value
	p.advance()
	return &LikeExpr{Column: column, Pattern: pattern, Negated: negated}, nil
}

// parseIsNull parses IS [NOT] NULL as a single node so the evaluator does
// not need to unwrap Not(IsNull(...)).
func (p *Parser) parseIsNull(column string) (WhereExpr, error) {
	if err := p.expect(TokenIs); err != nil {
		return nil, err
	}
	negated := false
	if p.current().Type == TokenNot {
		negated = true
		p.advance()
	}
	if err := p.expect(TokenNull); err != nil {
		return nil, unexpectedf(p.current().Start, "expected NULL after IS, got %v", p.current().Type)
	}
	return &IsNullExpr{Column: column, Negated: negated}, nil
}

func (p *Parser) compareOp() (CompareOp, bool) {
	switch p.current().Type {
	case TokenEqual:
		return OpEqual, true
	case TokenNotEqual:
		return OpNotEqual, true
	case TokenLess:
		return OpLess, true
	case TokenLessEqual:
		return OpLessEqual, true
	case TokenGreater:
		return OpGreater, true
	case TokenGreaterEqual:
		return OpGreaterEqual, true
	default:
		return 0, false
	}
}

// parseLiteral parses a literal operand. Numeric tokens always become
// numbers here; column-name disambiguation applies only in operand-head
// position, which parseColumnRef handles.
func (p *Parser) parseLiteral() (data.Value, error) {
	tok := p.current()
	switch tok.Type {
	case TokenString:
		p.advance()
		return data.String(tok.Value), nil
	case TokenNumber:
		p.advance()
		if i, err := strconv.ParseInt(tok.Value, 10, 64); err == nil {
			return data.Integer(i), nil
		}
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return data.Null, unexpectedf(tok.Start, "invalid number: %s", tok.Value)
		}
		return data.Float64(f), nil
	case TokenBool:
		p.advance()
		return data.Boolean(strings.EqualFold(tok.Value, "true")), nil
	case TokenNull:
		p.advance()
		return data.Null, nil
	case TokenUntermString:
		return data.Null, &LexError{Pos: tok.Start}
	default:
		return data.Null, unexpectedf(tok.Start, "expected literal value, got %v", tok.Type)
	}
}

// parseOrderBy parses ORDER BY col [ASC|DESC] [, ...].
func (p *Parser) parseOrderBy() ([]OrderByItem, error) {
	if err := p.expect(TokenOrder); err != nil {
		return nil, err
	}
	if err := p.expect(TokenBy); err != nil {
		return nil, unexpectedf(p.current().Start, "expected BY after ORDER, got %v", p.current().Type)
	}

	var items []OrderByItem
	for {
		switch p.current().Type {
		case TokenIdent, TokenQuotedIdent, TokenNumber:
		default:
			return nil, unexpectedf(p.current().Start, "expected column name in ORDER BY, got %v", p.current().Type)
		}
		item := OrderByItem{Column: p.current().Value}
		p.advance()

		if p.current().Type == TokenAsc {
			p.advance()
		} else if p.current().Type == TokenDesc {
			item.Desc = true
			p.advance()
		}
		items = append(items, item)

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		return items, nil
	}
}

// parseCount parses the non-negative integer after LIMIT or OFFSET.
func (p *Parser) parseCount(clause string) (*int64, error) {
	p.advance() // LIMIT or OFFSET keyword
	if p.current().Type != TokenNumber {
		return nil, unexpectedf(p.current().Start, "expected number after %s, got %v", clause, p.current().Type)
	}
	n, err := strconv.ParseInt(p.current().Value, 10, 64)
	if err != nil || n < 0 {
		return nil, unexpectedf(p.current().Start, "%s must be a non-negative integer, got %s", clause, p.current().Value)
	}
	p.advance()
	return &n, nil
}

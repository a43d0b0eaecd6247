package query

// CheckBalance scans a query for structural problems that make a full
// parse pointless: unbalanced parentheses and unterminated string
// literals. It is cheaper than parsing and gives the same diagnostics,
// so interactive callers can run it on every keystroke.
//
// It returns nil when the text is balanced. The scan understands
// single-quoted strings (with '' escapes) and double-quoted identifiers
// (with "" escapes), so parentheses inside literals do not count.
func CheckBalance(text string) error {
	open := 0
	i := 0
	runes := []rune(text)
	for i < len(runes) {
		switch runes[i] {
		case '\'':
			end, ok := scanQuoted(runes, i, '\'')
			if !ok {
				return &LexError{Pos: i}
			}
			i = end
			continue
		case '"':
			end, ok := scanQuoted(runes, i, '"')
			if !ok {
				return &LexError{Pos: i}
			}
			i = end
			continue
		case '(':
			open++
		case ')':
			if open == 0 {
				return &ParseError{Kind: ParseErrUnmatchedCloseParen, Pos: i}
			}
			open--
		}
		i++
	}
	if open > 0 {
		return &ParseError{Kind: ParseErrUnmatchedOpenParen, Pos: len(runes), Open: open}
	}
	return nil
}

// scanQuoted advances past a quoted region starting at runes[start], which
// must be the opening quote. A doubled quote is an escape. It returns the
// index just past the closing quote, or ok=false if the region never closes.
func scanQuoted(runes []rune, start int, quote rune) (int, bool) {
	i := start + 1
	for i < len(runes) {
		if runes[i] == quote {
			if i+1 < len(runes) && runes[i+1] == quote {
				i += 2
				continue
			}
			return i + 1, true
		}
		i++
	}
	return 0, false
}

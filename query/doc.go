// Package query implements the SQL-like query front end: lexer, parser,
// WHERE expression model and evaluator, and cursor-aware completion.
//
// The language covers:
//   - SELECT with column projection (* or a column list)
//   - WHERE with AND/OR/NOT, comparisons, BETWEEN, IN, LIKE, IS [NOT] NULL
//   - LINQ-style string methods on columns (Contains, StartsWith,
//     EndsWith, Length, IndexOf, ToLower, ToUpper, IsNullOrEmpty)
//   - ORDER BY with multiple keys and ASC/DESC
//   - LIMIT and OFFSET for pagination
//
// # Basic Usage
//
// Parse a query against a known column set:
//
//	stmt, err := query.Parse(
//	    "SELECT name, price FROM data WHERE price > 30",
//	    query.Options{Columns: table.ColumnNames()},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Evaluate its WHERE clause against one row:
//
//	env := &query.Env{Table: table, Row: table.RowAt(0)}
//	match, err := stmt.Where.Evaluate(env)
//
// # Completion
//
// ContextAt classifies a cursor position in partially typed text and
// Suggest turns the classification into candidate completions:
//
//	ctx, partial := query.ContextAt("select * from data where Country.", 33)
//	candidates := query.Suggest(query.SchemaFor(table), ctx, partial)
//
// # Errors
//
// Lex and parse failures come back as *LexError and *ParseError with
// positions and precise parenthesis diagnostics ("Missing 2 )", "Extra )",
// "Unclosed string"); evaluation failures as *EvalError. CheckBalance runs
// the parenthesis and string checks alone, cheaply, for interactive use.
package query

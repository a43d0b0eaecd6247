// Package output provides formatters for rendering query result views.
//
// Supported formats:
//
//   - Table: aligned ASCII table for terminal display
//   - JSON Lines: one JSON object per row (suitable for streaming)
//   - CSV: comma-separated values with header row
//
// Example usage:
//
//	formatter := output.NewTableFormatter(os.Stdout)
//	if err := formatter.Format(view); err != nil {
//	    log.Fatal(err)
//	}
//
// All formatters write the view's visible rows and displayed columns only,
// so hidden columns and rows filtered out by a query never appear in
// output. Implement custom formats by satisfying the Formatter interface.
package output

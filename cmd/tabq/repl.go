package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tabq/tabq/data"
	"github.com/tabq/tabq/engine"
	"github.com/tabq/tabq/output"
	"github.com/tabq/tabq/query"
)

// getHistoryFilePath returns the path to the shell history file.
func getHistoryFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tabq_history")
}

// queryCompleter adapts cursor-aware completion to readline's tab
// completion interface.
type queryCompleter struct {
	schema query.Schema
}

// Do implements readline.AutoCompleter. It classifies the cursor position
// and offers the suffixes that would complete the word being typed.
func (c *queryCompleter) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	text := string(line)
	cursor := len(string(line[:pos]))

	ctx, partial := query.ContextAt(text, cursor)
	candidates := query.Suggest(c.schema, ctx, partial)

	var out [][]rune
	plen := len([]rune(partial))
	for _, cand := range candidates {
		// Suggest matches the partial against the quote-stripped name, so
		// slice the suffix off the bare form too; the quotes only matter
		// for display and a bare multi-word insertion is still editable.
		runes := []rune(strings.Trim(cand, `"`))
		if len(runes) < plen || !strings.EqualFold(string(runes[:plen]), partial) {
			continue
		}
		out = append(out, append(runes[plen:], ' '))
	}
	return out, plen
}

// runShell runs the interactive query loop against a loaded table.
func runShell(eng *engine.Engine, table *data.Table, format string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "tabq> ",
		HistoryFile:       getHistoryFilePath(),
		AutoComplete:      &queryCompleter{schema: query.SchemaFor(table)},
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Printf("Loaded %s: %d rows, %d columns. Type \\h for help.\n",
		table.Name(), table.RowCount(), table.ColumnCount())

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Println("Goodbye!")
				return nil
			}
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "\\") {
			if done := handleLocalCommand(input, table, &format); done {
				fmt.Println("Goodbye!")
				return nil
			}
			continue
		}

		// Catch unbalanced input before a full parse so the hint points
		// at the structural problem, not a confusing downstream error.
		if err := query.CheckBalance(input); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}

		if err := executeShellQuery(eng, table, input, format); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
}

// handleLocalCommand processes backslash commands; it reports whether the
// shell should exit.
func handleLocalCommand(input string, table *data.Table, format *string) bool {
	cmd := strings.Fields(input)
	switch cmd[0] {
	case "\\q", "\\quit", "\\exit":
		return true
	case "\\h", "\\help":
		printShellHelp()
	case "\\schema", "\\d":
		printSchema(table)
	case "\\format", "\\f":
		if len(cmd) < 2 {
			fmt.Printf("Current format: %s\n", *format)
			return false
		}
		switch cmd[1] {
		case "table", "csv", "json":
			*format = cmd[1]
			fmt.Printf("Output format set to %s\n", *format)
		default:
			fmt.Fprintf(os.Stderr, "Unknown format %q (want table, csv, or json)\n", cmd[1])
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %s (try \\h)\n", cmd[0])
	}
	return false
}

func printShellHelp() {
	fmt.Println("Commands:")
	fmt.Println("  \\h, \\help          Show this help")
	fmt.Println("  \\d, \\schema        Show the table schema")
	fmt.Println("  \\f, \\format <fmt>  Set output format (table, csv, json)")
	fmt.Println("  \\q, \\quit          Exit")
	fmt.Println()
	fmt.Println("Anything else is executed as a query, for example:")
	fmt.Println("  select * from data where price > 30 order by price desc limit 10")
}

func executeShellQuery(eng *engine.Engine, table *data.Table, text, format string) error {
	view, err := eng.Execute(table, text)
	if err != nil {
		return err
	}
	return output.New(format, os.Stdout).Format(view)
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tabq/tabq/data"
	"github.com/tabq/tabq/engine"
	"github.com/tabq/tabq/loader"
	"github.com/tabq/tabq/output"
)

var (
	queryFlag       = flag.String("q", "", "SQL query (e.g., \"select * from data where price > 30\")")
	formatFlag      = flag.String("f", "table", "Output format: table, csv, json")
	interactiveFlag = flag.Bool("i", false, "Start an interactive shell after loading the file")
	foldFlag        = flag.Bool("ci", false, "Case-insensitive string matching in WHERE clauses")
	schemaFlag      = flag.Bool("schema", false, "Show inferred schema instead of data")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file.csv|file.tsv|file.json|file.parquet>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Query tabular files with SQL.\n\n")
		fmt.Fprintf(os.Stderr, "IMPORTANT: All flags must come BEFORE file arguments.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s data.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -q \"select * from data where price > 30\" data.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -f csv -q \"select name, price from data order by price desc\" data.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --schema data.json\n", os.Args[0])
	}

	flag.Parse()

	if *schemaFlag && *queryFlag != "" {
		fmt.Fprintf(os.Stderr, "Error: --schema and -q cannot be used together\n")
		os.Exit(1)
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: missing input file argument\n\n")
		flag.Usage()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	table, err := loader.Load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
		os.Exit(1)
	}

	if *schemaFlag {
		printSchema(table)
		return
	}

	eng := &engine.Engine{CaseInsensitive: *foldFlag}

	if *queryFlag != "" {
		if err := runQuery(eng, table, *queryFlag, *formatFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !*interactiveFlag {
			return
		}
	}

	if *interactiveFlag || *queryFlag == "" {
		if err := runShell(eng, table, *formatFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// runQuery executes one query and renders the result to stdout.
func runQuery(eng *engine.Engine, table *data.Table, text, format string) error {
	view, err := eng.Execute(table, text)
	if err != nil {
		return err
	}
	return output.New(format, os.Stdout).Format(view)
}

// printSchema lists the inferred column types of a loaded table.
func printSchema(table *data.Table) {
	fmt.Printf("Table: %s (%d rows)\n", table.Name(), table.RowCount())
	for _, col := range table.Columns() {
		fmt.Printf("  %-30s %s\n", col.Name, col.Type)
	}
}

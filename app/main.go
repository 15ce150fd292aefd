package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
)

// cli is the positional argument grammar: <program> <database> <command>.
// The command arrives as a single argument even when it is a multi-word
// SELECT statement; query.go does its own whitespace tokenisation, it
// does not re-split os.Args.
var cli struct {
	Database string `arg:"" help:"Path to the SQLite database file."`
	Command  string `arg:"" help:"Command to run: .dbinfo, .tables, or a SELECT statement."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("sqlite-reader"),
		kong.Description("Read-only inspector for the SQLite file format."),
		kong.UsageOnError(),
	)

	err := run(cli.Database, cli.Command)
	kctx.FatalIfErrorf(err)
}

// run dispatches a single command against an opened database and writes
// its result to standard output. It is split out from main so it can be
// exercised directly by tests without touching process exit codes.
func run(dbPath, command string) error {
	logger := newLogger()

	// This reader never traverses multi-page tables, so a query only
	// ever touches the schema page plus one table root page; a cache
	// of 4 pages covers that with room to spare.
	db, err := OpenDatabase(dbPath, logger, WithPageCacheSize(4))
	if err != nil {
		return err
	}
	defer db.Close()

	out := NewConsoleFormatter(os.Stdout)

	switch {
	case command == ".dbinfo":
		return runDBInfo(db, out)
	case command == ".tables":
		return runTables(db, out)
	case strings.HasPrefix(strings.ToUpper(strings.TrimSpace(command)), "SELECT"):
		return runSQL(db, command, out)
	default:
		return &DatabaseError{Operation: "run", Err: ErrSyntax, Context: map[string]interface{}{"command": command}}
	}
}

func runDBInfo(db *Database, out *ConsoleFormatter) error {
	page, err := db.ReadPage(1)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "database page size: %d\n", db.Header().PageSize)
	fmt.Fprintf(out, "number of tables: %d\n", page.CellCount)
	return nil
}

func runTables(db *Database, out *ConsoleFormatter) error {
	cat, err := buildCatalog(db)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, strings.Join(cat.TableNames(), " "))
	return nil
}

func runSQL(db *Database, command string, out *ConsoleFormatter) error {
	cat, err := buildCatalog(db)
	if err != nil {
		return err
	}

	ps, err := parseSelect(command)
	if err != nil {
		return err
	}

	if ps.isCountAll {
		line, err := runSelectCountAll(db, cat, ps.table)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, line)
		return nil
	}

	lines, err := runSelect(db, cat, ps, out)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}

// Command isentadb is the REPL / one-shot CLI for an Isenta database
// file: `isentadb [-config path] <dbfile> [sql...]`. With trailing SQL
// arguments it runs that one statement and exits; without them it drops
// into an interactive prompt.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/SentinelIS/IsentaDB/internal/config"
	"github.com/SentinelIS/IsentaDB/internal/engine"
	isentadb "github.com/SentinelIS/IsentaDB"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Stdin))
}

func run(args []string, out, errOut *os.File, in *os.File) int {
	fs := flag.NewFlagSet("isentadb", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "path to a YAML config file")
	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: isentadb [-config path] <dbfile> [sql...]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	if len(rest) < 1 {
		fs.Usage()
		return 2
	}
	dbPath := rest[0]

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "isentadb: loading config: %v\n", err)
		return 1
	}

	sess, err := isentadb.Open(dbPath, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "isentadb: opening %s: %v\n", dbPath, err)
		return 1
	}
	defer sess.Close()

	if len(rest) > 1 {
		runLine(sess, out, strings.Join(rest[1:], " "), cfg.Echo)
		return 0
	}

	repl(sess, cfg, out, in)
	return 0
}

func repl(sess *isentadb.Session, cfg *config.Config, out, in *os.File) {
	fmt.Fprintf(out, "isentadb — connected to %s\n", sess.Path)
	fmt.Fprintf(out, "Type \"help\" for commands, \"exit\" or \"quit\" to leave.\n")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, cfg.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit":
			return
		case "help":
			printHelp(out)
			continue
		}
		runLine(sess, out, line, cfg.Echo)
	}
}

func printHelp(out *os.File) {
	fmt.Fprintln(out, `Commands:
  CREATE TABLE name (col type, ...)
  INSERT INTO name VALUES (v, ...)
  SELECT cols|* FROM name [WHERE col op val]
  UPDATE name SET col = val [WHERE col op val]
  INSPECT name
  SHOW TABLES
  help, exit, quit`)
}

func runLine(sess *isentadb.Session, out *os.File, line string, echo bool) {
	if echo {
		fmt.Fprintln(out, line)
	}

	cmd, res, err := sess.ExecuteLine(line)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}

	switch cmd.(type) {
	case *engine.CreateTable, *engine.Insert:
		fmt.Fprintln(out, "OK")
	case *engine.Select:
		printRows(out, res.Columns, res.Rows)
	case *engine.Update:
		fmt.Fprintf(out, "updated %d row(s)\n", res.UpdatedCount)
	case *engine.ShowTables:
		for _, name := range res.Tables {
			fmt.Fprintln(out, name)
		}
	case *engine.InspectTable:
		for _, col := range res.Inspected {
			fmt.Fprintf(out, "%s %s\n", col.Name, col.DataType)
		}
	}
}

func printRows(out *os.File, columns []string, rows [][]string) {
	fmt.Fprintln(out, strings.Join(columns, " | "))
	for _, row := range rows {
		fmt.Fprintln(out, strings.Join(row, " | "))
	}
}

// Package storage implements the persistence core of an Isenta database: the
// file header, the schema-page chain, per-table row-page chains, catalog
// load with validation and self-repair, and the write paths for table
// creation and row rewrite. It is the component the rest of the spec calls
// "the core" — everything else (parser, REPL) is a collaborator that hands
// typed commands down to this layer.
package storage

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// foldEqual compares two names case-insensitively. Table and
// column names are compared under this fold everywhere a lookup happens;
// golang.org/x/text/cases.Fold is used instead of strings.EqualFold so that
// the comparison is Unicode-aware rather than ASCII-only, matching how the
// rest of the column/type normalization in this package already treats text.
var caseFolder = cases.Fold()

func foldEqual(a, b string) bool {
	return caseFolder.String(a) == caseFolder.String(b)
}

// Column is a single declared column of a table. DataType is normalized to
// upper case at parse time (e.g. "INT", "INTEGER", "TEXT") and is never
// re-normalized here.
type Column struct {
	Name     string
	DataType string
}

// Row is an ordered list of values, one per column of its owning table.
// Each value is the textual surface form: the decimal form of an integer,
// literal text, or "" for NULL. A Row's arity must equal its table's
// column count.
type Row struct {
	Values []string
}

// Table is a named, ordered column list plus the rows currently held in
// memory for it.
type Table struct {
	Name    string
	Columns []Column
	Rows    []Row
}

// ColumnIndex returns the position of the named column (case-insensitive),
// or -1 if it is not declared on the table.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if foldEqual(c.Name, name) {
			return i
		}
	}
	return -1
}

func isIntegerType(dataType string) bool {
	up := strings.ToUpper(dataType)
	return up == "INT" || up == "INTEGER"
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func formatInt64(n int64) string {
	return strconv.FormatInt(n, 10)
}

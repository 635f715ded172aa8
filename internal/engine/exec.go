package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/SentinelIS/IsentaDB/internal/storage"
)

// Result is what Execute hands back for any Command. Only the fields
// relevant to the command that produced it are populated; the rest are
// left at their zero value.
type Result struct {
	Columns      []string    // SELECT's projected column names
	Rows         [][]string  // SELECT's matching rows, same order as Columns
	Tables       []string    // SHOW TABLES
	Inspected    []ColumnDef // INSPECT
	UpdatedCount int         // UPDATE
}

// QueryEngine dispatches parsed commands against an in-memory Catalog,
// persisting mutations through a Database. Reads never touch disk: the
// catalog is the authoritative in-memory view loaded once at startup.
type QueryEngine struct {
	db      *storage.Database
	catalog *storage.Catalog
}

func New(db *storage.Database, catalog *storage.Catalog) *QueryEngine {
	return &QueryEngine{db: db, catalog: catalog}
}

func (e *QueryEngine) Execute(cmd Command) (*Result, error) {
	switch c := cmd.(type) {
	case *CreateTable:
		return e.execCreateTable(c)
	case *Insert:
		return e.execInsert(c)
	case *Select:
		return e.execSelect(c)
	case *Update:
		return e.execUpdate(c)
	case *ShowTables:
		return e.execShowTables()
	case *InspectTable:
		return e.execInspect(c)
	case *Unknown:
		return nil, fmt.Errorf("unrecognized command: %s", c.Raw)
	default:
		return nil, fmt.Errorf("unsupported command")
	}
}

func (e *QueryEngine) execCreateTable(c *CreateTable) (*Result, error) {
	columns := make([]storage.Column, len(c.Columns))
	for i, col := range c.Columns {
		columns[i] = storage.Column{Name: col.Name, DataType: col.DataType}
	}

	table, err := e.catalog.CreateTable(c.Name, columns)
	if err != nil {
		return nil, err
	}
	if err := e.db.CreateTable(table); err != nil {
		return nil, err
	}
	return &Result{}, nil
}

func (e *QueryEngine) execInsert(c *Insert) (*Result, error) {
	table := e.catalog.FindTable(c.Table)
	if table == nil {
		return nil, fmt.Errorf("table %q not found", c.Table)
	}
	if len(c.Values) != len(table.Columns) {
		return nil, fmt.Errorf("column count mismatch: table %q has %d columns, got %d values", c.Table, len(table.Columns), len(c.Values))
	}

	table.Rows = append(table.Rows, storage.Row{Values: c.Values})
	if err := e.db.UpdateTableData(table); err != nil {
		return nil, err
	}
	return &Result{}, nil
}

func (e *QueryEngine) execSelect(c *Select) (*Result, error) {
	table := e.catalog.FindTable(c.Table)
	if table == nil {
		return nil, fmt.Errorf("table %q not found", c.Table)
	}

	names := c.Columns
	if len(names) == 1 && names[0] == "*" {
		names = make([]string, len(table.Columns))
		for i, col := range table.Columns {
			names[i] = col.Name
		}
	}
	colIdx := make([]int, len(names))
	for i, name := range names {
		idx := table.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("column %q not found on table %q", name, c.Table)
		}
		colIdx[i] = idx
	}

	var whereIdx int = -1
	var whereType string
	if c.Where != nil {
		whereIdx = table.ColumnIndex(c.Where.Column)
		if whereIdx < 0 {
			return nil, fmt.Errorf("column %q not found on table %q", c.Where.Column, c.Table)
		}
		whereType = table.Columns[whereIdx].DataType
	}

	var rows [][]string
	for _, row := range table.Rows {
		if c.Where != nil && !evalWhere(row.Values[whereIdx], whereType, c.Where) {
			continue
		}
		projected := make([]string, len(colIdx))
		for i, idx := range colIdx {
			projected[i] = row.Values[idx]
		}
		rows = append(rows, projected)
	}

	return &Result{Columns: names, Rows: rows}, nil
}

func (e *QueryEngine) execUpdate(c *Update) (*Result, error) {
	table := e.catalog.FindTable(c.Table)
	if table == nil {
		return nil, fmt.Errorf("table %q not found", c.Table)
	}

	setIdx := table.ColumnIndex(c.SetCol)
	if setIdx < 0 {
		return nil, fmt.Errorf("column %q not found on table %q", c.SetCol, c.Table)
	}

	var whereIdx int = -1
	var whereType string
	if c.Where != nil {
		whereIdx = table.ColumnIndex(c.Where.Column)
		if whereIdx < 0 {
			return nil, fmt.Errorf("column %q not found on table %q", c.Where.Column, c.Table)
		}
		whereType = table.Columns[whereIdx].DataType
	}

	count := 0
	for i := range table.Rows {
		if c.Where != nil && !evalWhere(table.Rows[i].Values[whereIdx], whereType, c.Where) {
			continue
		}
		table.Rows[i].Values[setIdx] = c.SetValue
		count++
	}

	if err := e.db.UpdateTableData(table); err != nil {
		return nil, err
	}
	return &Result{UpdatedCount: count}, nil
}

func (e *QueryEngine) execShowTables() (*Result, error) {
	return &Result{Tables: e.catalog.TableNames()}, nil
}

func (e *QueryEngine) execInspect(c *InspectTable) (*Result, error) {
	table := e.catalog.FindTable(c.Name)
	if table == nil {
		return nil, fmt.Errorf("table %q not found", c.Name)
	}
	cols := make([]ColumnDef, len(table.Columns))
	for i, col := range table.Columns {
		cols[i] = ColumnDef{Name: col.Name, DataType: col.DataType}
	}
	return &Result{Inspected: cols}, nil
}

// isNumericColumn decides whether a column's declared type takes the
// numeric comparison path in WHERE evaluation. A prior implementation
// only recognized the literal type name "INTEGER", so a column declared
// "INT" silently fell through to textual comparison even though both
// spellings mean the same thing to the writer that picks an on-disk tag.
// This engine treats both spellings as numeric, matching the same
// INT/INTEGER recognition the storage layer already uses when choosing
// how to encode a value.
func isNumericColumn(dataType string) bool {
	up := strings.ToUpper(dataType)
	return up == "INT" || up == "INTEGER"
}

// evalWhere applies a single predicate to one row's value for the
// column w names, dispatching on the column's declared type (§4.5). It
// never returns an error: an operand that fails to parse, an operator
// that doesn't apply to the path taken, or an invalid LIKE pattern all
// degrade to a false result rather than aborting the scan.
func evalWhere(value, dataType string, w *Where) bool {
	if isNumericColumn(dataType) {
		rv, err1 := strconv.ParseInt(value, 10, 64)
		lit, err2 := strconv.ParseInt(w.Value, 10, 64)
		if err1 != nil || err2 != nil {
			return false
		}
		switch w.Operator {
		case "=":
			return rv == lit
		case "!=":
			return rv != lit
		case "<":
			return rv < lit
		case ">":
			return rv > lit
		case "<=":
			return rv <= lit
		case ">=":
			return rv >= lit
		default:
			return false
		}
	}

	switch w.Operator {
	case "=":
		return strings.EqualFold(value, w.Value)
	case "!=":
		return !strings.EqualFold(value, w.Value)
	case "LIKE":
		re, err := likeToRegex(w.Value)
		if err != nil {
			return false
		}
		return re.MatchString(value)
	case "NOT LIKE":
		re, err := likeToRegex(w.Value)
		if err != nil {
			return false
		}
		return !re.MatchString(value)
	default:
		return false
	}
}

// likeToRegex translates a SQL LIKE pattern into an anchored,
// case-insensitive regular expression: "%" becomes ".*", "_" becomes
// ".", and every other rune is escaped literally.
func likeToRegex(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

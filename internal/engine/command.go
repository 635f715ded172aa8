// Package engine is the query engine: it takes the tagged Command the
// parser produces, drives the catalog and the persistence core to carry
// it out, and evaluates WHERE predicates. Everything upstream of the
// Command shape — tokenizing, grammar, pretty-printing — is this
// package's collaborator, not its concern.
package engine

// ColumnDef is a parsed column declaration: a name and an (already
// uppercased) data type.
type ColumnDef struct {
	Name     string
	DataType string
}

// Where is a single WHERE predicate: column OP value.
type Where struct {
	Column   string
	Operator string
	Value    string
}

// Command is the tagged union the parser yields. Exactly one of the
// concrete *Command types below is produced per line of input.
type Command interface {
	isCommand()
}

// CreateTable is `CREATE TABLE name (col type, ...)`.
type CreateTable struct {
	Name    string
	Columns []ColumnDef
}

// Insert is `INSERT INTO table VALUES (v, ...)`.
type Insert struct {
	Table  string
	Values []string
}

// Select is `SELECT cols FROM table [WHERE ...]`. Columns is ["*"] for a
// star projection.
type Select struct {
	Table   string
	Columns []string
	Where   *Where
}

// Update is `UPDATE table SET col = val [WHERE ...]`.
type Update struct {
	Table    string
	SetCol   string
	SetValue string
	Where    *Where
}

// ShowTables is `SHOW TABLES`.
type ShowTables struct{}

// InspectTable is `INSPECT name`.
type InspectTable struct {
	Name string
}

// Unknown is anything that didn't parse as one of the above; Raw holds
// the original line so the caller can report it back verbatim.
type Unknown struct {
	Raw string
}

func (*CreateTable) isCommand()  {}
func (*Insert) isCommand()       {}
func (*Select) isCommand()       {}
func (*Update) isCommand()       {}
func (*ShowTables) isCommand()   {}
func (*InspectTable) isCommand() {}
func (*Unknown) isCommand()      {}

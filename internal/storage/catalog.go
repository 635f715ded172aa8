package storage

import "fmt"

// Catalog is the in-memory mirror of the on-disk schema chain: an
// insertion-ordered list of tables, unique by name under case folding.
//
// A prior implementation rejected duplicate names case-sensitively at
// create time but looked them up case-insensitively everywhere else,
// which let "USERS" and "users" coexist on disk while only one was ever
// reachable through a lookup. This type tightens that: CreateTable
// rejects a name that collides under the same fold used by every lookup.
type Catalog struct {
	tables []*Table
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// CreateTable registers a brand new table. It fails if a table with the
// same name (case-insensitive) already exists.
func (c *Catalog) CreateTable(name string, columns []Column) (*Table, error) {
	if c.FindTable(name) != nil {
		return nil, fmt.Errorf("table %q already exists", name)
	}
	t := &Table{Name: name, Columns: columns}
	c.tables = append(c.tables, t)
	return t, nil
}

// AddTable inserts a fully-formed table (as produced by loading from disk).
// It is idempotent under case-insensitive name match: adding a table whose
// name is already present is a no-op.
func (c *Catalog) AddTable(t *Table) {
	if c.FindTable(t.Name) != nil {
		return
	}
	c.tables = append(c.tables, t)
}

// FindTable returns the table with the given name (case-insensitive), or
// nil if none exists. The returned pointer aliases the catalog's own
// storage, so mutations through it (e.g. appending rows) are visible to
// subsequent lookups.
func (c *Catalog) FindTable(name string) *Table {
	for _, t := range c.tables {
		if foldEqual(t.Name, name) {
			return t
		}
	}
	return nil
}

// TableNames returns the names of every table, in insertion order.
func (c *Catalog) TableNames() []string {
	names := make([]string, len(c.tables))
	for i, t := range c.tables {
		names[i] = t.Name
	}
	return names
}

// Tables returns every table in insertion order.
func (c *Catalog) Tables() []*Table {
	return c.tables
}

package storage

import "testing"

func TestCreateTableRejectsCaseInsensitiveDuplicate(t *testing.T) {
	c := NewCatalog()
	if _, err := c.CreateTable("Users", nil); err != nil {
		t.Fatalf("first CreateTable: %v", err)
	}
	if _, err := c.CreateTable("USERS", nil); err == nil {
		t.Fatalf("expected error creating duplicate table under a different case")
	}
}

func TestFindTableCaseInsensitive(t *testing.T) {
	c := NewCatalog()
	if _, err := c.CreateTable("Users", []Column{{Name: "id", DataType: "INT"}}); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	for _, variant := range []string{"users", "USERS", "UsErS"} {
		if c.FindTable(variant) == nil {
			t.Fatalf("FindTable(%q): expected table to be found", variant)
		}
	}
	if c.FindTable("orders") != nil {
		t.Fatalf("FindTable(%q): expected nil for nonexistent table", "orders")
	}
}

func TestAddTableIsIdempotent(t *testing.T) {
	c := NewCatalog()
	c.AddTable(&Table{Name: "t"})
	c.AddTable(&Table{Name: "T", Columns: []Column{{Name: "x", DataType: "TEXT"}}})

	if len(c.Tables()) != 1 {
		t.Fatalf("expected 1 table after idempotent add, got %d", len(c.Tables()))
	}
	if len(c.FindTable("t").Columns) != 0 {
		t.Fatalf("expected the first-added table to remain, not the later one")
	}
}

func TestTableNamesPreservesInsertionOrder(t *testing.T) {
	c := NewCatalog()
	c.AddTable(&Table{Name: "zebra"})
	c.AddTable(&Table{Name: "apple"})

	names := c.TableNames()
	if len(names) != 2 || names[0] != "zebra" || names[1] != "apple" {
		t.Fatalf("expected insertion order [zebra apple], got %v", names)
	}
}

func TestColumnIndexCaseInsensitive(t *testing.T) {
	tbl := &Table{Columns: []Column{{Name: "Name", DataType: "TEXT"}, {Name: "Age", DataType: "INT"}}}
	if idx := tbl.ColumnIndex("name"); idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	if idx := tbl.ColumnIndex("AGE"); idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
	if idx := tbl.ColumnIndex("missing"); idx != -1 {
		t.Fatalf("expected -1 for missing column, got %d", idx)
	}
}

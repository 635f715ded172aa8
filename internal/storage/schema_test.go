package storage

import (
	"testing"

	"github.com/SentinelIS/IsentaDB/internal/pager"
)

func TestEncodeDecodeSchemaPageRoundTrip(t *testing.T) {
	table := &Table{
		Name: "users",
		Columns: []Column{
			{Name: "id", DataType: "INTEGER"},
			{Name: "name", DataType: "TEXT"},
		},
	}
	page, err := encodeSchemaPage(7, table, 42, 99)
	if err != nil {
		t.Fatalf("encodeSchemaPage: %v", err)
	}

	rec, err := decodeSchemaPage(page)
	if err != nil {
		t.Fatalf("decodeSchemaPage: %v", err)
	}
	if rec.Table.Name != "users" {
		t.Fatalf("expected name %q, got %q", "users", rec.Table.Name)
	}
	if len(rec.Table.Columns) != 2 || rec.Table.Columns[0].Name != "id" || rec.Table.Columns[1].Name != "name" {
		t.Fatalf("unexpected columns: %+v", rec.Table.Columns)
	}
	if rec.DataPageID != 42 {
		t.Fatalf("expected data_page_id 42, got %d", rec.DataPageID)
	}
	if rec.NextPageID != 99 {
		t.Fatalf("expected next_schema_page_id 99, got %d", rec.NextPageID)
	}
}

// TestPatchUint64UsesRecordedOffsets exercises the O-1 fix directly: the
// offset decodeSchemaPage records for next_schema_page_id must be the
// exact offset encodeSchemaPage wrote it at, regardless of how many
// columns come before it — not a fixed "last 8 bytes" assumption.
func TestPatchUint64UsesRecordedOffsets(t *testing.T) {
	table := &Table{
		Name: "wide_table",
		Columns: []Column{
			{Name: "a_long_column_name", DataType: "TEXT"},
			{Name: "another_long_one", DataType: "INTEGER"},
			{Name: "and_a_third", DataType: "TEXT"},
		},
	}
	page, err := encodeSchemaPage(1, table, 10, 0)
	if err != nil {
		t.Fatalf("encodeSchemaPage: %v", err)
	}

	rec, err := decodeSchemaPage(page)
	if err != nil {
		t.Fatalf("decodeSchemaPage: %v", err)
	}
	if rec.NextPageID != 0 {
		t.Fatalf("expected next_schema_page_id 0 before patch, got %d", rec.NextPageID)
	}

	patchUint64(page, rec.nextPageOff, 555)

	rec2, err := decodeSchemaPage(page)
	if err != nil {
		t.Fatalf("decodeSchemaPage after patch: %v", err)
	}
	if rec2.NextPageID != 555 {
		t.Fatalf("expected patched next_schema_page_id 555, got %d", rec2.NextPageID)
	}
	// The data_page_id must survive the patch untouched.
	if rec2.DataPageID != 10 {
		t.Fatalf("expected data_page_id to remain 10, got %d", rec2.DataPageID)
	}
}

func TestEncodeSchemaPageRejectsEmptyName(t *testing.T) {
	if _, err := encodeSchemaPage(1, &Table{Name: ""}, 0, 0); err == nil {
		t.Fatalf("expected error encoding a table with an empty name")
	}
}

func TestEncodeSchemaPageRejectsOversizedName(t *testing.T) {
	name := make([]byte, maxNameLen+1)
	for i := range name {
		name[i] = 'x'
	}
	if _, err := encodeSchemaPage(1, &Table{Name: string(name)}, 0, 0); err == nil {
		t.Fatalf("expected error encoding a table whose name exceeds %d bytes", maxNameLen)
	}
}

func TestDecodeSchemaPageOnZeroPageFails(t *testing.T) {
	p := pager.NewPage(0)
	if _, err := decodeSchemaPage(p); err == nil {
		t.Fatalf("expected error decoding an all-zero page as a schema page")
	}
}

package storage

import (
	"fmt"

	"github.com/SentinelIS/IsentaDB/internal/pager"
)

// ───────────────────────────────────────────────────────────────────────────
// Schema page
// ───────────────────────────────────────────────────────────────────────────
//
// One schema page per table, chained from the header's schema_root. Layout
// (§3):
//
//	name_len u32, name bytes (1..=255 chars)
//	col_count u32; per column: col_name_len u32, col_name; type_len u32, type
//	data_page_id u64 (head of this table's row chain; 0 if none allocated)
//	next_schema_page_id u64 (0 = end of chain)
//
// A prior implementation located next_schema_page_id by reading the last
// 8 bytes of the page buffer, while the writer that placed it used the
// cursor offset — the two only agreed by accident, for tables small
// enough that nothing else occupied that space, and drifted apart as
// soon as a table's column list grew past whatever padding happened to
// be there. This package always computes both data_page_id's and
// next_schema_page_id's offsets from the cursor, for both reads and
// writes, and never touches the trailing bytes of the buffer directly.

const maxNameLen = 255

// schemaRecord is the decoded, non-row portion of a schema page.
type schemaRecord struct {
	Table       *Table
	DataPageID  uint64
	NextPageID  uint64
	dataPageOff int // offset of the data_page_id field within the page buffer
	nextPageOff int // offset of the next_schema_page_id field
}

// encodeSchemaPage writes a table's name, columns, data page id, and next
// pointer into a fresh page buffer. It fails if the encoding would not fit
// in one page.
func encodeSchemaPage(id uint64, table *Table, dataPageID, nextPageID uint64) (*pager.Page, error) {
	if len(table.Name) == 0 || len(table.Name) > maxNameLen {
		return nil, fmt.Errorf("storage: table name length %d out of range [1,%d]", len(table.Name), maxNameLen)
	}

	p := pager.NewPage(id)
	c := newCursor(p.Data[:])

	if !c.putString(table.Name) {
		return nil, fmt.Errorf("storage: table name %q does not fit in a page", table.Name)
	}
	if !c.putUint32(uint32(len(table.Columns))) {
		return nil, fmt.Errorf("storage: schema page overflow writing column count")
	}
	for _, col := range table.Columns {
		if !c.putString(col.Name) || !c.putString(col.DataType) {
			return nil, fmt.Errorf("storage: schema page overflow writing column %q", col.Name)
		}
	}
	if c.remaining() < 16 {
		return nil, fmt.Errorf("storage: schema page overflow writing trailing pointers")
	}
	c.putUint64(dataPageID)
	c.putUint64(nextPageID)
	return p, nil
}

// decodeSchemaPage parses a schema page's name, columns, and trailing
// pointers (but not its rows — see rows.go). It returns an error if any
// bounds check fails, which callers treat as "the chain ends here".
func decodeSchemaPage(p *pager.Page) (*schemaRecord, error) {
	c := newCursor(p.Data[:])

	name, err := c.getString(maxNameLen)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("storage: empty table name at page %d", p.ID)
	}

	colCount, err := c.getUint32()
	if err != nil {
		return nil, err
	}
	columns := make([]Column, 0, colCount)
	for i := uint32(0); i < colCount; i++ {
		colName, err := c.getString(0)
		if err != nil {
			return nil, err
		}
		dataType, err := c.getString(0)
		if err != nil {
			return nil, err
		}
		columns = append(columns, Column{Name: colName, DataType: dataType})
	}

	dataPageOff := c.off
	dataPageID, err := c.getUint64()
	if err != nil {
		return nil, err
	}
	nextPageOff := c.off
	nextPageID, err := c.getUint64()
	if err != nil {
		return nil, err
	}

	return &schemaRecord{
		Table:       &Table{Name: name, Columns: columns},
		DataPageID:  dataPageID,
		NextPageID:  nextPageID,
		dataPageOff: dataPageOff,
		nextPageOff: nextPageOff,
	}, nil
}

// patchUint64 rewrites an 8-byte little-endian field at a known offset
// within an already-decoded page's buffer, without re-encoding the rest of
// the page.
func patchUint64(p *pager.Page, offset int, value uint64) {
	c := &cursor{buf: p.Data[:], off: offset}
	c.putUint64(value)
}

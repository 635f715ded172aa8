package storage

import (
	"fmt"

	"github.com/SentinelIS/IsentaDB/internal/pager"
)

// ───────────────────────────────────────────────────────────────────────────
// Row pages
// ───────────────────────────────────────────────────────────────────────────
//
// A table's rows live in a singly-linked chain of row pages rooted at the
// table's schema page data_page_id. Layout (§3):
//
//	row_count u32
//	row_count rows, each: per declared column, a 1-byte type tag then payload
//	trailing next_row_page_id u64 (0 = end of chain)

func isZeroPage(p *pager.Page) bool {
	for _, b := range p.Data {
		if b != 0 {
			return false
		}
	}
	return true
}

// saveRowsToPages writes rows into a chain of row pages, reusing startPage
// as the head if hasStart is true (allocating a fresh page otherwise), and
// returns the head page actually written. Rows that don't fit on the head
// page spill onto newly allocated pages chained via next_row_page_id;
// reusing startPage never truncates any pre-existing tail beyond the first
// page — a previously longer chain's orphaned pages are simply never freed
// (there is no space reclamation in this format).
func saveRowsToPages(pgr *pager.Pager, rows []Row, columns []Column, startPage uint64, hasStart bool) (*pager.Page, error) {
	var page *pager.Page
	if hasStart {
		page = pager.NewPage(startPage)
	} else {
		allocated, err := pgr.AllocatePage()
		if err != nil {
			return nil, fmt.Errorf("storage: allocate row page: %w", err)
		}
		page = pager.NewPage(allocated.ID)
	}

	c := newCursor(page.Data[:])
	rowCountOff := c.off
	c.putUint32(0) // placeholder, patched below

	written := 0
	for _, row := range rows {
		rowStart := c.off
		ok := true
		for i, col := range columns {
			if i >= len(row.Values) {
				ok = false
				break
			}
			if !c.putValue(row.Values[i], col.DataType) {
				ok = false
				break
			}
		}
		// A row only counts as written if every column encoded and at
		// least 8 bytes remain for the trailing next_row_page_id.
		if !ok || c.remaining() < 8 {
			c.off = rowStart
			break
		}
		written++
	}

	(&cursor{buf: page.Data[:], off: rowCountOff}).putUint32(uint32(written))

	if written < len(rows) {
		next, err := saveRowsToPages(pgr, rows[written:], columns, 0, false)
		if err != nil {
			return nil, err
		}
		if c.remaining() < 8 {
			return nil, fmt.Errorf("storage: row page overflow writing next pointer")
		}
		c.putUint64(next.ID)
	} else {
		if c.remaining() < 8 {
			return nil, fmt.Errorf("storage: row page overflow writing terminator")
		}
		c.putUint64(0)
	}

	if err := pgr.WritePage(page); err != nil {
		return nil, err
	}
	return page, nil
}

// loadRowsFromChain walks a row-page chain starting at startPage, decoding
// rows against the given columns. It stops at the first empty (all-zero)
// page, when the chain terminates (next_row_page_id == 0), or as soon as a
// bounds check fails mid-row — at which point the page that failed is
// abandoned and nothing beyond it in the chain is read.
func loadRowsFromChain(pgr *pager.Pager, startPage uint64, columns []Column) []Row {
	var rows []Row
	pageID := startPage

	for pageID != 0 {
		page := pgr.ReadPage(pageID)
		if isZeroPage(page) {
			break
		}

		c := newCursor(page.Data[:])
		rowCount, err := c.getUint32()
		if err != nil {
			break
		}

		abandoned := false
		var pageRows []Row
		for i := uint32(0); i < rowCount; i++ {
			values := make([]string, 0, len(columns))
			rowOK := true
			for range columns {
				v, err := c.getValue()
				if err != nil {
					rowOK = false
					break
				}
				values = append(values, v)
			}
			if !rowOK {
				abandoned = true
				break
			}
			if len(values) == len(columns) {
				pageRows = append(pageRows, Row{Values: values})
			}
		}
		if abandoned {
			break
		}
		rows = append(rows, pageRows...)

		next, err := c.getUint64()
		if err != nil {
			break
		}
		if next == 0 {
			break
		}
		pageID = next
	}

	return rows
}

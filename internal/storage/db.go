package storage

import (
	"fmt"
	"log"
	"os"

	"github.com/SentinelIS/IsentaDB/internal/pager"
)

// Database is the persistence core: it owns a Pager and knows how to turn
// it into a file header, a schema-page chain, and per-table row-page
// chains. Every mutating call here issues its writes in the order the spec
// requires; there is no multi-page atomicity, so a crash mid-operation can
// leave torn state (O-4) — recoverable only by the self-repair LoadCatalog
// performs on the next open.
type Database struct {
	pager *pager.Pager
}

// Open opens (creating if necessary) the database file at path. A brand
// new (zero-length) file is formatted with a fresh header. An existing
// file is validated: a magic mismatch is a fatal ErrCorrupt, and a
// zero magic on a non-empty file is logged as a warning and left for
// LoadCatalog to degrade into an empty catalog.
func Open(path string) (*Database, error) {
	pgr, err := pager.Open(path)
	if err != nil {
		return nil, err
	}

	size, err := pgr.Size()
	if err != nil {
		pgr.Close()
		return nil, err
	}

	if size == 0 {
		h := &header{Magic: Magic, FormatVersion: FormatVersion, SchemaRoot: 0, TableCount: 0}
		if err := pgr.WritePage(h.marshal()); err != nil {
			pgr.Close()
			return nil, err
		}
		return &Database{pager: pgr}, nil
	}

	h, err := unmarshalHeader(pgr.ReadPage(HeaderPageID))
	if err != nil {
		pgr.Close()
		return nil, fmt.Errorf("storage: reading header: %w", err)
	}
	if h.Magic != 0 && h.Magic != Magic {
		pgr.Close()
		return nil, &ErrCorrupt{Reason: fmt.Sprintf("bad magic 0x%016x, expected 0x%016x", h.Magic, Magic)}
	}
	if h.Magic == 0 {
		log.Printf("storage: warning: database file has no valid header, attempting to load anyway")
	}

	return &Database{pager: pgr}, nil
}

// Close closes the underlying file.
func (db *Database) Close() error {
	return db.pager.Close()
}

// File exposes the underlying *os.File so callers can take an optional
// OS-level advisory lock on it (see internal/flock).
func (db *Database) File() *os.File {
	return db.pager.File()
}

func (db *Database) readHeader() (*header, error) {
	return unmarshalHeader(db.pager.ReadPage(HeaderPageID))
}

func (db *Database) writeHeader(h *header) error {
	return db.pager.WritePage(h.marshal())
}

// LoadCatalog reads the header and walks the schema chain, applying the
// repairs and defenses described in §4.3.2: a table_count/schema_root
// disagreement is repaired to the empty-catalog state; the chain walk
// tracks visited page ids to defend against cycles; an invalid or empty
// page stops the walk early; and if fewer tables were decoded than
// table_count promised, the header's count is repaired downward to match
// what was actually readable. Every repair is logged as a warning.
func (db *Database) LoadCatalog() (*Catalog, error) {
	h, err := db.readHeader()
	if err != nil {
		return nil, fmt.Errorf("storage: loading header: %w", err)
	}

	if h.TableCount == 0 && h.SchemaRoot != 0 {
		log.Printf("storage: warning: table_count=0 but schema_root=%d, repairing", h.SchemaRoot)
		h.SchemaRoot = 0
		if err := db.writeHeader(h); err != nil {
			return nil, err
		}
		return NewCatalog(), nil
	}
	if h.SchemaRoot == 0 && h.TableCount != 0 {
		log.Printf("storage: warning: schema_root=0 but table_count=%d, repairing", h.TableCount)
		h.TableCount = 0
		if err := db.writeHeader(h); err != nil {
			return nil, err
		}
		return NewCatalog(), nil
	}

	catalog := NewCatalog()
	visited := make(map[uint64]bool)
	pageID := h.SchemaRoot
	var loaded uint32

	for loaded < h.TableCount && pageID != 0 {
		if visited[pageID] {
			log.Printf("storage: warning: cycle detected in schema chain at page %d, stopping", pageID)
			break
		}
		visited[pageID] = true

		page := db.pager.ReadPage(pageID)
		if isZeroPage(page) {
			log.Printf("storage: warning: empty schema page at %d, stopping", pageID)
			break
		}

		rec, err := decodeSchemaPage(page)
		if err != nil {
			log.Printf("storage: warning: invalid schema page at %d: %v, stopping", pageID, err)
			break
		}

		if rec.DataPageID != 0 {
			rec.Table.Rows = loadRowsFromChain(db.pager, rec.DataPageID, rec.Table.Columns)
		}
		catalog.AddTable(rec.Table)
		loaded++
		pageID = rec.NextPageID
	}

	if loaded != h.TableCount {
		log.Printf("storage: warning: expected %d tables but loaded %d, repairing table_count", h.TableCount, loaded)
		h.TableCount = loaded
		if err := db.writeHeader(h); err != nil {
			return nil, err
		}
	}

	return catalog, nil
}

// findTableSchemaPage linearly scans the schema chain for a table matching
// name under case folding, returning its schema page id and decoded
// record.
func (db *Database) findTableSchemaPage(name string) (uint64, *schemaRecord, bool) {
	h, err := db.readHeader()
	if err != nil || h.SchemaRoot == 0 {
		return 0, nil, false
	}

	pageID := h.SchemaRoot
	visited := make(map[uint64]bool)
	for pageID != 0 {
		if visited[pageID] {
			break
		}
		visited[pageID] = true

		page := db.pager.ReadPage(pageID)
		if isZeroPage(page) {
			break
		}
		rec, err := decodeSchemaPage(page)
		if err != nil {
			break
		}
		if foldEqual(rec.Table.Name, name) {
			return pageID, rec, true
		}
		pageID = rec.NextPageID
	}
	return 0, nil, false
}

// CreateTable persists a brand new table: its schema page, its row chain
// (or a single empty row page if it has no rows yet), the schema-chain
// patch linking it in, and the incremented header table_count (§4.3.3).
func (db *Database) CreateTable(table *Table) error {
	var dataPageID uint64
	if len(table.Rows) > 0 {
		headPage, err := saveRowsToPages(db.pager, table.Rows, table.Columns, 0, false)
		if err != nil {
			return fmt.Errorf("storage: writing rows for new table %q: %w", table.Name, err)
		}
		dataPageID = headPage.ID
	} else {
		empty, err := db.pager.AllocatePage()
		if err != nil {
			return fmt.Errorf("storage: allocating empty row page for %q: %w", table.Name, err)
		}
		dataPageID = empty.ID
	}

	schemaAlloc, err := db.pager.AllocatePage()
	if err != nil {
		return fmt.Errorf("storage: allocating schema page for %q: %w", table.Name, err)
	}
	schemaPage, err := encodeSchemaPage(schemaAlloc.ID, table, dataPageID, 0)
	if err != nil {
		return fmt.Errorf("storage: encoding schema for %q: %w", table.Name, err)
	}

	h, err := db.readHeader()
	if err != nil {
		return err
	}
	if h.SchemaRoot == 0 {
		h.SchemaRoot = schemaAlloc.ID
		if err := db.writeHeader(h); err != nil {
			return err
		}
	} else {
		pageID := h.SchemaRoot
		for {
			page := db.pager.ReadPage(pageID)
			rec, err := decodeSchemaPage(page)
			if err != nil {
				return fmt.Errorf("storage: walking schema chain to append %q: %w", table.Name, err)
			}
			if rec.NextPageID == 0 {
				patchUint64(page, rec.nextPageOff, schemaAlloc.ID)
				if err := db.pager.WritePage(page); err != nil {
					return err
				}
				break
			}
			pageID = rec.NextPageID
		}
	}

	if err := db.pager.WritePage(schemaPage); err != nil {
		return fmt.Errorf("storage: writing schema page for %q: %w", table.Name, err)
	}

	h, err = db.readHeader()
	if err != nil {
		return err
	}
	h.TableCount++
	if h.SchemaRoot == 0 {
		h.SchemaRoot = schemaAlloc.ID
	}
	return db.writeHeader(h)
}

// UpdateTableData rewrites a table's row chain to match its current
// in-memory rows (§4.3.4). It reuses the existing data_page_id as the head
// page so the schema page need only be patched when the rewrite's head
// page id changes — which happens only when no data page had been
// allocated yet. If the table has no schema page on disk at all (it
// should, but defensively), it is created as new instead.
func (db *Database) UpdateTableData(table *Table) error {
	pageID, rec, found := db.findTableSchemaPage(table.Name)
	if !found {
		return db.CreateTable(table)
	}

	var headPage *pager.Page
	var err error
	if rec.DataPageID != 0 {
		headPage, err = saveRowsToPages(db.pager, table.Rows, table.Columns, rec.DataPageID, true)
	} else {
		headPage, err = saveRowsToPages(db.pager, table.Rows, table.Columns, 0, false)
	}
	if err != nil {
		return fmt.Errorf("storage: rewriting rows for %q: %w", table.Name, err)
	}

	if headPage.ID != rec.DataPageID {
		schemaPage := db.pager.ReadPage(pageID)
		patchUint64(schemaPage, rec.dataPageOff, headPage.ID)
		if err := db.pager.WritePage(schemaPage); err != nil {
			return fmt.Errorf("storage: patching data_page_id for %q: %w", table.Name, err)
		}
	}
	return nil
}

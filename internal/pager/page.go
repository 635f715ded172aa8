// Package pager implements fixed-size page I/O over a single database file.
//
// A database is a flat sequence of 4 KiB pages addressed by a zero-based
// page id; byte offset in the file is id * PageSize. Page 0 is reserved for
// the file header (see package storage). The pager performs no caching and
// no concurrency control: every call is a direct read, write, or allocation
// against the underlying file. Higher layers (storage.Database) are
// responsible for interpreting page contents and for chaining pages
// together with on-disk page ids.
package pager

import (
	"fmt"
	"io"
	"os"
)

// PageSize is the fixed size, in bytes, of every page in an Isenta database
// file. It is not configurable: the on-disk format has no page-size field,
// unlike formats that negotiate page size at creation time.
const PageSize = 4096

// Page is a single fixed-size block read from or destined for the database
// file. Data is always exactly PageSize bytes long.
type Page struct {
	ID   uint64
	Data [PageSize]byte
}

// NewPage returns a zero-filled page with the given id.
func NewPage(id uint64) *Page {
	return &Page{ID: id}
}

// Pager owns the database file handle and performs page-granular I/O.
// A Pager has no in-memory cache: ReadPage always issues a seek+read and
// WritePage always issues a seek+write+flush. This keeps the implementation
// simple and correctness-first for a REPL-scale, single-process workload;
// a real cache would need a write-ahead log to stay crash-consistent, which
// is explicitly out of scope here.
type Pager struct {
	file *os.File
}

// Open opens (creating if necessary) the database file at path for
// read+write access and returns a Pager over it. The caller is responsible
// for calling Close when done.
func Open(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pager: open %s: %w", path, err)
	}
	return &Pager{file: f}, nil
}

// Close flushes nothing further (every write is already flushed) and closes
// the underlying file.
func (p *Pager) Close() error {
	return p.file.Close()
}

// File exposes the underlying *os.File, e.g. so callers can take an
// advisory OS-level lock on it (see package flock).
func (p *Pager) File() *os.File {
	return p.file
}

// Size returns the current length of the database file in bytes.
func (p *Pager) Size() (int64, error) {
	fi, err := p.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("pager: stat: %w", err)
	}
	return fi.Size(), nil
}

// ReadPage reads the page with the given id. If the page's byte range lies
// entirely beyond the end of the file, a zero-filled page is returned with
// no error — sparse reads and reads just past end-of-file are "empty" pages,
// not failures. I/O errors encountered while reading a page that does exist
// degrade to a zero-filled page as well: a best-effort resilience to a
// truncated or otherwise damaged file, consistent with the self-repair the
// storage layer performs on load.
func (p *Pager) ReadPage(id uint64) *Page {
	page := NewPage(id)

	size, err := p.Size()
	if err != nil || size <= int64(id)*PageSize {
		return page
	}

	off := int64(id) * PageSize
	n, err := p.file.ReadAt(page.Data[:], off)
	if err != nil && err != io.EOF {
		// Degrade to a fresh zero-filled page rather than propagate; any
		// bytes already copied into page.Data are discarded.
		return NewPage(id)
	}
	_ = n
	return page
}

// WritePage writes the page at its id's offset and flushes. Any I/O error
// here is fatal to the caller: writes are the one place this package does
// not self-heal.
func (p *Pager) WritePage(page *Page) error {
	off := int64(page.ID) * PageSize
	if _, err := p.file.WriteAt(page.Data[:], off); err != nil {
		return fmt.Errorf("pager: write page %d: %w", page.ID, err)
	}
	if err := p.file.Sync(); err != nil {
		return fmt.Errorf("pager: sync after page %d: %w", page.ID, err)
	}
	return nil
}

// AllocatePage appends a fresh, zero-filled page to the end of the file and
// returns it. The returned page's id is guaranteed unused by any prior
// write. Pages are never freed: there is no space reclamation in this
// format (see package storage for the rationale).
func (p *Pager) AllocatePage() (*Page, error) {
	size, err := p.Size()
	if err != nil {
		return nil, err
	}
	id := uint64(size) / PageSize
	page := NewPage(id)
	if err := p.WritePage(page); err != nil {
		return nil, fmt.Errorf("pager: allocate page %d: %w", id, err)
	}
	return page, nil
}

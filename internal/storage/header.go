package storage

import (
	"fmt"

	"github.com/SentinelIS/IsentaDB/internal/pager"
)

// Magic identifies an Isenta database file: the u64 whose big-endian bytes
// spell "ISENTADB". It is stored little-endian like every other integer, so
// the first eight bytes of the file read "BDATNESI".
const Magic uint64 = 0x4953454E54414442

// FormatVersion is the current on-disk format version.
const FormatVersion uint32 = 1

// HeaderPageID is the page holding the file header; always page 0.
const HeaderPageID uint64 = 0

// header mirrors the first 24 bytes of page 0 (§3):
//
//	0..8   magic            u64 LE
//	8..12  format_version   u32 LE
//	12..20 schema_root      u64 LE  (0 = no tables)
//	20..24 table_count      u32 LE
//	24..   reserved, zero
type header struct {
	Magic         uint64
	FormatVersion uint32
	SchemaRoot    uint64
	TableCount    uint32
}

func (h *header) marshal() *pager.Page {
	p := pager.NewPage(HeaderPageID)
	c := newCursor(p.Data[:])
	c.putUint64(h.Magic)
	c.putUint32(h.FormatVersion)
	c.putUint64(h.SchemaRoot)
	c.putUint32(h.TableCount)
	return p
}

func unmarshalHeader(p *pager.Page) (*header, error) {
	c := newCursor(p.Data[:])
	magic, err := c.getUint64()
	if err != nil {
		return nil, err
	}
	version, err := c.getUint32()
	if err != nil {
		return nil, err
	}
	root, err := c.getUint64()
	if err != nil {
		return nil, err
	}
	count, err := c.getUint32()
	if err != nil {
		return nil, err
	}
	return &header{Magic: magic, FormatVersion: version, SchemaRoot: root, TableCount: count}, nil
}

// ErrCorrupt signals a fatal, unrecoverable structural problem: a magic
// mismatch on a non-empty file. The caller must refuse to proceed rather
// than overwrite or "fix" it.
type ErrCorrupt struct {
	Reason string
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("storage: corrupt database file: %s", e.Reason)
}

package storage

import (
	"encoding/binary"
	"fmt"
)

// ───────────────────────────────────────────────────────────────────────────
// Binary codec
// ───────────────────────────────────────────────────────────────────────────
//
// All multi-byte integers in the on-disk format are little-endian. Strings
// are length-prefixed UTF-8 with no terminator. Encoding is positional: a
// cursor is threaded through every read/write so callers never have to
// recompute offsets by hand. Any write that would overrun the page aborts
// the page (see schema.go and rows.go), and any read that runs past the
// buffer returns an error rather than panicking.

// Value type tags, one byte, prefixed to every encoded field.
const (
	TypeNull byte = 0
	TypeInt  byte = 1
	TypeText byte = 2
)

// cursor is a small helper around a fixed page buffer that tracks a
// read/write offset and refuses to step past the buffer's bounds.
type cursor struct {
	buf []byte
	off int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// remaining reports how many bytes are left before the end of the buffer.
func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) putUint32(v uint32) bool {
	if c.remaining() < 4 {
		return false
	}
	binary.LittleEndian.PutUint32(c.buf[c.off:], v)
	c.off += 4
	return true
}

func (c *cursor) putUint64(v uint64) bool {
	if c.remaining() < 8 {
		return false
	}
	binary.LittleEndian.PutUint64(c.buf[c.off:], v)
	c.off += 8
	return true
}

func (c *cursor) putInt64(v int64) bool {
	return c.putUint64(uint64(v))
}

func (c *cursor) putString(s string) bool {
	b := []byte(s)
	if c.remaining() < 4+len(b) {
		return false
	}
	c.putUint32(uint32(len(b)))
	copy(c.buf[c.off:], b)
	c.off += len(b)
	return true
}

func (c *cursor) putByte(b byte) bool {
	if c.remaining() < 1 {
		return false
	}
	c.buf[c.off] = b
	c.off++
	return true
}

func (c *cursor) getUint32() (uint32, error) {
	if c.remaining() < 4 {
		return 0, fmt.Errorf("storage: cursor overrun reading uint32 at offset %d", c.off)
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v, nil
}

func (c *cursor) getUint64() (uint64, error) {
	if c.remaining() < 8 {
		return 0, fmt.Errorf("storage: cursor overrun reading uint64 at offset %d", c.off)
	}
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

func (c *cursor) getInt64() (int64, error) {
	v, err := c.getUint64()
	return int64(v), err
}

func (c *cursor) getByte() (byte, error) {
	if c.remaining() < 1 {
		return 0, fmt.Errorf("storage: cursor overrun reading byte at offset %d", c.off)
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

func (c *cursor) getString(maxLen int) (string, error) {
	n, err := c.getUint32()
	if err != nil {
		return "", err
	}
	if maxLen > 0 && int(n) > maxLen {
		return "", fmt.Errorf("storage: string length %d exceeds max %d", n, maxLen)
	}
	if c.remaining() < int(n) {
		return "", fmt.Errorf("storage: cursor overrun reading %d-byte string at offset %d", n, c.off)
	}
	s := string(c.buf[c.off : c.off+int(n)])
	c.off += int(n)
	return s, nil
}

// putValue encodes a single row value under the declared column type,
// choosing the on-disk tag the way §4.2 prescribes: INT/INTEGER columns
// whose value parses as an i64 get TYPE_INT, any other declared type (and
// any INT/INTEGER value that fails to parse) gets TYPE_TEXT, and the empty
// string always gets TYPE_NULL. Returns false if the value would not fit in
// the remaining space, in which case putValue leaves the cursor where it
// was; rewinding a partly written row is the caller's job (see rows.go).
func (c *cursor) putValue(value string, columnType string) bool {
	if value == "" {
		return c.putByte(TypeNull)
	}
	if isIntegerType(columnType) {
		if n, err := parseInt64(value); err == nil {
			start := c.off
			if !c.putByte(TypeInt) || !c.putInt64(n) {
				c.off = start
				return false
			}
			return true
		}
	}
	start := c.off
	if !c.putByte(TypeText) || !c.putString(value) {
		c.off = start
		return false
	}
	return true
}

// getValue decodes a single tagged field, returning it as the textual
// surface representation used everywhere above the storage layer: the
// decimal form of an integer, the literal text, or "" for NULL. An unknown
// tag falls back to the legacy u32-length + UTF-8 encoding, for
// compatibility with pages written before tagging was introduced.
func (c *cursor) getValue() (string, error) {
	tag, err := c.getByte()
	if err != nil {
		return "", err
	}
	switch tag {
	case TypeNull:
		return "", nil
	case TypeInt:
		n, err := c.getInt64()
		if err != nil {
			return "", err
		}
		return formatInt64(n), nil
	case TypeText:
		return c.getString(0)
	default:
		// Legacy fallback: the "tag" byte is really the low byte of a
		// little-endian u32 length prefix, so re-read from the tag's
		// position as a plain length-prefixed string.
		c.off--
		return c.getString(0)
	}
}

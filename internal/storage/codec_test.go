package storage

import "testing"

func TestCursorPutGetUint32(t *testing.T) {
	buf := make([]byte, 8)
	c := newCursor(buf)
	if !c.putUint32(42) {
		t.Fatalf("putUint32 failed")
	}
	c2 := newCursor(buf)
	got, err := c2.getUint32()
	if err != nil {
		t.Fatalf("getUint32: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestCursorOverrun(t *testing.T) {
	buf := make([]byte, 2)
	c := newCursor(buf)
	if c.putUint32(1) {
		t.Fatalf("expected putUint32 to fail on a 2-byte buffer")
	}
	if _, err := newCursor(buf).getUint64(); err == nil {
		t.Fatalf("expected getUint64 to fail on a 2-byte buffer")
	}
}

func TestPutGetValueNull(t *testing.T) {
	buf := make([]byte, 16)
	c := newCursor(buf)
	if !c.putValue("", "TEXT") {
		t.Fatalf("putValue(\"\") failed")
	}
	v, err := newCursor(buf).getValue()
	if err != nil {
		t.Fatalf("getValue: %v", err)
	}
	if v != "" {
		t.Fatalf("expected empty string for NULL, got %q", v)
	}
}

func TestPutGetValueInt(t *testing.T) {
	buf := make([]byte, 16)
	c := newCursor(buf)
	if !c.putValue("42", "INTEGER") {
		t.Fatalf("putValue failed")
	}
	if buf[0] != TypeInt {
		t.Fatalf("expected TypeInt tag, got %d", buf[0])
	}
	v, err := newCursor(buf).getValue()
	if err != nil {
		t.Fatalf("getValue: %v", err)
	}
	if v != "42" {
		t.Fatalf("expected \"42\", got %q", v)
	}
}

func TestPutValueIntFallsBackToTextOnParseFailure(t *testing.T) {
	buf := make([]byte, 32)
	c := newCursor(buf)
	if !c.putValue("not-a-number", "INT") {
		t.Fatalf("putValue failed")
	}
	if buf[0] != TypeText {
		t.Fatalf("expected TypeText tag for a non-parsing INT value, got %d", buf[0])
	}
	v, err := newCursor(buf).getValue()
	if err != nil {
		t.Fatalf("getValue: %v", err)
	}
	if v != "not-a-number" {
		t.Fatalf("expected the literal text back, got %q", v)
	}
}

func TestPutGetValueText(t *testing.T) {
	buf := make([]byte, 32)
	c := newCursor(buf)
	if !c.putValue("hello", "TEXT") {
		t.Fatalf("putValue failed")
	}
	v, err := newCursor(buf).getValue()
	if err != nil {
		t.Fatalf("getValue: %v", err)
	}
	if v != "hello" {
		t.Fatalf("expected \"hello\", got %q", v)
	}
}

func TestGetValueLegacyFallback(t *testing.T) {
	// A pre-tagging page: a plain u32 length-prefixed string with no tag
	// byte. The first byte of the length (little-endian, small string)
	// will look like an unknown tag, so getValue should rewind and
	// re-read it as a bare string.
	buf := make([]byte, 32)
	c := newCursor(buf)
	if !c.putString("legacy") {
		t.Fatalf("putString failed")
	}
	v, err := newCursor(buf).getValue()
	if err != nil {
		t.Fatalf("getValue: %v", err)
	}
	if v != "legacy" {
		t.Fatalf("expected legacy fallback to decode %q, got %q", "legacy", v)
	}
}

func TestPutValueRollsBackOnOverflow(t *testing.T) {
	buf := make([]byte, 3)
	c := newCursor(buf)
	start := c.off
	if c.putValue("hello", "TEXT") {
		t.Fatalf("expected putValue to fail on an undersized buffer")
	}
	if c.off != start {
		t.Fatalf("expected cursor to roll back to %d, got %d", start, c.off)
	}
}

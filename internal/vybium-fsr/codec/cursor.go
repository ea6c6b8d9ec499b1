package codec

import (
	"bytes"
	"encoding/binary"
)

// Cursor is a read position over an input slice.
type Cursor struct {
	buf []byte
}

// NewCursor returns a cursor at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Remaining returns the unread input. The slice aliases the original input.
func (c *Cursor) Remaining() []byte {
	return c.buf
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Empty reports whether all input has been consumed.
func (c *Cursor) Empty() bool {
	return len(c.buf) == 0
}

// Expect consumes tag if the input starts with it.
func (c *Cursor) Expect(tag []byte) bool {
	if !bytes.HasPrefix(c.buf, tag) {
		return false
	}
	c.buf = c.buf[len(tag):]
	return true
}

// Uint8 reads one byte.
func (c *Cursor) Uint8() (uint8, bool) {
	if len(c.buf) < 1 {
		return 0, false
	}
	v := c.buf[0]
	c.buf = c.buf[1:]
	return v, true
}

// Uint16 reads a little-endian u16.
func (c *Cursor) Uint16() (uint16, bool) {
	if len(c.buf) < 2 {
		return 0, false
	}
	v := binary.LittleEndian.Uint16(c.buf)
	c.buf = c.buf[2:]
	return v, true
}

// Uint32 reads a little-endian u32.
func (c *Cursor) Uint32() (uint32, bool) {
	if len(c.buf) < 4 {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(c.buf)
	c.buf = c.buf[4:]
	return v, true
}

// Uint64 reads a little-endian u64.
func (c *Cursor) Uint64() (uint64, bool) {
	if len(c.buf) < 8 {
		return 0, false
	}
	v := binary.LittleEndian.Uint64(c.buf)
	c.buf = c.buf[8:]
	return v, true
}

// Bytes reads exactly n bytes and returns a copy.
func (c *Cursor) Bytes(n int) ([]byte, bool) {
	if n < 0 || len(c.buf) < n {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, c.buf[:n])
	c.buf = c.buf[n:]
	return out, true
}

// LengthPrefixed reads a u32 length and that many bytes.
func (c *Cursor) LengthPrefixed() ([]byte, bool) {
	save := c.buf
	n, ok := c.Uint32()
	if !ok || uint64(n) > uint64(len(c.buf)) {
		c.buf = save
		return nil, false
	}
	return c.Bytes(int(n))
}

// List reads count:u32 followed by count length-prefixed items. The cursor
// is restored if any item is truncated.
func (c *Cursor) List() ([][]byte, bool) {
	save := c.buf
	count, ok := c.Uint32()
	if !ok {
		return nil, false
	}
	// each item carries at least its 4-byte length
	if uint64(count)*4 > uint64(len(c.buf)) {
		c.buf = save
		return nil, false
	}
	items := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		item, ok := c.LengthPrefixed()
		if !ok {
			c.buf = save
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

// Mark is a saved cursor position.
type Mark struct {
	buf []byte
}

// Mark returns the current position.
func (c *Cursor) Mark() Mark {
	return Mark{buf: c.buf}
}

// Reset rewinds the cursor to m.
func (c *Cursor) Reset(m Mark) {
	c.buf = m.buf
}

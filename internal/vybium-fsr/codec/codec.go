// Package codec defines the canonical byte encoding every value crosses
// before it is hashed or parsed.
//
// Encoding is append-style and deterministic. Decoding consumes a prefix of a
// Cursor and never over-reads: every read is validated against the remaining
// input first, and a failed read leaves the cursor where it was.
package codec

import "encoding/binary"

// Encoder appends a deterministic encoding of the receiver to out.
type Encoder interface {
	Encode(out []byte) []byte
}

// Decoder fills the receiver from the front of c. It returns false on
// truncated or malformed input and must not advance c in that case.
type Decoder interface {
	Decode(c *Cursor) bool
}

// Marshal returns the canonical encoding of e.
func Marshal(e Encoder) []byte {
	return e.Encode(nil)
}

// Unmarshal decodes b into d and requires the whole input to be consumed.
func Unmarshal(b []byte, d Decoder) bool {
	c := NewCursor(b)
	if !d.Decode(c) {
		return false
	}
	return c.Empty()
}

// AppendUint16 appends v little-endian.
func AppendUint16(out []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(out, v)
}

// AppendUint32 appends v little-endian.
func AppendUint32(out []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(out, v)
}

// AppendUint64 appends v little-endian.
func AppendUint64(out []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(out, v)
}

// AppendLengthPrefixed appends len(b) as u32 followed by b.
func AppendLengthPrefixed(out, b []byte) []byte {
	out = AppendUint32(out, uint32(len(b)))
	return append(out, b...)
}

// AppendList appends count:u32 followed by (len:u32, bytes) per item.
func AppendList(out []byte, items [][]byte) []byte {
	out = AppendUint32(out, uint32(len(items)))
	for _, item := range items {
		out = AppendLengthPrefixed(out, item)
	}
	return out
}

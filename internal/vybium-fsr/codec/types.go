package codec

// U64 is a u64 encoded as 8 little-endian bytes.
type U64 uint64

// Encode appends the little-endian encoding.
func (v U64) Encode(out []byte) []byte {
	return AppendUint64(out, uint64(v))
}

// Decode reads 8 bytes.
func (v *U64) Decode(c *Cursor) bool {
	x, ok := c.Uint64()
	if !ok {
		return false
	}
	*v = U64(x)
	return true
}

// Bytes is raw bytes with no framing. Decoding consumes the rest of the
// input, so Bytes is only valid as the last field of a record.
type Bytes []byte

// Encode appends the bytes verbatim.
func (b Bytes) Encode(out []byte) []byte {
	return append(out, b...)
}

// Decode consumes the remaining input.
func (b *Bytes) Decode(c *Cursor) bool {
	v, _ := c.Bytes(c.Len())
	*b = v
	return true
}

// Blob is a u32 length-prefixed byte string.
type Blob []byte

// Encode appends len:u32 and the bytes.
func (b Blob) Encode(out []byte) []byte {
	return AppendLengthPrefixed(out, b)
}

// Decode reads a length-prefixed byte string.
func (b *Blob) Decode(c *Cursor) bool {
	v, ok := c.LengthPrefixed()
	if !ok {
		return false
	}
	*b = v
	return true
}

var (
	_ Encoder = U64(0)
	_ Decoder = (*U64)(nil)
	_ Encoder = Bytes(nil)
	_ Decoder = (*Bytes)(nil)
	_ Encoder = Blob(nil)
	_ Decoder = (*Blob)(nil)
)

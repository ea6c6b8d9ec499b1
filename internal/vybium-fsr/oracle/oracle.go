// Package oracle is the random-oracle layer shared by the FS and Fischlin
// transforms: a pluggable hash facade, the absorb/challenge capabilities, and
// HashOracle, the classic one-shot Fiat-Shamir oracle.
package oracle

import (
	"encoding/binary"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"
)

const (
	// FullDigestLen is the length of HFull outputs.
	FullDigestLen = 64
	// DigestLen is the length of H outputs.
	DigestLen = 32
	// MaxTruncBits is the widest predicate TruncBits supports.
	MaxTruncBits = 56
)

// RandomOracle is a label-separated hash. Both methods are pure functions of
// (label, data).
type RandomOracle interface {
	// HFull returns a FullDigestLen digest, used for transcript steps and the
	// Fischlin common hash.
	HFull(label string, data []byte) []byte
	// H returns a DigestLen digest meant to be truncated.
	H(label string, data []byte) []byte
}

// Absorber appends labeled bytes to oracle state. Absorption order is part
// of the state: the same labeled bytes absorbed in a different order give a
// different oracle.
type Absorber interface {
	AbsorbBytes(label string, data []byte)
}

// Challenge is a value an oracle can derive. FromOracleBytes reduces a digest
// into the value's domain (for example modulo a group order); the reduction
// belongs to the calling protocol.
type Challenge interface {
	codec.Encoder
	FromOracleBytes(label string, digest []byte) error
}

// Oracle absorbs and derives typed challenges.
type Oracle interface {
	Absorber
	Challenge(label string, dst Challenge) error
}

// TruncBits returns the low b bits of the little-endian prefix of digest.
// b above MaxTruncBits or a digest shorter than ceil(b/8) bytes is a bug in
// the caller and panics.
func TruncBits(digest []byte, b uint8) uint64 {
	if b > MaxTruncBits {
		panic("oracle: TruncBits supports b <= 56")
	}
	take := (int(b) + 7) / 8
	if take == 0 {
		take = 1
	}
	var buf [8]byte
	copy(buf[:], digest[:take])
	v := binary.LittleEndian.Uint64(buf[:])
	return v & (1<<b - 1)
}

// U64Challenge is a challenge taken from the first 8 digest bytes.
type U64Challenge uint64

// FromOracleBytes reads the first 8 bytes little-endian.
func (c *U64Challenge) FromOracleBytes(_ string, digest []byte) error {
	if len(digest) < 8 {
		return errs.Malformedf("digest too short for u64 challenge: %d bytes", len(digest))
	}
	*c = U64Challenge(binary.LittleEndian.Uint64(digest))
	return nil
}

// Encode appends the 8-byte little-endian value.
func (c U64Challenge) Encode(out []byte) []byte {
	return codec.AppendUint64(out, uint64(c))
}

// Decode reads 8 bytes.
func (c *U64Challenge) Decode(cur *codec.Cursor) bool {
	v, ok := cur.Uint64()
	if !ok {
		return false
	}
	*c = U64Challenge(v)
	return true
}

// frame builds the unambiguous byte string hashed by the counter-mode
// backends: mode | ctr:u32 | len(label):u32 | label | data.
func frame(mode byte, ctr uint32, label string, data []byte) []byte {
	out := make([]byte, 0, 9+len(label)+len(data))
	out = append(out, mode)
	out = codec.AppendUint32(out, ctr)
	out = codec.AppendUint32(out, uint32(len(label)))
	out = append(out, label...)
	return append(out, data...)
}

// Package toy is Schnorr's protocol over the additive group Z_p. Discrete
// logs are trivial here, so it proves nothing; it exists to exercise the
// transforms end to end with readable numbers.
package toy

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"
)

// DefaultModulus is the Mersenne prime 2^31 - 1.
const DefaultModulus = 1<<31 - 1

// Group is Z_p under addition. p stays below 2^32 so products fit in a u64.
type Group struct {
	p uint64
}

// NewGroup returns Z_p.
func NewGroup(p uint64) (*Group, error) {
	if p < 3 || p >= 1<<32 {
		return nil, fmt.Errorf("toy modulus %d outside [3, 2^32)", p)
	}
	return &Group{p: p}, nil
}

// Modulus returns p.
func (g *Group) Modulus() uint64 {
	return g.p
}

func (g *Group) add(a, b uint64) uint64 {
	return (a%g.p + b%g.p) % g.p
}

func (g *Group) mul(a, b uint64) uint64 {
	return (a % g.p) * (b % g.p) % g.p
}

// Scalar returns v reduced into the group.
func (g *Group) Scalar(v uint64) Scalar {
	return Scalar{V: v % g.p, mod: g.p}
}

// Scalar is an element of Z_p. It doubles as the challenge type.
type Scalar struct {
	V   uint64
	mod uint64
}

// FromOracleBytes reduces the first 8 digest bytes modulo p.
func (s *Scalar) FromOracleBytes(_ string, digest []byte) error {
	if s.mod == 0 {
		return errs.Malformed("scalar has no modulus")
	}
	if len(digest) < 8 {
		return errs.Malformedf("digest too short for scalar: %d bytes", len(digest))
	}
	s.V = binary.LittleEndian.Uint64(digest) % s.mod
	return nil
}

// Encode appends V as 8 little-endian bytes.
func (s Scalar) Encode(out []byte) []byte {
	return codec.AppendUint64(out, s.V)
}

// Decode reads 8 bytes and rejects values not reduced modulo p when the
// modulus is known.
func (s *Scalar) Decode(c *codec.Cursor) bool {
	mark := c.Mark()
	v, ok := c.Uint64()
	if !ok {
		return false
	}
	if s.mod != 0 && v >= s.mod {
		c.Reset(mark)
		return false
	}
	s.V = v
	return true
}

func (g *Group) decode(b []byte) (uint64, bool) {
	s := Scalar{mod: g.p}
	if !codec.Unmarshal(b, &s) {
		return 0, false
	}
	return s.V, true
}

// decodeChallenge reads a little-endian challenge of up to 8 bytes.
func decodeChallenge(e []byte) (uint64, bool) {
	if len(e) == 0 || len(e) > 8 {
		return 0, false
	}
	var buf [8]byte
	copy(buf[:], e)
	return binary.LittleEndian.Uint64(buf[:]), true
}

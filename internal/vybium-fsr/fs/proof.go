package fs

import (
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// Tag opens every encoded FS proof.
var Tag = []byte("FS\x00")

// Proof is an FS proof: one first message and one response per repetition,
// plus the challenge width needed to re-derive the challenges.
type Proof struct {
	M   [][]byte
	Z   [][]byte
	Rho uint16
	B   uint8
}

// WellFormed reports whether the lists match Rho and B is usable.
func (p *Proof) WellFormed() bool {
	if p == nil || p.Rho == 0 || p.B == 0 || p.B > oracle.MaxTruncBits {
		return false
	}
	return len(p.M) == int(p.Rho) && len(p.Z) == int(p.Rho)
}

// Encode appends "FS\0" | rho:u16 | b:u8 | list<m> | list<z>.
func (p *Proof) Encode(out []byte) []byte {
	out = append(out, Tag...)
	out = codec.AppendUint16(out, p.Rho)
	out = append(out, p.B)
	out = codec.AppendList(out, p.M)
	return codec.AppendList(out, p.Z)
}

// Decode reads a proof from the front of c.
func (p *Proof) Decode(c *codec.Cursor) bool {
	mark := c.Mark()
	fail := func() bool {
		c.Reset(mark)
		return false
	}
	if !c.Expect(Tag) {
		return false
	}
	rho, ok := c.Uint16()
	if !ok {
		return fail()
	}
	b, ok := c.Uint8()
	if !ok {
		return fail()
	}
	m, ok := c.List()
	if !ok {
		return fail()
	}
	z, ok := c.List()
	if !ok {
		return fail()
	}
	*p = Proof{M: m, Z: z, Rho: rho, B: b}
	return true
}

// Bytes returns the canonical encoding.
func (p *Proof) Bytes() []byte {
	return p.Encode(nil)
}

// DecodeProof parses a whole FS proof. Trailing bytes are rejected.
func DecodeProof(b []byte) (*Proof, bool) {
	var p Proof
	if !codec.Unmarshal(b, &p) {
		return nil, false
	}
	return &p, true
}

var (
	_ codec.Encoder = (*Proof)(nil)
	_ codec.Decoder = (*Proof)(nil)
)

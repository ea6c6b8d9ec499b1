package fischlin

import (
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
)

// Tag opens every encoded Fischlin proof.
var Tag = []byte("FISCHLIN\x00")

// Proof holds one (m, e, z) triple per repetition.
type Proof struct {
	M   [][]byte
	E   [][]byte
	Z   [][]byte
	B   uint8
	Rho uint16
}

// WellFormed reports whether every list has exactly Rho entries.
func (p *Proof) WellFormed() bool {
	if p == nil {
		return false
	}
	n := int(p.Rho)
	return len(p.M) == n && len(p.E) == n && len(p.Z) == n
}

// Encode appends "FISCHLIN\0" | rho:u16 | b:u8 | list<m> | list<e> | list<z>.
func (p *Proof) Encode(out []byte) []byte {
	out = append(out, Tag...)
	out = codec.AppendUint16(out, p.Rho)
	out = append(out, p.B)
	out = codec.AppendList(out, p.M)
	out = codec.AppendList(out, p.E)
	return codec.AppendList(out, p.Z)
}

// Decode reads a proof from the front of c.
func (p *Proof) Decode(c *codec.Cursor) bool {
	mark := c.Mark()
	if !c.Expect(Tag) {
		return false
	}
	rho, ok := c.Uint16()
	if !ok {
		c.Reset(mark)
		return false
	}
	b, ok := c.Uint8()
	if !ok {
		c.Reset(mark)
		return false
	}
	var lists [3][][]byte
	for k := range lists {
		if lists[k], ok = c.List(); !ok {
			c.Reset(mark)
			return false
		}
	}
	*p = Proof{M: lists[0], E: lists[1], Z: lists[2], B: b, Rho: rho}
	return true
}

// Bytes returns the canonical encoding.
func (p *Proof) Bytes() []byte {
	return p.Encode(nil)
}

// DecodeProof parses a whole Fischlin proof. Trailing bytes are rejected.
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

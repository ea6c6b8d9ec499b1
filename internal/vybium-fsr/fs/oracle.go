// Package fs implements the repeated Fiat-Shamir transform: a framed
// absorption runtime over any RandomOracle, the FS proof format, and the
// prover and verifier that drive it.
package fs

import (
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// Oracle supports several sequential challenge draws against growing state.
type Oracle struct {
	ro  oracle.RandomOracle
	buf []byte
}

// NewOracle wraps ro. A nil ro selects the default backend.
func NewOracle(ro oracle.RandomOracle) *Oracle {
	if ro == nil {
		ro = oracle.SHA3{}
	}
	return &Oracle{ro: ro}
}

// Absorb appends "|label|" label "|data|" data.
func (o *Oracle) Absorb(label string, data []byte) {
	o.buf = append(o.buf, "|label|"...)
	o.buf = append(o.buf, label...)
	o.buf = append(o.buf, "|data|"...)
	o.buf = append(o.buf, data...)
}

// AbsorbBytes makes Oracle an oracle.Absorber.
func (o *Oracle) AbsorbBytes(label string, data []byte) {
	o.Absorb(label, data)
}

// DeriveChallenge hashes "mode:FS|" buf, followed by "|extra|" extra when
// extra is non-empty, and returns the first outLen bytes. outLen is capped at
// the digest length.
func (o *Oracle) DeriveChallenge(label string, extra []byte, outLen int) []byte {
	in := make([]byte, 0, 8+len(o.buf)+7+len(extra))
	in = append(in, "mode:FS|"...)
	in = append(in, o.buf...)
	if len(extra) > 0 {
		in = append(in, "|extra|"...)
		in = append(in, extra...)
	}
	h := o.ro.HFull(label, in)
	if outLen > len(h) {
		outLen = len(h)
	}
	out := make([]byte, outLen)
	copy(out, h)
	return out
}

// Reset clears the absorbed state.
func (o *Oracle) Reset() {
	o.buf = o.buf[:0]
}

var _ oracle.Absorber = (*Oracle)(nil)

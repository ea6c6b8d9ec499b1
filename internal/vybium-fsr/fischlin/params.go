package fischlin

import (
	"fmt"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/utils"
)

const (
	// DefaultKappaC is the default target soundness in bits.
	DefaultKappaC = 128
	// DefaultNSpecial is plain special soundness.
	DefaultNSpecial = 2
)

// Params are the Fischlin parameters.
//
// Rho is the repetition count, B the predicate width in bits, T the
// per-repetition search width in bits, KappaC the soundness target in bits
// and NSpecial the number of accepting transcripts extraction needs.
type Params struct {
	Rho      uint16
	B        uint8
	T        uint8
	KappaC   uint16
	NSpecial uint32
}

// NewParams derives T = b+5 (b+6 when rho > 64) and uses the default
// soundness target and branching factor.
func NewParams(rho uint16, b uint8) Params {
	slack := uint8(5)
	if rho > 64 {
		slack = 6
	}
	t := b + slack
	if t < b {
		t = 0xff
	}
	return Params{
		Rho:      rho,
		B:        b,
		T:        t,
		KappaC:   DefaultKappaC,
		NSpecial: DefaultNSpecial,
	}
}

// WithT overrides the search width.
func (p Params) WithT(t uint8) Params {
	p.T = t
	return p
}

// WithKappa overrides the soundness target.
func (p Params) WithKappa(k uint16) Params {
	p.KappaC = k
	return p
}

// WithNSpecial overrides the special-soundness branching factor.
func (p Params) WithNSpecial(n uint32) Params {
	p.NSpecial = n
	return p
}

// SoundnessLoss is ceil(log2(NSpecial-1)), the bits each repetition loses to
// n-special soundness. It is 0 for NSpecial <= 2.
func (p Params) SoundnessLoss() uint32 {
	if p.NSpecial <= 2 {
		return 0
	}
	return utils.CeilLog2(uint64(p.NSpecial) - 1)
}

// SearchWidth is T clamped to the widest supported predicate.
func (p Params) SearchWidth() uint8 {
	if p.T > oracle.MaxTruncBits {
		return oracle.MaxTruncBits
	}
	return p.T
}

// CheckSoundness requires rho*(b - loss) >= kappa_c.
func (p Params) CheckSoundness() error {
	if p.Rho == 0 {
		return errs.UnsoundParams("rho must be positive")
	}
	if p.B == 0 || p.B > oracle.MaxTruncBits {
		return errs.UnsoundParamsf("predicate width %d outside 1..%d", p.B, oracle.MaxTruncBits)
	}
	loss := p.SoundnessLoss()
	if uint32(p.B) < loss {
		return errs.UnsoundParamsf("b=%d below n-special loss %d", p.B, loss)
	}
	if got := uint32(p.Rho) * (uint32(p.B) - loss); got < uint32(p.KappaC) {
		return errs.UnsoundParamsf("rho*(b-loss)=%d below kappa_c=%d", got, p.KappaC)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("rho=%d b=%d t=%d kappa_c=%d n_special=%d", p.Rho, p.B, p.T, p.KappaC, p.NSpecial)
}

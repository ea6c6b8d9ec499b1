package fs

import (
	"time"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/metrics"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// Labels absorbed by Prove and Verify, in order.
const (
	LabelMode      = "mode"
	LabelStatement = "x"
	LabelSession   = "sid"
	LabelFirstMsg  = "m_i"
	LabelChallenge = "e_i"
	LabelResponse  = "z_i"

	mode = "FS"
)

// SigmaVerifier checks one repetition (m, e, z) with the protocol's algebra.
type SigmaVerifier func(i int, m, e, z []byte) bool

// Committer produces the first message of repetition i.
type Committer func(i int) ([]byte, error)

// Responder answers challenge e in repetition i.
type Responder func(i int, e []byte) ([]byte, error)

// ChallengeLen is the challenge length in bytes for width b, at least 1.
func ChallengeLen(b uint8) int {
	n := (int(b) + 7) / 8
	if n == 0 {
		return 1
	}
	return n
}

// MaskChallenge clears the bits of e's last byte above width b.
func MaskChallenge(e []byte, b uint8) {
	if len(e) == 0 || b&7 == 0 {
		return
	}
	e[len(e)-1] &= byte(1)<<(b&7) - 1
}

func absorbHeader(o *Oracle, statement, sid []byte) {
	o.Absorb(LabelMode, []byte(mode))
	o.Absorb(LabelStatement, statement)
	o.Absorb(LabelSession, sid)
}

func nextChallenge(o *Oracle, b uint8) []byte {
	e := o.DeriveChallenge(LabelChallenge, nil, ChallengeLen(b))
	MaskChallenge(e, b)
	return e
}

// Verify replays the FS oracle over p and checks every repetition with
// sigma. o must be fresh. Malformed proofs are rejected before anything is
// absorbed.
func Verify(o *Oracle, statement, sid []byte, p *Proof, sigma SigmaVerifier) bool {
	return metrics.ReportVerification(metrics.TransformFS, verify(o, statement, sid, p, sigma))
}

func verify(o *Oracle, statement, sid []byte, p *Proof, sigma SigmaVerifier) bool {
	if !p.WellFormed() {
		return false
	}
	absorbHeader(o, statement, sid)
	for _, m := range p.M {
		o.Absorb(LabelFirstMsg, m)
	}
	for i := 0; i < int(p.Rho); i++ {
		e := nextChallenge(o, p.B)
		o.Absorb(LabelChallenge, e)
		o.Absorb(LabelResponse, p.Z[i])
		if !sigma(i, p.M[i], e, p.Z[i]) {
			return false
		}
	}
	return true
}

// Prove runs the prover side of Verify: all rho first messages are committed
// and absorbed before the first challenge is derived. o must be fresh.
func Prove(o *Oracle, statement, sid []byte, rho uint16, b uint8, commit Committer, respond Responder) (*Proof, error) {
	if rho == 0 {
		return nil, errs.Malformed("rho must be positive")
	}
	if b == 0 || b > oracle.MaxTruncBits {
		return nil, errs.Malformedf("challenge width %d outside 1..%d", b, oracle.MaxTruncBits)
	}
	start := time.Now()

	p := &Proof{
		M:   make([][]byte, rho),
		Z:   make([][]byte, rho),
		Rho: rho,
		B:   b,
	}
	absorbHeader(o, statement, sid)
	for i := range p.M {
		m, err := commit(i)
		if err != nil {
			return nil, errs.Wrap(errs.CodeMalformed, "commit failed", err)
		}
		p.M[i] = m
		o.Absorb(LabelFirstMsg, m)
	}
	for i := range p.Z {
		e := nextChallenge(o, b)
		o.Absorb(LabelChallenge, e)
		z, err := respond(i, e)
		if err != nil {
			return nil, errs.Wrap(errs.CodeMalformed, "respond failed", err)
		}
		p.Z[i] = z
		o.Absorb(LabelResponse, z)
	}
	metrics.ReportProveDuration(metrics.TransformFS, time.Since(start))
	return p, nil
}

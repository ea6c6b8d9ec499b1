package fischlin

import (
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/metrics"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// SigmaVerifier checks one repetition (m, e, z) with the protocol's algebra.
type SigmaVerifier func(i int, m, e, z []byte) bool

// Verify checks p against statement and sid. The proof must match params
// in rho and b, and params must meet the soundness bound. Each repetition
// must pass sigma and then the predicate.
func Verify(ro oracle.RandomOracle, params Params, statement, sid []byte, p *Proof, sigma SigmaVerifier) bool {
	return metrics.ReportVerification(metrics.TransformFischlin, verify(ro, params, statement, sid, p, sigma))
}

func verify(ro oracle.RandomOracle, params Params, statement, sid []byte, p *Proof, sigma SigmaVerifier) bool {
	if !p.WellFormed() {
		return false
	}
	if p.B != params.B || p.Rho != params.Rho {
		return false
	}
	if params.CheckSoundness() != nil {
		return false
	}

	o := NewOracle(ro, params)
	o.BeginVerifier(statement, sid)
	for _, m := range p.M {
		if o.PushFirstMessageVerifier(m) != nil {
			return false
		}
	}
	if o.VerifierFinalizeCommonH() != nil {
		return false
	}

	for i := range p.M {
		m, e, z := p.M[i], p.E[i], p.Z[i]
		if !sigma(i, m, e, z) {
			return false
		}
		prefix, err := o.PredicatePrefix(uint32(i))
		if err != nil {
			return false
		}
		if !o.HbZeroFromPrefix(prefix, e, z) {
			return false
		}
	}
	return true
}

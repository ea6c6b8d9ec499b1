// Package fischlin implements Fischlin's transform: all first messages are
// sealed into one common hash, then each repetition searches for the
// smallest challenge whose response makes a b-bit predicate hash vanish.
package fischlin

import (
	"encoding/binary"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/metrics"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/utils"
)

// Labels and hash domains used by the oracle.
const (
	LabelMode      = "mode"
	LabelStatement = "x"
	LabelSession   = "sid"
	LabelFirstMsg  = "m_i"
	LabelChallenge = "e_i"
	LabelResponse  = "z_i"

	CommonHashLabel = "fischlin.common"
	PredicateLabel  = "fischlin.H_b"

	mode = "FISCHLIN"
)

// Phase is the oracle state.
type Phase uint8

const (
	PhaseInit Phase = iota
	PhaseCollecting
	PhaseSealed
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseCollecting:
		return "collecting-first-messages"
	case PhaseSealed:
		return "sealed"
	default:
		return "unknown"
	}
}

// Oracle is the Fischlin state machine
// Init -> CollectingFirstMsgs -> Sealed. It serves both the prover and the
// verifier. Out-of-phase calls return Malformed errors. Not safe for
// concurrent use.
type Oracle struct {
	params Params
	ro     oracle.RandomOracle
	phase  Phase

	transcript []byte

	statement []byte
	sid       []byte
	mVec      [][]byte

	common  []byte
	scratch []byte
}

// NewOracle returns an oracle in PhaseInit. A nil ro selects the default
// backend.
func NewOracle(ro oracle.RandomOracle, params Params) *Oracle {
	if ro == nil {
		ro = oracle.SHA3{}
	}
	return &Oracle{params: params, ro: ro}
}

// Params returns the parameters the oracle was built with.
func (o *Oracle) Params() Params {
	return o.params
}

// Phase returns the current phase.
func (o *Oracle) Phase() Phase {
	return o.phase
}

// CommonHash returns the sealed common hash, or nil before sealing.
func (o *Oracle) CommonHash() []byte {
	return o.common
}

// Transcript returns the framed absorption buffer.
func (o *Oracle) Transcript() []byte {
	return o.transcript
}

// AbsorbBytes appends "|label|" label "|data|" data to the transcript.
func (o *Oracle) AbsorbBytes(label string, data []byte) {
	o.transcript = append(o.transcript, "|label|"...)
	o.transcript = append(o.transcript, label...)
	o.transcript = append(o.transcript, "|data|"...)
	o.transcript = append(o.transcript, data...)
}

func (o *Oracle) reset(statement, sid []byte) {
	o.phase = PhaseCollecting
	o.transcript = o.transcript[:0]
	o.statement = append(o.statement[:0], statement...)
	o.sid = append(o.sid[:0], sid...)
	o.mVec = o.mVec[:0]
	o.common = nil
	o.scratch = o.scratch[:0]

	o.AbsorbBytes(LabelMode, []byte(mode))
	o.AbsorbBytes(LabelStatement, statement)
	o.AbsorbBytes(LabelSession, sid)
}

// Begin starts a proof for statement in session sid, discarding any
// previous state.
func (o *Oracle) Begin(statement, sid []byte) {
	o.reset(statement, sid)
}

// PushFirstMessage records the first message of the next repetition.
func (o *Oracle) PushFirstMessage(m []byte) error {
	if o.phase != PhaseCollecting {
		return errs.Malformedf("first message pushed in phase %s", o.phase)
	}
	o.mVec = append(o.mVec, append([]byte(nil), m...))
	o.AbsorbBytes(LabelFirstMsg, m)
	return nil
}

// SealFirstMessages checks the message count and the soundness bound, then
// computes the common hash.
func (o *Oracle) SealFirstMessages() error {
	if o.phase != PhaseCollecting {
		return errs.Malformedf("seal in phase %s", o.phase)
	}
	if len(o.mVec) != int(o.params.Rho) {
		return errs.Malformedf("collected %d first messages, rho is %d", len(o.mVec), o.params.Rho)
	}
	if err := o.params.CheckSoundness(); err != nil {
		return err
	}
	o.common = o.commonHash()
	o.phase = PhaseSealed
	return nil
}

// commonHash is HFull over
// "mode:FISCHLIN|x|" x "|m_vec|" ("i=" i:u32 ":m=" m 0xff)* "|sid|" sid.
func (o *Oracle) commonHash() []byte {
	n := 16 + len(o.statement) + 7 + 5 + len(o.sid)
	for _, m := range o.mVec {
		n += 10 + len(m)
	}
	buf := make([]byte, 0, n)
	buf = append(buf, "mode:FISCHLIN|x|"...)
	buf = append(buf, o.statement...)
	buf = append(buf, "|m_vec|"...)
	for i, m := range o.mVec {
		buf = append(buf, "i="...)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(i))
		buf = append(buf, ":m="...)
		buf = append(buf, m...)
		buf = append(buf, 0xff)
	}
	buf = append(buf, "|sid|"...)
	buf = append(buf, o.sid...)
	return o.ro.HFull(CommonHashLabel, buf)
}

// PredicatePrefix returns "pred|" common "|i=" i:u32, the part of the
// predicate input that is fixed for repetition i.
func (o *Oracle) PredicatePrefix(i uint32) ([]byte, error) {
	if o.phase != PhaseSealed || o.common == nil {
		return nil, errs.Malformedf("predicate prefix requested in phase %s", o.phase)
	}
	prefix := make([]byte, 0, len(o.common)+12)
	prefix = append(prefix, "pred|"...)
	prefix = append(prefix, o.common...)
	prefix = append(prefix, "|i="...)
	return binary.LittleEndian.AppendUint32(prefix, i), nil
}

// HbZeroFromPrefix reports whether the low B bits of
// H("fischlin.H_b", prefix "|e=" e "|z=" z) are all zero.
func (o *Oracle) HbZeroFromPrefix(prefix, e, z []byte) bool {
	o.scratch = append(o.scratch[:0], prefix...)
	o.scratch = append(o.scratch, "|e="...)
	o.scratch = append(o.scratch, e...)
	o.scratch = append(o.scratch, "|z="...)
	o.scratch = append(o.scratch, z...)
	return oracle.TruncBits(o.ro.H(PredicateLabel, o.scratch), o.params.B) == 0
}

// SearchRound enumerates e = 0 .. 2^t-1 in increasing order, each encoded as
// ceil(t/8) little-endian bytes, and returns the first (e, genZ(e)) that
// satisfies the predicate. The slice passed to genZ is reused between
// trials. Exhausting the range returns a RetryNeeded error.
func (o *Oracle) SearchRound(i uint32, genZ func(e []byte) []byte) (e, z []byte, err error) {
	return o.search(i, "gen", genZ)
}

// SearchRoundStream is SearchRound with responses produced by a generator
// called once per trial, in the same order as the challenges. It lets a
// caller step the response by one addition per trial.
func (o *Oracle) SearchRoundStream(i uint32, nextZ func() []byte) (e, z []byte, err error) {
	return o.search(i, "stream", func([]byte) []byte { return nextZ() })
}

func (o *Oracle) search(i uint32, mode string, genZ func(e []byte) []byte) ([]byte, []byte, error) {
	prefix, err := o.PredicatePrefix(i)
	if err != nil {
		return nil, nil, err
	}
	t := o.params.SearchWidth()
	bound := uint64(1) << t
	ebuf := make([]byte, utils.ByteLen(t))
	var word [8]byte

	var trials uint64
	defer func() { metrics.PredicateTrials.WithLabelValues(mode).Add(float64(trials)) }()

	for ev := uint64(0); ev < bound; ev++ {
		binary.LittleEndian.PutUint64(word[:], ev)
		copy(ebuf, word[:])
		z := genZ(ebuf)
		trials++
		if o.HbZeroFromPrefix(prefix, ebuf, z) {
			e := append([]byte(nil), ebuf...)
			o.AbsorbBytes(LabelChallenge, e)
			o.AbsorbBytes(LabelResponse, z)
			return e, z, nil
		}
	}
	metrics.SearchExhausted.WithLabelValues().Inc()
	return nil, nil, errs.Wrap(errs.CodeRetryNeeded, "search space exhausted", nil)
}

// BeginVerifier starts replaying a proof for statement in session sid.
func (o *Oracle) BeginVerifier(statement, sid []byte) {
	o.reset(statement, sid)
}

// PushFirstMessageVerifier records a first message taken from a proof.
func (o *Oracle) PushFirstMessageVerifier(m []byte) error {
	return o.PushFirstMessage(m)
}

// VerifierFinalizeCommonH computes the common hash over the pushed first
// messages without the prover's count and soundness checks, which the
// verifier performs on the proof itself.
func (o *Oracle) VerifierFinalizeCommonH() error {
	if o.phase != PhaseCollecting {
		return errs.Malformedf("finalize in phase %s", o.phase)
	}
	o.common = o.commonHash()
	o.phase = PhaseSealed
	return nil
}

// VerifyPredicate absorbs (m, e, z) and checks the predicate for
// repetition i.
func (o *Oracle) VerifyPredicate(i uint32, m, e, z []byte) bool {
	o.AbsorbBytes(LabelFirstMsg, m)
	o.AbsorbBytes(LabelChallenge, e)
	o.AbsorbBytes(LabelResponse, z)
	prefix, err := o.PredicatePrefix(i)
	if err != nil {
		return false
	}
	return o.HbZeroFromPrefix(prefix, e, z)
}

var _ oracle.Absorber = (*Oracle)(nil)

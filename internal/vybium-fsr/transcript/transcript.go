// Package transcript enforces the ordering rule every Fiat-Shamir protocol
// depends on: a challenge is drawn only after every commitment the current
// round declared has been absorbed.
//
// A Transcript carries the mask of obligations still pending. Absorbing a
// message clears the bits its type discharges; Challenge fails without
// touching the oracle while any bit remains. Retag opens the next round.
package transcript

import (
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/record"
)

// Direction says who sends a message.
type Direction uint8

const (
	ProverToVerifier Direction = iota
	VerifierToProver
)

func (d Direction) String() string {
	if d == VerifierToProver {
		return "verifier->prover"
	}
	return "prover->verifier"
}

// Bindable is a value whose canonical fields can be absorbed, together with
// the obligations absorbing it discharges.
type Bindable interface {
	ObligMask() Mask
	Bind(a oracle.Absorber)
}

// Message is a Bindable with a direction and a stable label.
type Message interface {
	Bindable
	Direction() Direction
	Label() string
}

// RoundMask is the union of the obligations discharged by msgs. It is the
// pending mask a round expecting exactly these messages starts with.
func RoundMask(msgs ...Bindable) Mask {
	var m Mask
	for _, msg := range msgs {
		m = m.Or(msg.ObligMask())
	}
	return m
}

// Transcript is an oracle plus the obligations still pending for the
// current round. It is not safe for concurrent use.
type Transcript struct {
	o       oracle.Oracle
	pending Mask
}

// New starts a transcript over o with the given pending obligations.
func New(o oracle.Oracle, pending Mask) *Transcript {
	return &Transcript{o: o, pending: pending}
}

// Absorb binds m, absorbs an empty sentinel under label so the message's
// presence is bound too, and clears m's obligations.
func (t *Transcript) Absorb(label string, m Bindable) *Transcript {
	m.Bind(t.o)
	t.o.AbsorbBytes(label, nil)
	t.pending = t.pending.AndNot(m.ObligMask())
	return t
}

// AbsorbMessage is Absorb under the message's own label.
func (t *Transcript) AbsorbMessage(m Message) *Transcript {
	return t.Absorb(m.Label(), m)
}

// AbsorbBytes absorbs raw bytes without discharging anything.
func (t *Transcript) AbsorbBytes(label string, data []byte) *Transcript {
	t.o.AbsorbBytes(label, data)
	return t
}

// Challenge derives dst under label. It fails with a Malformed error, and
// leaves the oracle untouched, while obligations are pending.
func (t *Transcript) Challenge(label string, dst oracle.Challenge) error {
	if !t.pending.IsZero() {
		return errs.Malformedf("challenge %q drawn with pending obligations %s", label, t.pending)
	}
	return t.o.Challenge(label, dst)
}

// Retag reopens the transcript for the next round with the given
// obligations.
func (t *Transcript) Retag(next Mask) *Transcript {
	t.pending = next
	return t
}

// Pending returns the outstanding obligations.
func (t *Transcript) Pending() Mask {
	return t.pending
}

// Ready reports whether a challenge may be drawn.
func (t *Transcript) Ready() bool {
	return t.pending.IsZero()
}

// Oracle returns the underlying oracle.
func (t *Transcript) Oracle() oracle.Oracle {
	return t.o
}

// Events returns the recorded timeline when the oracle is a recording oracle.
func (t *Transcript) Events() ([]record.Event, bool) {
	r, ok := t.o.(*record.Oracle)
	if !ok {
		return nil, false
	}
	return r.Events(), true
}

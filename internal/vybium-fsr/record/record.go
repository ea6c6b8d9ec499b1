// Package record wraps an oracle and keeps the ordered timeline of every
// absorb and challenge made through it, so a proof can later be assembled
// from the bytes that were actually hashed.
package record

import (
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// Kind tells absorb events from challenge events.
type Kind uint8

const (
	KindAbsorb Kind = iota
	KindChallenge
)

func (k Kind) String() string {
	switch k {
	case KindAbsorb:
		return "absorb"
	case KindChallenge:
		return "challenge"
	default:
		return "unknown"
	}
}

// Event is one recorded oracle call. For challenges Bytes is the canonical
// encoding of the derived value.
type Event struct {
	Kind  Kind
	Label string
	Bytes []byte
}

// Oracle forwards every call to its inner oracle unmodified and records it
// afterwards.
type Oracle struct {
	inner  oracle.Oracle
	events []Event
}

// New wraps inner.
func New(inner oracle.Oracle) *Oracle {
	return &Oracle{inner: inner}
}

// AbsorbBytes forwards to the inner oracle and records a copy of data.
func (o *Oracle) AbsorbBytes(label string, data []byte) {
	o.inner.AbsorbBytes(label, data)
	o.events = append(o.events, Event{
		Kind:  KindAbsorb,
		Label: label,
		Bytes: append([]byte{}, data...),
	})
}

// Challenge forwards to the inner oracle and records the encoded value. A
// failed challenge records nothing.
func (o *Oracle) Challenge(label string, dst oracle.Challenge) error {
	if err := o.inner.Challenge(label, dst); err != nil {
		return err
	}
	o.events = append(o.events, Event{
		Kind:  KindChallenge,
		Label: label,
		Bytes: codec.Marshal(dst),
	})
	return nil
}

// Events returns the timeline recorded so far.
func (o *Oracle) Events() []Event {
	return append([]Event(nil), o.events...)
}

// FindAbsorb returns the bytes of the latest absorb under label.
func (o *Oracle) FindAbsorb(label string) ([]byte, bool) {
	return o.find(KindAbsorb, label)
}

// FindChallenge returns the encoding of the latest challenge under label.
func (o *Oracle) FindChallenge(label string) ([]byte, bool) {
	return o.find(KindChallenge, label)
}

func (o *Oracle) find(kind Kind, label string) ([]byte, bool) {
	for i := len(o.events) - 1; i >= 0; i-- {
		if e := o.events[i]; e.Kind == kind && e.Label == label {
			return e.Bytes, true
		}
	}
	return nil, false
}

// Inner returns the wrapped oracle.
func (o *Oracle) Inner() oracle.Oracle {
	return o.inner
}

// IntoParts returns the wrapped oracle and the timeline and detaches the
// timeline from o.
func (o *Oracle) IntoParts() (oracle.Oracle, []Event) {
	events := o.events
	o.events = nil
	return o.inner, events
}

var _ oracle.Oracle = (*Oracle)(nil)

// Package proofspec interprets declarative proof descriptions.
//
// A Spec lists, round by round, the fields a proof carries (each either an
// absorbed message or a derived challenge, with the oracle label it lives
// under), the absorptions a verifier must replay, and a final check. From
// that one description the package derives the proof's byte format, a prover
// that lifts field values out of a recorded oracle timeline, and a verifier
// that replays the transcript over a fresh HashOracle, re-derives every
// challenge and compares it with the stored value before running the check.
package proofspec

import (
	"fmt"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/metrics"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/record"
)

// Source says where a field's value comes from.
type Source uint8

const (
	// SourceAbsorb fields are bytes the prover absorbed.
	SourceAbsorb Source = iota
	// SourceChallenge fields are values the oracle derived.
	SourceChallenge
)

func (s Source) String() string {
	switch s {
	case SourceAbsorb:
		return "absorb"
	case SourceChallenge:
		return "challenge"
	default:
		return "unknown"
	}
}

// kind maps the source onto the recorded event kind.
func (s Source) kind() record.Kind {
	if s == SourceChallenge {
		return record.KindChallenge
	}
	return record.KindAbsorb
}

// Value is a field value with a canonical encoding. Values of challenge
// fields must also implement oracle.Challenge.
type Value interface {
	codec.Encoder
	codec.Decoder
}

// Field describes one proof field. New returns an empty value ready to be
// decoded into or, for challenges, derived into.
type Field struct {
	Name   string
	Source Source
	Label  string
	New    func() Value
}

// AbsorbField describes a field taken from an absorb event.
func AbsorbField(name, label string, newValue func() Value) Field {
	return Field{Name: name, Source: SourceAbsorb, Label: label, New: newValue}
}

// ChallengeField describes a field taken from a challenge event.
func ChallengeField(name, label string, newValue func() Value) Field {
	return Field{Name: name, Source: SourceChallenge, Label: label, New: newValue}
}

// Values holds field values by name.
type Values map[string]Value

// Get returns the named value as T. A missing value or a value of another
// type yields the zero T and false.
func Get[T Value](v Values, name string) (T, bool) {
	t, ok := v[name].(T)
	return t, ok
}

// ReplayStep is one absorption the verifier repeats.
type ReplayStep[P any] struct {
	label string
	value func(pub P, v Values) codec.Encoder
}

// BindValue absorbs the encoding of value(pub, v) under label. A nil result
// rejects the proof.
func BindValue[P any](label string, value func(pub P, v Values) codec.Encoder) ReplayStep[P] {
	return ReplayStep[P]{label: label, value: value}
}

// BindLabel absorbs an empty payload under label, as a presence marker does.
func BindLabel[P any](label string) ReplayStep[P] {
	return ReplayStep[P]{label: label}
}

// Label is the label the step absorbs under.
func (s ReplayStep[P]) Label() string {
	return s.label
}

func (s ReplayStep[P]) apply(a oracle.Absorber, pub P, v Values) bool {
	if s.value == nil {
		a.AbsorbBytes(s.label, nil)
		return true
	}
	enc := s.value(pub, v)
	if enc == nil {
		return false
	}
	a.AbsorbBytes(s.label, codec.Marshal(enc))
	return true
}

// Round groups fields with the replay that precedes their challenges and
// the check that follows. Check sees the values of this round and every
// earlier one.
type Round[P any] struct {
	Name   string
	Fields []Field
	Replay []ReplayStep[P]
	Check  func(pub P, v Values) bool
}

// Spec describes a proof over public input P.
type Spec[P any] struct {
	Name   string
	Domain string
	Header Header
	Rounds []Round[P]
	// Backend is the random oracle behind the verifier's HashOracle; nil
	// selects the default backend. It must match the prover's.
	Backend oracle.RandomOracle
}

// Fields returns every field in proof order.
func (s *Spec[P]) Fields() []Field {
	var out []Field
	for _, r := range s.Rounds {
		out = append(out, r.Fields...)
	}
	return out
}

// Validate reports the first structural problem in the description.
func (s *Spec[P]) Validate() error {
	if len(s.Header.Schema) > maxHeaderString {
		return fmt.Errorf("proofspec %s: schema of %d bytes exceeds %d", s.Name, len(s.Header.Schema), maxHeaderString)
	}
	if s.Header.IncludeDomain && len(s.Domain) > maxHeaderString {
		return fmt.Errorf("proofspec %s: domain of %d bytes exceeds %d", s.Name, len(s.Domain), maxHeaderString)
	}
	if len(s.Rounds) == 0 {
		return fmt.Errorf("proofspec %s: no rounds", s.Name)
	}
	seen := make(map[string]bool)
	for _, r := range s.Rounds {
		for _, f := range r.Fields {
			if f.Name == "" {
				return fmt.Errorf("proofspec %s: round %s has an unnamed field", s.Name, r.Name)
			}
			if seen[f.Name] {
				return fmt.Errorf("proofspec %s: duplicate field %q", s.Name, f.Name)
			}
			seen[f.Name] = true
			if f.Label == "" {
				return fmt.Errorf("proofspec %s: field %q has an empty label", s.Name, f.Name)
			}
			if f.New == nil {
				return fmt.Errorf("proofspec %s: field %q has no constructor", s.Name, f.Name)
			}
			if _, ok := f.New().(oracle.Challenge); f.Source == SourceChallenge && !ok {
				return fmt.Errorf("proofspec %s: challenge field %q cannot be derived", s.Name, f.Name)
			}
		}
		for _, step := range r.Replay {
			if step.label == "" {
				return fmt.Errorf("proofspec %s: round %s replays an empty label", s.Name, r.Name)
			}
		}
	}
	return nil
}

// Prove lifts every field out of a recorded timeline. Fields are matched in
// proof order, each scan starting after the previous match, so a value
// recorded before an earlier field is never picked up.
func (s *Spec[P]) Prove(events []record.Event) (*Proof, bool) {
	cur := record.NewCursor(events)
	values := make(Values)
	for _, f := range s.Fields() {
		raw, ok := cur.Next(f.Source.kind(), f.Label)
		if !ok {
			return nil, false
		}
		v := f.New()
		if !codec.Unmarshal(raw, v) {
			return nil, false
		}
		values[f.Name] = v
	}
	return &Proof{Values: values}, true
}

// Verify replays the transcript for pub over a fresh oracle and checks
// proof against it.
func (s *Spec[P]) Verify(pub P, proof *Proof) bool {
	return metrics.ReportVerification(metrics.TransformSpec, s.verify(pub, proof))
}

func (s *Spec[P]) verify(pub P, proof *Proof) bool {
	if proof == nil {
		return false
	}
	o := oracle.NewHashOracle([]byte(s.Domain), s.Backend)
	seen := make(Values)
	for _, r := range s.Rounds {
		for _, f := range r.Fields {
			v, ok := proof.Values[f.Name]
			if !ok || v == nil {
				return false
			}
			seen[f.Name] = v
		}
		for _, step := range r.Replay {
			if !step.apply(o, pub, seen) {
				return false
			}
		}
		for _, f := range r.Fields {
			if f.Source != SourceChallenge {
				continue
			}
			derived, ok := f.New().(oracle.Challenge)
			if !ok {
				return false
			}
			if err := o.Challenge(f.Label, derived); err != nil {
				return false
			}
			if string(codec.Marshal(derived)) != string(codec.Marshal(seen[f.Name])) {
				return false
			}
		}
		if r.Check != nil && !r.Check(pub, seen) {
			return false
		}
	}
	return true
}

// VerifyBytes decodes b and verifies it.
func (s *Spec[P]) VerifyBytes(pub P, b []byte) bool {
	proof, ok := s.Decode(b)
	if !ok {
		return metrics.ReportVerification(metrics.TransformSpec, false)
	}
	return s.Verify(pub, proof)
}

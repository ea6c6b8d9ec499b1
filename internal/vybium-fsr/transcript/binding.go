package transcript

import (
	"fmt"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// NoObligation registers a bound field that discharges nothing.
const NoObligation = -1

type bindField[T any] struct {
	name   string
	label  string
	skip   bool
	encode func(T) []byte
}

// Binding is the registration table for a message type T: which fields are
// absorbed, under which labels, in which order, and which obligations they
// discharge. Tables are built once, typically in a package-level var, and
// are read-only afterwards.
type Binding[T any] struct {
	prefix string
	fields []bindField[T]
	mask   Mask
}

// NewBinding starts a table whose labels are prefixed with prefix.
func NewBinding[T any](prefix string) *Binding[T] {
	return &Binding[T]{prefix: prefix}
}

// Field registers a bound field. ob is the obligation bit it discharges, or
// NoObligation. Duplicate names and ob >= MaskBits panic.
func (b *Binding[T]) Field(name string, ob int, encode func(T) []byte) *Binding[T] {
	b.checkName(name)
	if ob >= MaskBits {
		panic(fmt.Sprintf("transcript: obligation bit %d out of range for %s.%s", ob, b.prefix, name))
	}
	if ob >= 0 {
		b.mask = b.mask.Or(Bit(uint(ob)))
	}
	b.fields = append(b.fields, bindField[T]{name: name, label: b.prefix + "." + name, encode: encode})
	return b
}

// Skip registers a field that is never absorbed.
func (b *Binding[T]) Skip(name string) *Binding[T] {
	b.checkName(name)
	b.fields = append(b.fields, bindField[T]{name: name, skip: true})
	return b
}

func (b *Binding[T]) checkName(name string) {
	for _, f := range b.fields {
		if f.name == name {
			panic(fmt.Sprintf("transcript: field %s.%s registered twice", b.prefix, name))
		}
	}
}

// Mask is the union of the registered obligation bits.
func (b *Binding[T]) Mask() Mask {
	return b.mask
}

// MsgLabel is the label of the message as a whole.
func (b *Binding[T]) MsgLabel() string {
	return b.prefix
}

// FieldLabel returns the label of a bound field. Skipped and unknown fields
// report false.
func (b *Binding[T]) FieldLabel(name string) (string, bool) {
	for _, f := range b.fields {
		if f.name == name && !f.skip {
			return f.label, true
		}
	}
	return "", false
}

// Labels lists the bound field labels in registration order.
func (b *Binding[T]) Labels() []string {
	out := make([]string, 0, len(b.fields))
	for _, f := range b.fields {
		if !f.skip {
			out = append(out, f.label)
		}
	}
	return out
}

// Bind absorbs every bound field of v once, in registration order.
func (b *Binding[T]) Bind(a oracle.Absorber, v T) {
	for _, f := range b.fields {
		if f.skip {
			continue
		}
		a.AbsorbBytes(f.label, f.encode(v))
	}
}

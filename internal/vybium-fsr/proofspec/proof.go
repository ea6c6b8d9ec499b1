package proofspec

import (
	"fmt"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
)

// Magic opens every encoded proof.
const Magic = "FSR\x00"

// DefaultVersion is the header version used when Header.Version is zero.
const DefaultVersion = 1

const maxHeaderString = 255

// Header is the self-description written ahead of the fields:
// magic | version:u8 | schema_len:u8 | schema | domain_len:u8 | domain.
// The domain is written only when IncludeDomain is set; otherwise its
// length is zero.
type Header struct {
	Version       uint8
	Schema        string
	IncludeDomain bool
}

func (h Header) version() uint8 {
	if h.Version == 0 {
		return DefaultVersion
	}
	return h.Version
}

// Proof holds one value per field.
type Proof struct {
	Values Values
}

// Encode writes the header followed by each field in proof order.
func (s *Spec[P]) Encode(proof *Proof) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := append([]byte(nil), Magic...)
	out = append(out, s.Header.version(), byte(len(s.Header.Schema)))
	out = append(out, s.Header.Schema...)
	if s.Header.IncludeDomain {
		out = append(out, byte(len(s.Domain)))
		out = append(out, s.Domain...)
	} else {
		out = append(out, 0)
	}
	for _, f := range s.Fields() {
		v, ok := proof.Values[f.Name]
		if !ok || v == nil {
			return nil, fmt.Errorf("proofspec %s: proof has no value for %q", s.Name, f.Name)
		}
		out = v.Encode(out)
	}
	return out, nil
}

// Decode parses a proof written by Encode. The header must name this spec's
// version and schema, and its domain, when present, must be this spec's
// domain. Trailing bytes are rejected.
func (s *Spec[P]) Decode(b []byte) (*Proof, bool) {
	c := codec.NewCursor(b)
	if !c.Expect([]byte(Magic)) {
		return nil, false
	}
	ver, ok := c.Uint8()
	if !ok || ver != s.Header.version() {
		return nil, false
	}
	schema, ok := readShortString(c)
	if !ok || schema != s.Header.Schema {
		return nil, false
	}
	domain, ok := readShortString(c)
	if !ok {
		return nil, false
	}
	if s.Header.IncludeDomain && domain != s.Domain || !s.Header.IncludeDomain && domain != "" {
		return nil, false
	}
	values := make(Values)
	for _, f := range s.Fields() {
		if f.New == nil {
			return nil, false
		}
		v := f.New()
		if !v.Decode(c) {
			return nil, false
		}
		values[f.Name] = v
	}
	if !c.Empty() {
		return nil, false
	}
	return &Proof{Values: values}, true
}

func readShortString(c *codec.Cursor) (string, bool) {
	n, ok := c.Uint8()
	if !ok {
		return "", false
	}
	b, ok := c.Bytes(int(n))
	if !ok {
		return "", false
	}
	return string(b), true
}

package oracle

// HashOracle is the one-shot Fiat-Shamir oracle: a domain string and a
// growing absorption buffer. A challenge is a pure function of
// (domain, label, buffer), so deriving it twice without an absorb in between
// gives the same value.
type HashOracle struct {
	domain []byte
	buf    []byte
	ro     RandomOracle
}

// NewHashOracle returns an oracle over domain. A nil ro selects the default
// backend.
func NewHashOracle(domain []byte, ro RandomOracle) *HashOracle {
	if ro == nil {
		ro = SHA3{}
	}
	return &HashOracle{
		domain: append([]byte(nil), domain...),
		ro:     ro,
	}
}

// AbsorbBytes appends domain || label || data.
func (o *HashOracle) AbsorbBytes(label string, data []byte) {
	o.buf = append(o.buf, o.domain...)
	o.buf = append(o.buf, label...)
	o.buf = append(o.buf, data...)
}

// Challenge hashes domain || label || buffer and reduces it into dst.
func (o *HashOracle) Challenge(label string, dst Challenge) error {
	material := make([]byte, 0, len(o.domain)+len(label)+len(o.buf))
	material = append(material, o.domain...)
	material = append(material, label...)
	material = append(material, o.buf...)
	return dst.FromOracleBytes(label, o.ro.HFull(label, material))
}

// Domain returns the domain string.
func (o *HashOracle) Domain() []byte {
	return o.domain
}

// Len returns the number of absorbed bytes.
func (o *HashOracle) Len() int {
	return len(o.buf)
}

// Reset drops everything absorbed.
func (o *HashOracle) Reset() {
	o.buf = o.buf[:0]
}

var _ Oracle = (*HashOracle)(nil)

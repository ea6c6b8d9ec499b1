package transcript

import (
	"fmt"
	"math/bits"
)

// MaskBits is the number of obligation bits a Mask holds.
const MaskBits = 128

// Mask is a set of pre-challenge obligations. Bit n lives in Lo for n < 64
// and in Hi otherwise.
type Mask struct {
	Hi, Lo uint64
}

// Bit returns the mask with only obligation n set. n >= MaskBits panics.
func Bit(n uint) Mask {
	switch {
	case n < 64:
		return Mask{Lo: 1 << n}
	case n < MaskBits:
		return Mask{Hi: 1 << (n - 64)}
	default:
		panic(fmt.Sprintf("transcript: obligation bit %d out of range", n))
	}
}

// Or returns m | o.
func (m Mask) Or(o Mask) Mask {
	return Mask{Hi: m.Hi | o.Hi, Lo: m.Lo | o.Lo}
}

// AndNot returns m &^ o.
func (m Mask) AndNot(o Mask) Mask {
	return Mask{Hi: m.Hi &^ o.Hi, Lo: m.Lo &^ o.Lo}
}

// Has reports whether every bit of o is set in m.
func (m Mask) Has(o Mask) bool {
	return m.Hi&o.Hi == o.Hi && m.Lo&o.Lo == o.Lo
}

// IsZero reports whether no obligation is pending.
func (m Mask) IsZero() bool {
	return m.Hi == 0 && m.Lo == 0
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	return bits.OnesCount64(m.Hi) + bits.OnesCount64(m.Lo)
}

func (m Mask) String() string {
	return fmt.Sprintf("0x%016x%016x", m.Hi, m.Lo)
}

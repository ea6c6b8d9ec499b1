package oracle

import (
	"crypto/sha256"
	"fmt"

	"github.com/gtank/merlin"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Backend names accepted by NewRandomOracle.
const (
	BackendSHA3    = "sha3"
	BackendSHA256  = "sha256"
	BackendBLAKE2b = "blake2b"
	BackendBLAKE3  = "blake3"
	BackendMerlin  = "merlin"
	BackendTip5    = "tip5"

	DefaultBackend = BackendSHA3
)

// customization string shared by the XOF backends
const personalization = "vybium-fsr"

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendSHA3, BackendSHA256, BackendBLAKE2b, BackendBLAKE3, BackendMerlin, BackendTip5}
}

// NewRandomOracle returns the backend registered under name. An empty name
// selects DefaultBackend.
func NewRandomOracle(name string) (RandomOracle, error) {
	if name == "" {
		name = DefaultBackend
	}
	switch name {
	case BackendSHA3:
		return SHA3{}, nil
	case BackendSHA256:
		return SHA256{}, nil
	case BackendBLAKE2b:
		return BLAKE2b{}, nil
	case BackendBLAKE3:
		return BLAKE3{}, nil
	case BackendMerlin:
		return Merlin{}, nil
	case BackendTip5:
		return Tip5{}, nil
	default:
		return nil, fmt.Errorf("unknown random oracle backend %q", name)
	}
}

// MustRandomOracle is NewRandomOracle for names known at compile time.
func MustRandomOracle(name string) RandomOracle {
	ro, err := NewRandomOracle(name)
	if err != nil {
		panic(err)
	}
	return ro
}

// SHA3 is cSHAKE256 with the label as customization string.
type SHA3 struct{}

func (SHA3) HFull(label string, data []byte) []byte {
	return shake(personalization+"/full", label, data, FullDigestLen)
}

func (SHA3) H(label string, data []byte) []byte {
	return shake(personalization+"/trunc", label, data, DigestLen)
}

func shake(fn, label string, data []byte, n int) []byte {
	h := sha3.NewCShake256([]byte(fn), []byte(label))
	h.Write(data)
	out := make([]byte, n)
	h.Read(out)
	return out
}

// SHA256 expands SHA-256 in counter mode.
type SHA256 struct{}

func (SHA256) HFull(label string, data []byte) []byte {
	out := make([]byte, 0, FullDigestLen)
	for ctr := uint32(0); len(out) < FullDigestLen; ctr++ {
		sum := sha256.Sum256(frame('F', ctr, label, data))
		out = append(out, sum[:]...)
	}
	return out[:FullDigestLen]
}

func (SHA256) H(label string, data []byte) []byte {
	sum := sha256.Sum256(frame('H', 0, label, data))
	return sum[:]
}

// BLAKE2b uses the BLAKE2Xb extendable output function.
type BLAKE2b struct{}

func (BLAKE2b) HFull(label string, data []byte) []byte {
	return blake2x(frame('F', 0, label, data), FullDigestLen)
}

func (BLAKE2b) H(label string, data []byte) []byte {
	return blake2x(frame('H', 0, label, data), DigestLen)
}

func blake2x(msg []byte, n int) []byte {
	xof, err := blake2b.NewXOF(uint32(n), nil)
	if err != nil {
		// only reachable with an oversized key or length
		panic(err)
	}
	xof.Write(msg)
	out := make([]byte, n)
	if _, err := xof.Read(out); err != nil {
		panic(err)
	}
	return out
}

// BLAKE3 derives a key per label and reads the XOF output.
type BLAKE3 struct{}

func (BLAKE3) HFull(label string, data []byte) []byte {
	return blake3XOF(personalization+" full "+label, data, FullDigestLen)
}

func (BLAKE3) H(label string, data []byte) []byte {
	return blake3XOF(personalization+" trunc "+label, data, DigestLen)
}

func blake3XOF(context string, data []byte, n int) []byte {
	h := blake3.NewDeriveKey(context)
	h.Write(data)
	out := make([]byte, n)
	if _, err := h.Digest().Read(out); err != nil {
		panic(err)
	}
	return out
}

// Merlin runs one fresh STROBE transcript per call.
type Merlin struct{}

func (Merlin) HFull(label string, data []byte) []byte {
	return merlinExtract("full", label, data, FullDigestLen)
}

func (Merlin) H(label string, data []byte) []byte {
	return merlinExtract("trunc", label, data, DigestLen)
}

func merlinExtract(mode, label string, data []byte, n int) []byte {
	t := merlin.NewTranscript(personalization)
	t.AppendMessage([]byte("mode"), []byte(mode))
	t.AppendMessage([]byte("label"), []byte(label))
	t.AppendMessage([]byte("data"), data)
	return t.ExtractBytes([]byte(label), n)
}

// Tip5 packs the framed input into Goldilocks elements, seven bytes per
// element, and expands the Tip5 digest in counter mode.
type Tip5 struct{}

func (Tip5) HFull(label string, data []byte) []byte {
	return tip5Expand('F', label, data, FullDigestLen)
}

func (Tip5) H(label string, data []byte) []byte {
	return tip5Expand('H', label, data, DigestLen)
}

func tip5Expand(mode byte, label string, data []byte, n int) []byte {
	base := packElements(frame(mode, 0, label, data))
	out := make([]byte, 0, n+hash.DigestLen*8)
	for ctr := uint64(0); len(out) < n; ctr++ {
		in := make([]field.Element, len(base), len(base)+1)
		copy(in, base)
		in = append(in, field.New(ctr))
		digest := hash.HashVarlen(in)
		for _, elem := range digest {
			val := elem.Value()
			for k := 0; k < 8; k++ {
				out = append(out, byte(val>>(k*8)))
			}
		}
	}
	return out[:n]
}

// packElements maps bytes to field elements below 2^56 and appends the byte
// length so inputs differing only in trailing zeros stay distinct.
func packElements(b []byte) []field.Element {
	elems := make([]field.Element, 0, len(b)/7+2)
	for i := 0; i < len(b); i += 7 {
		var v uint64
		for k := 0; k < 7 && i+k < len(b); k++ {
			v |= uint64(b[i+k]) << (8 * k)
		}
		elems = append(elems, field.New(v))
	}
	return append(elems, field.New(uint64(len(b))))
}

var (
	_ RandomOracle = SHA3{}
	_ RandomOracle = SHA256{}
	_ RandomOracle = BLAKE2b{}
	_ RandomOracle = BLAKE3{}
	_ RandomOracle = Merlin{}
	_ RandomOracle = Tip5{}
)

package fs

import (
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/metrics"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

const modP = 1<<31 - 1

func enc(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

func dec(b []byte) uint64 {
	var buf [8]byte
	copy(buf[:], b)
	return binary.LittleEndian.Uint64(buf[:])
}

// additive Schnorr over Z_p: y = g*w, t = g*r, z = r + e*w, g*z == t + e*y
type toySchnorr struct {
	g, w, y uint64
	r       []uint64
	rng     *rand.Rand
}

func newToySchnorr(seed int64) *toySchnorr {
	const g, w = 5, 1234567
	return &toySchnorr{g: g, w: w, y: g * w % modP, rng: rand.New(rand.NewSource(seed))}
}

func (s *toySchnorr) statement() []byte {
	return append(enc(s.g), enc(s.y)...)
}

func (s *toySchnorr) commit(i int) ([]byte, error) {
	r := uint64(s.rng.Int63n(modP))
	s.r = append(s.r, r)
	return enc(s.g * r % modP), nil
}

func (s *toySchnorr) respond(i int, e []byte) ([]byte, error) {
	return enc((s.r[i] + dec(e)%modP*s.w) % modP), nil
}

func (s *toySchnorr) check(i int, m, e, z []byte) bool {
	lhs := s.g * dec(z) % modP
	rhs := (dec(m) + dec(e)%modP*s.y) % modP
	return lhs == rhs
}

// TestFSEndToEnd tests prove and verify on the toy group with rho=16, b=8
func TestFSEndToEnd(t *testing.T) {
	s := newToySchnorr(1)
	sid := []byte("session-1")

	p, err := Prove(NewOracle(nil), s.statement(), sid, 16, 8, s.commit, s.respond)
	require.NoError(t, err)
	require.True(t, p.WellFormed())
	require.True(t, Verify(NewOracle(nil), s.statement(), sid, p, s.check))

	// a different statement derives different challenges
	other := append(enc(s.g), enc(s.y+1)...)
	require.False(t, Verify(NewOracle(nil), other, sid, p, s.check))

	// so does a different session
	require.False(t, Verify(NewOracle(nil), s.statement(), []byte("session-2"), p, s.check))
}

// TestFSVerifyRejectsTamperedResponse tests a single flipped response bit
func TestFSVerifyRejectsTamperedResponse(t *testing.T) {
	s := newToySchnorr(2)
	p, err := Prove(NewOracle(nil), s.statement(), nil, 4, 8, s.commit, s.respond)
	require.NoError(t, err)
	p.Z[2][0] ^= 1
	require.False(t, Verify(NewOracle(nil), s.statement(), nil, p, s.check))
}

// TestFSVerifyRejectsMalformed tests shape checks before any replay
func TestFSVerifyRejectsMalformed(t *testing.T) {
	called := false
	sigma := func(int, []byte, []byte, []byte) bool { called = true; return true }

	tests := []struct {
		name string
		p    *Proof
	}{
		{"nil", nil},
		{"zero rho", &Proof{B: 8}},
		{"zero b", &Proof{M: [][]byte{{1}}, Z: [][]byte{{1}}, Rho: 1}},
		{"wide b", &Proof{M: [][]byte{{1}}, Z: [][]byte{{1}}, Rho: 1, B: 57}},
		{"short z", &Proof{M: [][]byte{{1}, {2}}, Z: [][]byte{{1}}, Rho: 2, B: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, Verify(NewOracle(nil), nil, nil, tt.p, sigma))
		})
	}
	require.False(t, called)
}

// TestFSDeterminism tests that two independent oracles derive identical challenges
func TestFSDeterminism(t *testing.T) {
	for _, name := range oracle.Backends() {
		ro := oracle.MustRandomOracle(name)
		a, b := NewOracle(ro), NewOracle(ro)
		for _, o := range []*Oracle{a, b} {
			absorbHeader(o, []byte("stmt"), []byte("sid"))
			o.Absorb(LabelFirstMsg, []byte("m0"))
		}
		require.Equal(t, a.DeriveChallenge("e_i", nil, 16), b.DeriveChallenge("e_i", nil, 16), name)
		require.Equal(t, a.DeriveChallenge("e_i", []byte("x"), 16), b.DeriveChallenge("e_i", []byte("x"), 16), name)
		require.NotEqual(t, a.DeriveChallenge("e_i", nil, 16), a.DeriveChallenge("e_i", []byte("x"), 16), name)
	}
}

// TestDeriveChallengeFraming tests label/data framing and the output cap
func TestDeriveChallengeFraming(t *testing.T) {
	a := NewOracle(nil)
	a.Absorb("ab", []byte("c"))
	b := NewOracle(nil)
	b.Absorb("a", []byte("bc"))
	require.NotEqual(t, a.DeriveChallenge("e", nil, 8), b.DeriveChallenge("e", nil, 8))

	require.Len(t, a.DeriveChallenge("e", nil, 1000), oracle.FullDigestLen)

	before := a.DeriveChallenge("e", nil, 8)
	a.Reset()
	require.NotEqual(t, before, a.DeriveChallenge("e", nil, 8))
	require.Equal(t, NewOracle(nil).DeriveChallenge("e", nil, 8), a.DeriveChallenge("e", nil, 8))
}

// TestChallengeMasking tests challenge length and high-bit masking
func TestChallengeMasking(t *testing.T) {
	require.Equal(t, 1, ChallengeLen(0))
	require.Equal(t, 1, ChallengeLen(3))
	require.Equal(t, 1, ChallengeLen(8))
	require.Equal(t, 2, ChallengeLen(9))

	e := []byte{0xff, 0xff}
	MaskChallenge(e, 12)
	require.Equal(t, []byte{0xff, 0x0f}, e)

	e = []byte{0xff}
	MaskChallenge(e, 8)
	require.Equal(t, []byte{0xff}, e)

	s := newToySchnorr(3)
	p, err := Prove(NewOracle(nil), s.statement(), nil, 8, 3, s.commit, s.respond)
	require.NoError(t, err)
	require.True(t, Verify(NewOracle(nil), s.statement(), nil, p, func(i int, m, e, z []byte) bool {
		return len(e) == 1 && e[0] < 8 && s.check(i, m, e, z)
	}))
}

// TestProveRejectsBadParams tests prover parameter validation
func TestProveRejectsBadParams(t *testing.T) {
	s := newToySchnorr(4)
	_, err := Prove(NewOracle(nil), nil, nil, 0, 8, s.commit, s.respond)
	require.ErrorIs(t, err, errs.ErrMalformed)
	_, err = Prove(NewOracle(nil), nil, nil, 1, 0, s.commit, s.respond)
	require.ErrorIs(t, err, errs.ErrMalformed)
	_, err = Prove(NewOracle(nil), nil, nil, 1, 57, s.commit, s.respond)
	require.ErrorIs(t, err, errs.ErrMalformed)
}

func proveSamples(t *testing.T) uint64 {
	t.Helper()
	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "vybium_fsr_prove_duration_seconds" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "transform" && l.GetValue() == metrics.TransformFS {
					return m.GetHistogram().GetSampleCount()
				}
			}
		}
	}
	return 0
}

// TestProveDurationOnlyOnSuccess tests that failed proofs leave the duration histogram alone
func TestProveDurationOnlyOnSuccess(t *testing.T) {
	s := newToySchnorr(6)
	before := proveSamples(t)

	failing := func(int) ([]byte, error) { return nil, errors.New("no randomness") }
	_, err := Prove(NewOracle(nil), nil, nil, 4, 8, failing, s.respond)
	require.ErrorIs(t, err, errs.ErrMalformed)
	require.Equal(t, before, proveSamples(t))

	_, err = Prove(NewOracle(nil), []byte("x"), []byte("sid"), 4, 8, s.commit, s.respond)
	require.NoError(t, err)
	require.Equal(t, before+1, proveSamples(t))
}

// TestProofRoundTrip tests encode/decode and trailing-byte rejection
func TestProofRoundTrip(t *testing.T) {
	s := newToySchnorr(5)
	p, err := Prove(NewOracle(nil), s.statement(), []byte("sid"), 6, 10, s.commit, s.respond)
	require.NoError(t, err)

	raw := p.Bytes()
	require.Equal(t, Tag, raw[:3])
	got, ok := DecodeProof(raw)
	require.True(t, ok)
	if diff := cmp.Diff(p, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	_, ok = DecodeProof(append(raw, 0))
	require.False(t, ok)
	for n := 0; n < len(raw); n++ {
		_, ok = DecodeProof(raw[:n])
		require.False(t, ok, "truncated at %d", n)
	}
	bad := append([]byte(nil), raw...)
	bad[0] = 'X'
	_, ok = DecodeProof(bad)
	require.False(t, ok)
}

func FuzzDecodeProof(f *testing.F) {
	f.Add((&Proof{M: [][]byte{{1}}, Z: [][]byte{{2}}, Rho: 1, B: 8}).Bytes())
	f.Add([]byte("FS\x00"))
	f.Fuzz(func(t *testing.T, data []byte) {
		p, ok := DecodeProof(data)
		if !ok {
			return
		}
		again, ok := DecodeProof(p.Bytes())
		if !ok || !cmp.Equal(p, again) {
			t.Fatalf("re-encoding changed the proof")
		}
	})
}

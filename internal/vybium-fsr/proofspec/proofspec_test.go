package proofspec

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/record"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/sigma/toy"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/transcript"
)

const schnorrDomain = "toy-schnorr-spec"

func scalarOf(g *toy.Group) func() Value {
	return func() Value {
		s := g.Scalar(0)
		return &s
	}
}

func bindScalar(name string) func(toy.Statement, Values) codec.Encoder {
	return func(_ toy.Statement, v Values) codec.Encoder {
		s, ok := Get[*toy.Scalar](v, name)
		if !ok {
			return nil
		}
		return s
	}
}

// schnorrSpec mirrors toy.Prover.ProveRound: statement, commitment fields,
// commitment sentinel, challenge, response.
func schnorrSpec(g *toy.Group) *Spec[toy.Statement] {
	return &Spec[toy.Statement]{
		Name:   "ToySchnorr",
		Domain: schnorrDomain,
		Header: Header{Schema: "toy-schnorr/v1", IncludeDomain: true},
		Rounds: []Round[toy.Statement]{{
			Name: "sigma",
			Fields: []Field{
				AbsorbField("t", toy.CommitmentFieldLabel(), scalarOf(g)),
				ChallengeField("e", toy.LabelChallenge, scalarOf(g)),
				AbsorbField("z", toy.ResponseFieldLabel(), scalarOf(g)),
			},
			Replay: []ReplayStep[toy.Statement]{
				BindValue(toy.LabelStatement, func(pub toy.Statement, _ Values) codec.Encoder {
					return codec.Bytes(pub.Bytes(g))
				}),
				BindValue(toy.CommitmentFieldLabel(), bindScalar("t")),
				BindLabel[toy.Statement](toy.Commitment{}.Label()),
			},
			Check: func(pub toy.Statement, v Values) bool {
				t, ok1 := Get[*toy.Scalar](v, "t")
				e, ok2 := Get[*toy.Scalar](v, "e")
				z, ok3 := Get[*toy.Scalar](v, "z")
				if !ok1 || !ok2 || !ok3 {
					return false
				}
				return toy.NewVerifier(g, pub).CheckRound(toy.Commitment{T: t.V}, *e, toy.Response{Z: z.V})
			},
		}},
	}
}

func recordRound(t *testing.T, seed int64) (*toy.Group, *toy.Prover, []record.Event) {
	t.Helper()
	g, err := toy.NewGroup(toy.DefaultModulus)
	require.NoError(t, err)
	p := toy.NewProver(g, 5, 987654, rand.New(rand.NewSource(seed)))
	rec := record.New(oracle.NewHashOracle([]byte(schnorrDomain), nil))
	_, _, _, err = p.ProveRound(transcript.New(rec, toy.RoundMask()))
	require.NoError(t, err)
	return g, p, rec.Events()
}

// TestValidate tests structural checks on descriptions
func TestValidate(t *testing.T) {
	g, err := toy.NewGroup(toy.DefaultModulus)
	require.NoError(t, err)
	require.NoError(t, schnorrSpec(g).Validate())

	u64 := func() Value { return new(codec.U64) }
	tests := []struct {
		name   string
		mutate func(s *Spec[toy.Statement])
		want   string
	}{
		{"no rounds", func(s *Spec[toy.Statement]) { s.Rounds = nil }, "no rounds"},
		{"duplicate field", func(s *Spec[toy.Statement]) {
			s.Rounds[0].Fields = append(s.Rounds[0].Fields, AbsorbField("t", "other", u64))
		}, "duplicate"},
		{"empty label", func(s *Spec[toy.Statement]) { s.Rounds[0].Fields[0].Label = "" }, "empty label"},
		{"underivable challenge", func(s *Spec[toy.Statement]) { s.Rounds[0].Fields[1].New = u64 }, "cannot be derived"},
		{"oversized schema", func(s *Spec[toy.Statement]) { s.Header.Schema = strings.Repeat("s", 256) }, "schema"},
		{"oversized domain", func(s *Spec[toy.Statement]) { s.Domain = strings.Repeat("d", 300) }, "domain"},
		{"empty replay label", func(s *Spec[toy.Statement]) {
			s.Rounds[0].Replay = append(s.Rounds[0].Replay, BindLabel[toy.Statement](""))
		}, "empty label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := schnorrSpec(g)
			tt.mutate(s)
			err := s.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

// TestProveFromRecordedRound tests that a recorded transcript round becomes a verifying proof
func TestProveFromRecordedRound(t *testing.T) {
	g, p, events := recordRound(t, 1)
	spec := schnorrSpec(g)

	proof, ok := spec.Prove(events)
	require.True(t, ok)
	require.True(t, spec.Verify(p.Statement(), proof))

	raw, err := spec.Encode(proof)
	require.NoError(t, err)
	require.True(t, spec.VerifyBytes(p.Statement(), raw))

	decoded, ok := spec.Decode(raw)
	require.True(t, ok)
	again, err := spec.Encode(decoded)
	require.NoError(t, err)
	require.Equal(t, raw, again)
}

// TestVerifyRejectsTampering tests each way a proof can disagree with its transcript
func TestVerifyRejectsTampering(t *testing.T) {
	g, p, events := recordRound(t, 2)
	spec := schnorrSpec(g)
	stmt := p.Statement()

	for _, name := range []string{"t", "e", "z"} {
		t.Run(name, func(t *testing.T) {
			proof, ok := spec.Prove(events)
			require.True(t, ok)
			s, _ := Get[*toy.Scalar](proof.Values, name)
			*s = g.Scalar(s.V + 1)
			require.False(t, spec.Verify(stmt, proof))
		})
	}

	proof, ok := spec.Prove(events)
	require.True(t, ok)
	require.False(t, spec.Verify(toy.Statement{G: stmt.G, Y: stmt.Y + 1}, proof))

	delete(proof.Values, "z")
	require.False(t, spec.Verify(stmt, proof))
	require.False(t, spec.Verify(stmt, nil))
}

// TestVerifyBindsDomain tests that a proof does not verify under another domain
func TestVerifyBindsDomain(t *testing.T) {
	g, p, events := recordRound(t, 3)
	spec := schnorrSpec(g)
	proof, ok := spec.Prove(events)
	require.True(t, ok)

	other := *spec
	other.Domain = "another-domain"
	require.False(t, other.Verify(p.Statement(), proof))

	blake := *spec
	blake.Backend = oracle.MustRandomOracle(oracle.BackendBLAKE3)
	require.False(t, blake.Verify(p.Statement(), proof))
}

// TestProveNeedsEveryField tests that missing or undecodable events yield no proof
func TestProveNeedsEveryField(t *testing.T) {
	g, _, events := recordRound(t, 4)
	spec := schnorrSpec(g)

	var missing []record.Event
	for _, e := range events {
		if e.Label != toy.ResponseFieldLabel() {
			missing = append(missing, e)
		}
	}
	require.Len(t, missing, len(events)-1)
	_, ok := spec.Prove(missing)
	require.False(t, ok)

	broken := append([]record.Event(nil), events...)
	for i, e := range broken {
		if e.Label == toy.ResponseFieldLabel() {
			broken[i].Bytes = e.Bytes[:7]
		}
	}
	_, ok = spec.Prove(broken)
	require.False(t, ok)
}

// TestProveScansForward tests that a field recorded before an earlier field is not matched
func TestProveScansForward(t *testing.T) {
	g, _, events := recordRound(t, 5)
	spec := schnorrSpec(g)

	var resp record.Event
	var rest []record.Event
	for _, e := range events {
		if e.Label == toy.ResponseFieldLabel() {
			resp = e
			continue
		}
		rest = append(rest, e)
	}
	reordered := append([]record.Event{resp}, rest...)
	_, ok := spec.Prove(reordered)
	require.False(t, ok)
}

// TestDecodeHeader tests header parsing against the description
func TestDecodeHeader(t *testing.T) {
	g, _, events := recordRound(t, 6)
	spec := schnorrSpec(g)
	proof, ok := spec.Prove(events)
	require.True(t, ok)
	raw, err := spec.Encode(proof)
	require.NoError(t, err)

	require.Equal(t, []byte(Magic), raw[:4])
	require.Equal(t, byte(DefaultVersion), raw[4])
	require.Equal(t, byte(len("toy-schnorr/v1")), raw[5])

	_, ok = spec.Decode(append(append([]byte(nil), raw...), 0))
	require.False(t, ok, "trailing byte")
	_, ok = spec.Decode(raw[:len(raw)-1])
	require.False(t, ok, "truncated")

	v2 := *spec
	v2.Header.Version = 2
	_, ok = v2.Decode(raw)
	require.False(t, ok, "version")

	renamed := *spec
	renamed.Header.Schema = "toy-schnorr/v2"
	_, ok = renamed.Decode(raw)
	require.False(t, ok, "schema")

	noDomain := *spec
	noDomain.Header.IncludeDomain = false
	_, ok = noDomain.Decode(raw)
	require.False(t, ok, "domain present")

	short, err := noDomain.Encode(proof)
	require.NoError(t, err)
	require.Len(t, short, len(raw)-len(schnorrDomain))
	_, ok = noDomain.Decode(short)
	require.True(t, ok)
}

// TestMultiRound tests that later rounds see earlier absorptions and values
func TestMultiRound(t *testing.T) {
	g, err := toy.NewGroup(toy.DefaultModulus)
	require.NoError(t, err)
	const domain = "two-rounds"
	spec := &Spec[uint64]{
		Name:   "Chain",
		Domain: domain,
		Rounds: []Round[uint64]{
			{
				Name:   "first",
				Fields: []Field{AbsorbField("x", "a.x", scalarOf(g)), ChallengeField("c1", "a.c", scalarOf(g))},
				Replay: []ReplayStep[uint64]{
					BindValue("a.pub", func(pub uint64, _ Values) codec.Encoder { return codec.U64(pub) }),
					BindValue("a.x", func(_ uint64, v Values) codec.Encoder { return v["x"] }),
				},
			},
			{
				Name:   "second",
				Fields: []Field{AbsorbField("y", "b.y", scalarOf(g)), ChallengeField("c2", "b.c", scalarOf(g))},
				Replay: []ReplayStep[uint64]{
					BindValue("b.y", func(_ uint64, v Values) codec.Encoder { return v["y"] }),
				},
				Check: func(pub uint64, v Values) bool {
					x, _ := Get[*toy.Scalar](v, "x")
					c1, _ := Get[*toy.Scalar](v, "c1")
					y, _ := Get[*toy.Scalar](v, "y")
					return y.V == g.Scalar(x.V+c1.V+pub).V
				},
			},
		},
	}
	require.NoError(t, spec.Validate())

	const pub = 77
	rec := record.New(oracle.NewHashOracle([]byte(domain), nil))
	rec.AbsorbBytes("a.pub", codec.U64(pub).Encode(nil))
	x := g.Scalar(123456)
	rec.AbsorbBytes("a.x", x.Encode(nil))
	c1 := g.Scalar(0)
	require.NoError(t, rec.Challenge("a.c", &c1))
	y := g.Scalar(x.V + c1.V + pub)
	rec.AbsorbBytes("b.y", y.Encode(nil))
	c2 := g.Scalar(0)
	require.NoError(t, rec.Challenge("b.c", &c2))

	proof, ok := spec.Prove(rec.Events())
	require.True(t, ok)
	require.True(t, spec.Verify(pub, proof))
	require.False(t, spec.Verify(pub+1, proof))

	forged, ok := spec.Prove(rec.Events())
	require.True(t, ok)
	s, _ := Get[*toy.Scalar](forged.Values, "c2")
	*s = g.Scalar(s.V + 1)
	require.False(t, spec.Verify(pub, forged))
}

// TestSourceString tests source names
func TestSourceString(t *testing.T) {
	require.Equal(t, "absorb", SourceAbsorb.String())
	require.Equal(t, "challenge", SourceChallenge.String())
	require.Equal(t, "unknown", Source(9).String())
}

func FuzzDecode(f *testing.F) {
	g, err := toy.NewGroup(toy.DefaultModulus)
	if err != nil {
		f.Fatal(err)
	}
	spec := schnorrSpec(g)
	f.Add([]byte(Magic))
	f.Add([]byte("FSR\x00\x01\x00\x00"))
	f.Fuzz(func(t *testing.T, b []byte) {
		if proof, ok := spec.Decode(b); ok {
			raw, err := spec.Encode(proof)
			if err != nil {
				t.Fatal(err)
			}
			if string(raw) != string(b) {
				t.Fatalf("re-encoding differs")
			}
		}
	})
}

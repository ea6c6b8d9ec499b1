package toy

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/fischlin"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/fs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/transcript"
)

// Statement claims knowledge of w with Y = w*G.
type Statement struct {
	G, Y uint64
}

// Bytes encodes p | G | Y.
func (s Statement) Bytes(g *Group) []byte {
	out := codec.AppendUint64(nil, g.p)
	out = codec.AppendUint64(out, s.G)
	return codec.AppendUint64(out, s.Y)
}

// ParseStatement reverses Statement.Bytes and checks the modulus.
func ParseStatement(g *Group, b []byte) (Statement, error) {
	c := codec.NewCursor(b)
	p, ok1 := c.Uint64()
	gen, ok2 := c.Uint64()
	y, ok3 := c.Uint64()
	if !ok1 || !ok2 || !ok3 || !c.Empty() {
		return Statement{}, fmt.Errorf("toy statement must be 24 bytes, got %d", len(b))
	}
	if p != g.p {
		return Statement{}, fmt.Errorf("toy statement modulus %d, group modulus %d", p, g.p)
	}
	return Statement{G: gen, Y: y}, nil
}

// Prover holds the witness.
type Prover struct {
	group *Group
	stmt  Statement
	w     uint64
	rand  io.Reader
}

// NewProver computes Y = w*G. A nil rnd uses crypto/rand.
func NewProver(group *Group, gen, w uint64, rnd io.Reader) *Prover {
	if rnd == nil {
		rnd = rand.Reader
	}
	return &Prover{
		group: group,
		stmt:  Statement{G: gen % group.p, Y: group.mul(gen, w)},
		w:     w % group.p,
		rand:  rnd,
	}
}

// Statement returns the public statement.
func (p *Prover) Statement() Statement {
	return p.stmt
}

func (p *Prover) sample() (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(p.rand, buf[:]); err != nil {
		return 0, fmt.Errorf("sample commitment randomness: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]) % p.group.p, nil
}

// Commit draws r and returns t = r*G and r.
func (p *Prover) Commit(int) ([]byte, uint64, error) {
	r, err := p.sample()
	if err != nil {
		return nil, 0, err
	}
	return p.group.Scalar(p.group.mul(r, p.stmt.G)).Encode(nil), r, nil
}

// Respond returns z = r + e*w.
func (p *Prover) Respond(r uint64, e []byte) ([]byte, error) {
	ev, ok := decodeChallenge(e)
	if !ok {
		return nil, fmt.Errorf("toy challenge of %d bytes", len(e))
	}
	return p.group.Scalar(p.group.add(r, p.group.mul(ev, p.w))).Encode(nil), nil
}

// Responses yields z_0 = r, then z_{k+1} = z_k + w: the response to
// challenge k with one addition per step.
func (p *Prover) Responses(_ int, r uint64) func() []byte {
	z := r
	started := false
	return func() []byte {
		if started {
			z = p.group.add(z, p.w)
		}
		started = true
		return p.group.Scalar(z).Encode(nil)
	}
}

// ProveFS produces an FS proof with rho repetitions of b-bit challenges.
func (p *Prover) ProveFS(o *fs.Oracle, sid []byte, rho uint16, b uint8) (*fs.Proof, error) {
	rs := make([]uint64, rho)
	commit := func(i int) ([]byte, error) {
		m, r, err := p.Commit(i)
		rs[i] = r
		return m, err
	}
	respond := func(i int, e []byte) ([]byte, error) {
		return p.Respond(rs[i], e)
	}
	return fs.Prove(o, p.stmt.Bytes(p.group), sid, rho, b, commit, respond)
}

// ProveFischlin produces a Fischlin proof.
func (p *Prover) ProveFischlin(ro oracle.RandomOracle, params fischlin.Params, sid []byte, opts ...fischlin.Opt) (*fischlin.Proof, error) {
	return fischlin.NewProver[uint64](ro, params, p, opts...).Prove(p.stmt.Bytes(p.group), sid)
}

// Verifier checks proofs for a statement.
type Verifier struct {
	group *Group
	stmt  Statement
}

// NewVerifier returns a verifier for stmt.
func NewVerifier(group *Group, stmt Statement) *Verifier {
	return &Verifier{group: group, stmt: stmt}
}

// Check verifies z*G == t + e*Y for one repetition.
func (v *Verifier) Check(_ int, m, e, z []byte) bool {
	t, ok := v.group.decode(m)
	if !ok {
		return false
	}
	zv, ok := v.group.decode(z)
	if !ok {
		return false
	}
	ev, ok := decodeChallenge(e)
	if !ok {
		return false
	}
	return v.group.mul(zv, v.stmt.G) == v.group.add(t, v.group.mul(ev, v.stmt.Y))
}

// VerifyFS checks an FS proof.
func (v *Verifier) VerifyFS(o *fs.Oracle, sid []byte, proof *fs.Proof) bool {
	return fs.Verify(o, v.stmt.Bytes(v.group), sid, proof, v.Check)
}

// VerifyFischlin checks a Fischlin proof.
func (v *Verifier) VerifyFischlin(ro oracle.RandomOracle, params fischlin.Params, sid []byte, proof *fischlin.Proof) bool {
	return fischlin.Verify(ro, params, v.stmt.Bytes(v.group), sid, proof, v.Check)
}

const (
	LabelStatement = "toy.statement"
	LabelChallenge = "toy.e"

	obligCommit = 0
)

// Commitment is the prover's first message.
type Commitment struct {
	T uint64
}

// Response is the prover's last message.
type Response struct {
	Z uint64
}

var commitmentBinding = transcript.NewBinding[Commitment]("toy.commit").
	Field("t", obligCommit, func(c Commitment) []byte { return codec.AppendUint64(nil, c.T) })

var responseBinding = transcript.NewBinding[Response]("toy.response").
	Field("z", transcript.NoObligation, func(r Response) []byte { return codec.AppendUint64(nil, r.Z) })

func (c Commitment) ObligMask() transcript.Mask      { return commitmentBinding.Mask() }
func (c Commitment) Bind(a oracle.Absorber)          { commitmentBinding.Bind(a, c) }
func (c Commitment) Direction() transcript.Direction { return transcript.ProverToVerifier }
func (c Commitment) Label() string                   { return commitmentBinding.MsgLabel() }
func (r Response) ObligMask() transcript.Mask        { return responseBinding.Mask() }
func (r Response) Bind(a oracle.Absorber)            { responseBinding.Bind(a, r) }
func (r Response) Direction() transcript.Direction   { return transcript.ProverToVerifier }
func (r Response) Label() string                     { return responseBinding.MsgLabel() }

// CommitmentFieldLabel is the label the commitment's t is absorbed under.
func CommitmentFieldLabel() string {
	l, _ := commitmentBinding.FieldLabel("t")
	return l
}

// ResponseFieldLabel is the label the response's z is absorbed under.
func ResponseFieldLabel() string {
	l, _ := responseBinding.FieldLabel("z")
	return l
}

// RoundMask is the pending mask a Schnorr round starts with.
func RoundMask() transcript.Mask {
	return transcript.RoundMask(Commitment{})
}

// ProveRound runs one round over tr: statement, commitment, challenge,
// response. tr must start with RoundMask pending.
func (p *Prover) ProveRound(tr *transcript.Transcript) (Commitment, Scalar, Response, error) {
	tr.AbsorbBytes(LabelStatement, p.stmt.Bytes(p.group))
	r, err := p.sample()
	if err != nil {
		return Commitment{}, Scalar{}, Response{}, err
	}
	c := Commitment{T: p.group.mul(r, p.stmt.G)}
	tr.AbsorbMessage(c)

	e := p.group.Scalar(0)
	if err := tr.Challenge(LabelChallenge, &e); err != nil {
		return Commitment{}, Scalar{}, Response{}, err
	}
	resp := Response{Z: p.group.add(r, p.group.mul(e.V, p.w))}
	tr.AbsorbMessage(resp)
	return c, e, resp, nil
}

// CheckRound verifies z*G == t + e*Y for a transcript round.
func (v *Verifier) CheckRound(c Commitment, e Scalar, r Response) bool {
	return v.group.mul(r.Z, v.stmt.G) == v.group.add(c.T, v.group.mul(e.V, v.stmt.Y))
}

var (
	_ fischlin.Protocol[uint64] = (*Prover)(nil)
	_ transcript.Message        = Commitment{}
	_ transcript.Message        = Response{}
	_ oracle.Challenge          = (*Scalar)(nil)
)

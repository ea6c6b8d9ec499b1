// Package schnorr is Schnorr's proof of knowledge of a discrete logarithm
// over edwards25519, wired into the FS and Fischlin transforms.
package schnorr

import (
	"crypto/cipher"
	"fmt"

	"github.com/drand/kyber"
	"github.com/drand/kyber/group/edwards25519"
	"github.com/drand/kyber/util/random"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/fischlin"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/fs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// Suite is the group every proof in this package lives in.
var Suite = edwards25519.NewBlakeSHA256Ed25519()

// KeyPair is a witness x and its public key X = x*B.
type KeyPair struct {
	Secret kyber.Scalar
	Public kyber.Point
}

// NewKeyPair picks a fresh secret from stream. A nil stream uses
// kyber's default randomness.
func NewKeyPair(stream cipher.Stream) *KeyPair {
	if stream == nil {
		stream = random.New()
	}
	x := Suite.Scalar().Pick(stream)
	return &KeyPair{Secret: x, Public: Suite.Point().Mul(x, nil)}
}

// StatementBytes is the canonical encoding of the public key.
func StatementBytes(pub kyber.Point) ([]byte, error) {
	b, err := pub.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}
	return b, nil
}

// challengeScalar maps little-endian challenge bytes to a scalar. The
// challenge is far narrower than the group order, so no reduction happens.
func challengeScalar(e []byte) kyber.Scalar {
	return Suite.Scalar().SetBytes(e)
}

// Prover proves knowledge of the key pair's secret.
type Prover struct {
	kp     *KeyPair
	stream cipher.Stream
}

// NewProver returns a prover drawing commitment randomness from stream, or
// from kyber's default randomness when stream is nil.
func NewProver(kp *KeyPair, stream cipher.Stream) *Prover {
	if stream == nil {
		stream = random.New()
	}
	return &Prover{kp: kp, stream: stream}
}

// Commit picks r and returns T = r*B.
func (p *Prover) Commit(int) ([]byte, kyber.Scalar, error) {
	r := Suite.Scalar().Pick(p.stream)
	t, err := Suite.Point().Mul(r, nil).MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("marshal commitment: %w", err)
	}
	return t, r, nil
}

// Respond returns z = r + e*x.
func (p *Prover) Respond(r kyber.Scalar, e []byte) ([]byte, error) {
	ex := Suite.Scalar().Mul(challengeScalar(e), p.kp.Secret)
	return Suite.Scalar().Add(r, ex).MarshalBinary()
}

// Responses yields z_0 = r and z_{k+1} = z_k + x, one scalar addition per
// trial.
func (p *Prover) Responses(_ int, r kyber.Scalar) func() []byte {
	z := r.Clone()
	started := false
	return func() []byte {
		if started {
			z = Suite.Scalar().Add(z, p.kp.Secret)
		}
		started = true
		b, err := z.MarshalBinary()
		if err != nil {
			// scalar marshalling into a fixed-size buffer cannot fail
			panic(err)
		}
		return b
	}
}

// ProveFS produces an FS proof.
func (p *Prover) ProveFS(o *fs.Oracle, sid []byte, rho uint16, b uint8) (*fs.Proof, error) {
	x, err := StatementBytes(p.kp.Public)
	if err != nil {
		return nil, err
	}
	rs := make([]kyber.Scalar, rho)
	commit := func(i int) ([]byte, error) {
		m, r, err := p.Commit(i)
		rs[i] = r
		return m, err
	}
	respond := func(i int, e []byte) ([]byte, error) {
		return p.Respond(rs[i], e)
	}
	return fs.Prove(o, x, sid, rho, b, commit, respond)
}

// ProveFischlin produces a Fischlin proof.
func (p *Prover) ProveFischlin(ro oracle.RandomOracle, params fischlin.Params, sid []byte, opts ...fischlin.Opt) (*fischlin.Proof, error) {
	x, err := StatementBytes(p.kp.Public)
	if err != nil {
		return nil, err
	}
	return fischlin.NewProver[kyber.Scalar](ro, params, p, opts...).Prove(x, sid)
}

// Verifier checks proofs against a public key.
type Verifier struct {
	pub kyber.Point
}

// NewVerifier returns a verifier for pub.
func NewVerifier(pub kyber.Point) *Verifier {
	return &Verifier{pub: pub}
}

// Check verifies z*B == T + e*X for one repetition.
func (v *Verifier) Check(_ int, m, e, z []byte) bool {
	if len(e) == 0 || len(e) > 8 {
		return false
	}
	t := Suite.Point()
	if err := t.UnmarshalBinary(m); err != nil {
		return false
	}
	zs := Suite.Scalar()
	if err := zs.UnmarshalBinary(z); err != nil {
		return false
	}
	lhs := Suite.Point().Mul(zs, nil)
	rhs := Suite.Point().Add(t, Suite.Point().Mul(challengeScalar(e), v.pub))
	return lhs.Equal(rhs)
}

// VerifyFS checks an FS proof.
func (v *Verifier) VerifyFS(o *fs.Oracle, sid []byte, proof *fs.Proof) bool {
	x, err := StatementBytes(v.pub)
	if err != nil {
		return false
	}
	return fs.Verify(o, x, sid, proof, v.Check)
}

// VerifyFischlin checks a Fischlin proof.
func (v *Verifier) VerifyFischlin(ro oracle.RandomOracle, params fischlin.Params, sid []byte, proof *fischlin.Proof) bool {
	x, err := StatementBytes(v.pub)
	if err != nil {
		return false
	}
	return fischlin.Verify(ro, params, x, sid, proof, v.Check)
}

var _ fischlin.Protocol[kyber.Scalar] = (*Prover)(nil)

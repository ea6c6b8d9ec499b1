package schnorr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/fischlin"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/fs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

func fixture(seed string) (*KeyPair, *Prover, *Verifier) {
	kp := NewKeyPair(Suite.XOF([]byte(seed + "/key")))
	return kp, NewProver(kp, Suite.XOF([]byte(seed+"/nonce"))), NewVerifier(kp.Public)
}

// TestCheckAlgebra tests a single repetition against z*B == T + e*X
func TestCheckAlgebra(t *testing.T) {
	_, p, v := fixture("algebra")
	m, r, err := p.Commit(0)
	require.NoError(t, err)
	e := []byte{0x2a, 0x01}
	z, err := p.Respond(r, e)
	require.NoError(t, err)
	require.True(t, v.Check(0, m, e, z))
	require.False(t, v.Check(0, m, []byte{0x2b, 0x01}, z))
	require.False(t, v.Check(0, m, nil, z))
	require.False(t, v.Check(0, m[:31], e, z))
	require.False(t, v.Check(0, m, e, z[:31]))
}

// TestResponsesStream tests the one-addition stream against direct responses
func TestResponsesStream(t *testing.T) {
	_, p, _ := fixture("stream")
	_, r, err := p.Commit(0)
	require.NoError(t, err)
	next := p.Responses(0, r)
	for k := 0; k < 40; k++ {
		want, err := p.Respond(r, []byte{byte(k), 0})
		require.NoError(t, err)
		require.Equal(t, want, next(), "k=%d", k)
	}
}

// TestFSProof tests FS proofs over edwards25519
func TestFSProof(t *testing.T) {
	_, p, v := fixture("fs")
	sid := []byte("ed25519-fs")
	proof, err := p.ProveFS(fs.NewOracle(nil), sid, 16, 8)
	require.NoError(t, err)
	require.True(t, v.VerifyFS(fs.NewOracle(nil), sid, proof))

	other, _, _ := fixture("other")
	require.False(t, NewVerifier(other.Public).VerifyFS(fs.NewOracle(nil), sid, proof))
}

// TestFischlinProof tests Fischlin proofs over edwards25519
func TestFischlinProof(t *testing.T) {
	_, p, v := fixture("fischlin")
	sid := []byte("ed25519-fischlin")
	params := fischlin.NewParams(16, 8)
	ro := oracle.MustRandomOracle(oracle.BackendBLAKE2b)

	proof, err := p.ProveFischlin(ro, params, sid)
	require.NoError(t, err)
	require.True(t, v.VerifyFischlin(ro, params, sid, proof))

	decoded, ok := fischlin.DecodeProof(proof.Bytes())
	require.True(t, ok)
	require.True(t, v.VerifyFischlin(ro, params, sid, decoded))

	decoded.Z[5][0] ^= 1
	require.False(t, v.VerifyFischlin(ro, params, sid, decoded))
}

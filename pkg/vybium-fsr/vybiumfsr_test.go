package vybiumfsr

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/sigma/toy"
)

func toyParties(t *testing.T) (*toy.Group, *toy.Prover, *toy.Verifier) {
	t.Helper()
	g, err := toy.NewGroup(toy.DefaultModulus)
	require.NoError(t, err)
	p := toy.NewProver(g, 5, 31337, rand.New(rand.NewSource(42)))
	return g, p, toy.NewVerifier(g, p.Statement())
}

func TestFSRoundTrip(t *testing.T) {
	g, p, v := toyParties(t)
	cfg := DefaultConfig().WithTransform("fs").WithBackend("blake2b")
	stmt := p.Statement().Bytes(g)
	sid := []byte("facade-fs")

	rs := make([]uint64, cfg.Rho)
	commit := func(i int) ([]byte, error) {
		m, r, err := p.Commit(i)
		rs[i] = r
		return m, err
	}
	respond := func(i int, e []byte) ([]byte, error) { return p.Respond(rs[i], e) }

	proof, err := ProveFS(cfg, stmt, sid, commit, respond)
	require.NoError(t, err)

	decoded, ok := DecodeFSProof(proof.Bytes())
	require.True(t, ok)
	ok, err = VerifyFS(cfg, stmt, sid, decoded, v.Check)
	require.NoError(t, err)
	require.True(t, ok)

	// a verifier insists on its own repetition count
	ok, err = VerifyFS(cfg.Clone().WithRepetitions(32, 8), stmt, sid, decoded, v.Check)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFischlinRoundTrip(t *testing.T) {
	g, p, v := toyParties(t)
	cfg := DefaultConfig()
	stmt := p.Statement().Bytes(g)
	sid := []byte("facade-fischlin")

	proof, err := ProveFischlin[uint64](cfg, stmt, sid, p, zaptest.NewLogger(t))
	require.NoError(t, err)

	decoded, ok := DecodeFischlinProof(proof.Bytes())
	require.True(t, ok)
	ok, err = VerifyFischlin(cfg, stmt, sid, decoded, v.Check)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyFischlin(cfg, stmt, []byte("other session"), decoded, v.Check)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDomainSeparation(t *testing.T) {
	g, p, v := toyParties(t)
	stmt := p.Statement().Bytes(g)
	sid := []byte("facade-domain")
	domainA := DefaultConfig().WithDomain("domain-A")
	domainB := DefaultConfig().WithDomain("domain-B")

	proof, err := ProveFischlin[uint64](domainA, stmt, sid, p, nil)
	require.NoError(t, err)
	ok, err := VerifyFischlin(domainA, stmt, sid, proof, v.Check)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = VerifyFischlin(domainB, stmt, sid, proof, v.Check)
	require.NoError(t, err)
	require.False(t, ok)

	fsA := domainA.Clone().WithTransform("fs")
	fsB := domainB.Clone().WithTransform("fs")
	rs := make([]uint64, fsA.Rho)
	commit := func(i int) ([]byte, error) {
		m, r, err := p.Commit(i)
		rs[i] = r
		return m, err
	}
	respond := func(i int, e []byte) ([]byte, error) { return p.Respond(rs[i], e) }
	fsProof, err := ProveFS(fsA, stmt, sid, commit, respond)
	require.NoError(t, err)
	ok, err = VerifyFS(fsA, stmt, sid, fsProof, v.Check)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = VerifyFS(fsB, stmt, sid, fsProof, v.Check)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInvalidConfig(t *testing.T) {
	_, p, v := toyParties(t)
	bad := DefaultConfig().WithRepetitions(4, 8)

	_, err := ProveFischlin[uint64](bad, nil, nil, p, nil)
	require.ErrorIs(t, err, ErrUnsoundParams)

	_, err = VerifyFischlin(bad, nil, nil, nil, v.Check)
	require.ErrorIs(t, err, ErrUnsoundParams)

	_, err = ProveFS(DefaultConfig().WithBackend("md4"), nil, nil, nil, nil)
	require.Error(t, err)
}

func TestErrorsReexported(t *testing.T) {
	var pe *ProveError
	err := error(&ProveError{Code: CodeRetryNeeded, Reason: "exhausted"})
	require.True(t, errors.As(err, &pe))
	require.True(t, IsRetry(err))
	require.ErrorIs(t, err, ErrRetryNeeded)
	require.NotErrorIs(t, err, ErrMalformed)
}

func TestBackends(t *testing.T) {
	for _, name := range Backends() {
		ro, err := NewRandomOracle(name)
		require.NoError(t, err, name)
		require.Len(t, ro.HFull("l", nil), 64, name)
	}
}

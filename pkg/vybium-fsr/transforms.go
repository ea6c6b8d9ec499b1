package vybiumfsr

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/fischlin"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/fs"
)

// resolve validates cfg, substituting the default for nil, and returns its
// backend.
func resolve(cfg *Config) (*Config, RandomOracle, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	ro, err := cfg.RandomOracle()
	if err != nil {
		return nil, nil, err
	}
	return cfg, ro, nil
}

// boundSID prefixes sid with cfg.Domain, both length-prefixed, so proofs
// made under one domain never verify under another.
func boundSID(cfg *Config, sid []byte) []byte {
	out := codec.AppendLengthPrefixed(nil, []byte(cfg.Domain))
	return codec.AppendLengthPrefixed(out, sid)
}

// ProveFS produces an FS proof with cfg.Rho repetitions of cfg.B-bit
// challenges
func ProveFS(cfg *Config, statement, sid []byte, commit Committer, respond Responder) (*FSProof, error) {
	cfg, ro, err := resolve(cfg)
	if err != nil {
		return nil, err
	}
	return fs.Prove(fs.NewOracle(ro), statement, boundSID(cfg, sid), cfg.Rho, cfg.B, commit, respond)
}

// VerifyFS checks an FS proof. A proof with other repetition parameters
// than cfg's is rejected.
func VerifyFS(cfg *Config, statement, sid []byte, proof *FSProof, check SigmaVerifier) (bool, error) {
	cfg, ro, err := resolve(cfg)
	if err != nil {
		return false, err
	}
	if proof == nil || proof.Rho != cfg.Rho || proof.B != cfg.B {
		return false, nil
	}
	return fs.Verify(fs.NewOracle(ro), statement, boundSID(cfg, sid), proof, check), nil
}

// ProveFischlin produces a Fischlin proof, retrying with fresh commitments
// up to cfg.Retries times. A nil logger disables logging.
func ProveFischlin[S any](cfg *Config, statement, sid []byte, protocol FischlinProtocol[S], logger *zap.Logger) (*FischlinProof, error) {
	cfg, ro, err := resolve(cfg)
	if err != nil {
		return nil, err
	}
	opts := []fischlin.Opt{fischlin.WithRetries(cfg.Retries)}
	if logger != nil {
		opts = append(opts, fischlin.WithLogger(logger))
	}
	return fischlin.NewProver[S](ro, cfg.FischlinParams(), protocol, opts...).Prove(statement, boundSID(cfg, sid))
}

// VerifyFischlin checks a Fischlin proof against cfg's parameters
func VerifyFischlin(cfg *Config, statement, sid []byte, proof *FischlinProof, check SigmaVerifier) (bool, error) {
	cfg, ro, err := resolve(cfg)
	if err != nil {
		return false, err
	}
	return fischlin.Verify(ro, cfg.FischlinParams(), statement, boundSID(cfg, sid), proof, check), nil
}

package fischlin

import (
	"time"

	"go.uber.org/zap"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/metrics"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// DefaultRetries bounds whole-proof attempts when no option overrides it.
const DefaultRetries = 8

// Protocol is the Sigma protocol a Prover drives. S is the per-repetition
// prover state, typically the commitment randomness.
type Protocol[S any] interface {
	// Commit returns the first message of repetition i with fresh randomness.
	Commit(i int) ([]byte, S, error)
	// Responses returns a generator whose k-th call yields the response to
	// challenge k.
	Responses(i int, st S) func() []byte
}

type proverOptions struct {
	logger  *zap.Logger
	retries int
}

// Opt configures a Prover.
type Opt func(*proverOptions)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(o *proverOptions) {
		o.logger = logger
	}
}

// WithRetries bounds the number of whole-proof attempts.
func WithRetries(n int) Opt {
	return func(o *proverOptions) {
		o.retries = n
	}
}

// Prover produces Fischlin proofs for a Protocol.
type Prover[S any] struct {
	ro     oracle.RandomOracle
	params Params
	proto  Protocol[S]
	opts   proverOptions
}

// NewProver returns a prover for proto.
func NewProver[S any](ro oracle.RandomOracle, params Params, proto Protocol[S], opts ...Opt) *Prover[S] {
	p := &Prover[S]{
		ro:     ro,
		params: params,
		proto:  proto,
		opts: proverOptions{
			logger:  zap.NewNop(),
			retries: DefaultRetries,
		},
	}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

// Prove commits to every repetition, seals, and searches each repetition
// with the response stream. An exhausted search restarts the whole attempt
// with fresh commitments.
func (p *Prover[S]) Prove(statement, sid []byte) (*Proof, error) {
	if err := p.params.CheckSoundness(); err != nil {
		return nil, err
	}
	log := p.opts.logger.With(zap.Stringer("params", p.params))
	start := time.Now()

	o := NewOracle(p.ro, p.params)
	proof, err := SearchWithRetry(o, p.opts.retries, func(o *Oracle) (*Proof, error) {
		return p.attempt(o, statement, sid)
	}, func(attempt int, err error) {
		log.Debug("fischlin attempt exhausted, retrying", zap.Int("attempt", attempt), zap.Error(err))
	})
	if err != nil {
		log.Warn("fischlin prove failed", zap.Error(err))
		return nil, err
	}
	metrics.ReportProveDuration(metrics.TransformFischlin, time.Since(start))
	log.Debug("fischlin proof produced", zap.Duration("elapsed", time.Since(start)))
	return proof, nil
}

func (p *Prover[S]) attempt(o *Oracle, statement, sid []byte) (*Proof, error) {
	rho := int(p.params.Rho)
	o.Begin(statement, sid)

	states := make([]S, rho)
	proof := &Proof{
		M:   make([][]byte, rho),
		E:   make([][]byte, rho),
		Z:   make([][]byte, rho),
		B:   p.params.B,
		Rho: p.params.Rho,
	}
	for i := 0; i < rho; i++ {
		m, st, err := p.proto.Commit(i)
		if err != nil {
			return nil, errs.Wrap(errs.CodeMalformed, "commit failed", err)
		}
		if err := o.PushFirstMessage(m); err != nil {
			return nil, err
		}
		proof.M[i], states[i] = m, st
	}
	if err := o.SealFirstMessages(); err != nil {
		return nil, err
	}
	for i := 0; i < rho; i++ {
		e, z, err := o.SearchRoundStream(uint32(i), p.proto.Responses(i, states[i]))
		if err != nil {
			return nil, err
		}
		proof.E[i], proof.Z[i] = e, z
	}
	return proof, nil
}

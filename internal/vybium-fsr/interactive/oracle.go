package interactive

import (
	"crypto/rand"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/metrics"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// DefaultChallengeBytes is how many random bytes back each challenge: the
// size of a full oracle digest, so reductions written for hashed challenges
// apply unchanged.
const DefaultChallengeBytes = oracle.FullDigestLen

var framesTotal = metrics.NewCounter("frames_total", "interactive", "Challenge frames exchanged", []string{"direction"})

type options struct {
	log            *zap.Logger
	rand           io.Reader
	challengeBytes int
}

func defaultOptions() options {
	return options{log: zap.NewNop(), rand: rand.Reader, challengeBytes: DefaultChallengeBytes}
}

// Opt configures an interactive oracle.
type Opt func(*options)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Opt {
	return func(o *options) {
		o.log = log
	}
}

// WithRand sets the verifier's randomness source.
func WithRand(r io.Reader) Opt {
	return func(o *options) {
		o.rand = r
	}
}

// WithChallengeBytes sets how many bytes the verifier samples per challenge.
func WithChallengeBytes(n int) Opt {
	return func(o *options) {
		o.challengeBytes = n
	}
}

// VerifierOracle samples challenges and sends them to the prover.
type VerifierOracle struct {
	ch    Channel
	opts  options
	draws uint64
}

// NewVerifierOracle returns a verifier-side oracle sending over ch.
func NewVerifierOracle(ch Channel, opts ...Opt) *VerifierOracle {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &VerifierOracle{ch: ch, opts: o}
}

// AbsorbBytes does nothing; the verifier's challenges do not depend on the
// transcript.
func (v *VerifierOracle) AbsorbBytes(label string, data []byte) {
	v.opts.log.Debug("absorb", zap.String("label", label), zap.Int("len", len(data)))
}

// Challenge samples fresh bytes, sends them under label and reduces them
// into dst. Nothing is sent when sampling fails.
func (v *VerifierOracle) Challenge(label string, dst oracle.Challenge) error {
	buf := make([]byte, v.opts.challengeBytes)
	if _, err := io.ReadFull(v.opts.rand, buf); err != nil {
		return fmt.Errorf("sample challenge %q: %w", label, err)
	}
	frame, err := EncodeFrame(Frame{Label: label, Payload: buf})
	if err != nil {
		return err
	}
	if err := v.ch.Send(frame); err != nil {
		return fmt.Errorf("send challenge %q: %w", label, err)
	}
	v.draws++
	framesTotal.WithLabelValues("sent").Inc()
	v.opts.log.Debug("challenge sent", zap.String("label", label), zap.Uint64("draw", v.draws))
	return dst.FromOracleBytes(label, buf)
}

// Draws is the number of challenges sent so far.
func (v *VerifierOracle) Draws() uint64 {
	return v.draws
}

// ProverOracle receives challenges from the verifier.
type ProverOracle struct {
	ch       Channel
	opts     options
	received uint64
}

// NewProverOracle returns a prover-side oracle receiving from ch.
func NewProverOracle(ch Channel, opts ...Opt) *ProverOracle {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &ProverOracle{ch: ch, opts: o}
}

// AbsorbBytes does nothing; messages reach the verifier over the
// application channel.
func (p *ProverOracle) AbsorbBytes(label string, data []byte) {
	p.opts.log.Debug("absorb", zap.String("label", label), zap.Int("len", len(data)))
}

// Challenge blocks for the next frame, requires it to carry label and
// reduces its payload into dst.
func (p *ProverOracle) Challenge(label string, dst oracle.Challenge) error {
	raw, err := p.ch.Recv()
	if err != nil {
		return fmt.Errorf("receive challenge %q: %w", label, err)
	}
	frame, err := DecodeFrame(raw)
	if err != nil {
		return err
	}
	if frame.Label != label {
		p.opts.log.Warn("challenge label mismatch", zap.String("want", label), zap.String("got", frame.Label))
		return errs.Malformedf("expected challenge %q, received %q", label, frame.Label)
	}
	p.received++
	framesTotal.WithLabelValues("received").Inc()
	p.opts.log.Debug("challenge received", zap.String("label", label), zap.Uint64("count", p.received))
	return dst.FromOracleBytes(label, frame.Payload)
}

// Received is the number of challenges accepted so far.
func (p *ProverOracle) Received() uint64 {
	return p.received
}

var (
	_ oracle.Oracle = (*VerifierOracle)(nil)
	_ oracle.Oracle = (*ProverOracle)(nil)
)

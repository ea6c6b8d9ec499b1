package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/fischlin"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/metrics"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// Config represents the configuration for producing and checking proofs
type Config struct {
	// Transform is "fs" or "fischlin"
	Transform string `mapstructure:"transform"`

	// Oracle parameters
	Backend   string `mapstructure:"backend"` // see oracle.Backends
	Domain    string `mapstructure:"domain"`
	SessionID string `mapstructure:"sid"`

	// Repetition parameters
	Rho uint16 `mapstructure:"rho"`
	B   uint8  `mapstructure:"b"`
	T   uint8  `mapstructure:"t"` // 0 derives b+5 (b+6 when rho > 64)

	// Soundness parameters
	KappaC   uint16 `mapstructure:"kappa"`
	NSpecial uint32 `mapstructure:"n-special"`

	// Retries bounds whole-proof attempts of the Fischlin prover
	Retries int `mapstructure:"retries"`

	// Toy group used by the command line
	Modulus   uint64 `mapstructure:"modulus"`
	Generator uint64 `mapstructure:"generator"`
}

// DefaultConfig returns a configuration meeting 128-bit soundness with 16
// repetitions of 8-bit challenges
func DefaultConfig() *Config {
	return &Config{
		Transform: metrics.TransformFischlin,
		Backend:   oracle.DefaultBackend,
		Domain:    "vybium-fsr",
		Rho:       16,
		B:         8,
		KappaC:    fischlin.DefaultKappaC,
		NSpecial:  fischlin.DefaultNSpecial,
		Retries:   fischlin.DefaultRetries,
		Modulus:   1<<31 - 1,
		Generator: 5,
	}
}

// Validate checks the configuration and reports every problem found
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Transform != metrics.TransformFS && c.Transform != metrics.TransformFischlin {
		result = multierror.Append(result, fmt.Errorf("transform must be 'fs' or 'fischlin', got '%s'", c.Transform))
	}

	if _, err := oracle.NewRandomOracle(c.Backend); err != nil {
		result = multierror.Append(result, err)
	}

	if c.Rho == 0 {
		result = multierror.Append(result, fmt.Errorf("rho must be positive"))
	}

	if c.B == 0 || c.B > oracle.MaxTruncBits {
		result = multierror.Append(result, fmt.Errorf("b must be in 1..%d, got %d", oracle.MaxTruncBits, c.B))
	}

	if c.Retries <= 0 {
		result = multierror.Append(result, fmt.Errorf("retries must be positive"))
	}

	if c.Modulus < 3 || c.Modulus >= 1<<32 {
		result = multierror.Append(result, fmt.Errorf("modulus must be in [3, 2^32), got %d", c.Modulus))
	}

	if c.Transform == metrics.TransformFischlin && c.Rho != 0 && c.B != 0 && c.B <= oracle.MaxTruncBits {
		if err := c.FischlinParams().CheckSoundness(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// FischlinParams derives the Fischlin parameters
func (c *Config) FischlinParams() fischlin.Params {
	p := fischlin.NewParams(c.Rho, c.B).WithKappa(c.KappaC).WithNSpecial(c.NSpecial)
	if c.T != 0 {
		p = p.WithT(c.T)
	}
	return p
}

// RandomOracle resolves the configured backend
func (c *Config) RandomOracle() (oracle.RandomOracle, error) {
	return oracle.NewRandomOracle(c.Backend)
}

// WithTransform sets the transform
func (c *Config) WithTransform(transform string) *Config {
	c.Transform = transform
	return c
}

// WithBackend sets the oracle backend
func (c *Config) WithBackend(backend string) *Config {
	c.Backend = backend
	return c
}

// WithDomain sets the domain separator
func (c *Config) WithDomain(domain string) *Config {
	c.Domain = domain
	return c
}

// WithSessionID sets the session identifier
func (c *Config) WithSessionID(sid string) *Config {
	c.SessionID = sid
	return c
}

// WithRepetitions sets rho and b
func (c *Config) WithRepetitions(rho uint16, b uint8) *Config {
	c.Rho = rho
	c.B = b
	return c
}

// WithSearchWidth sets t
func (c *Config) WithSearchWidth(t uint8) *Config {
	c.T = t
	return c
}

// WithSoundness sets the soundness target and branching factor
func (c *Config) WithSoundness(kappa uint16, nSpecial uint32) *Config {
	c.KappaC = kappa
	c.NSpecial = nSpecial
	return c
}

// WithRetries sets the attempt bound
func (c *Config) WithRetries(n int) *Config {
	c.Retries = n
	return c
}

// WithGroup sets the toy group
func (c *Config) WithGroup(modulus, generator uint64) *Config {
	c.Modulus = modulus
	c.Generator = generator
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

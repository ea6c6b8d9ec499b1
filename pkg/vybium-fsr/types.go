package vybiumfsr

import (
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/config"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/fischlin"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/fs"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/record"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/transcript"
)

// Config selects the transform, the oracle backend and the parameters
type Config = config.Config

// RandomOracle is a label-separated hash backend
type RandomOracle = oracle.RandomOracle

// Oracle absorbs labeled bytes and derives typed challenges
type Oracle = oracle.Oracle

// Challenge is a value an Oracle can derive
type Challenge = oracle.Challenge

// HashOracle is the one-shot Fiat-Shamir oracle
type HashOracle = oracle.HashOracle

// FSProof is a Fiat-Shamir proof
type FSProof = fs.Proof

// FischlinProof is a Fischlin proof
type FischlinProof = fischlin.Proof

// FischlinParams are the Fischlin repetition and soundness parameters
type FischlinParams = fischlin.Params

// FischlinProtocol is a Sigma protocol the Fischlin prover can drive
type FischlinProtocol[S any] interface {
	fischlin.Protocol[S]
}

// SigmaVerifier checks one repetition (m, e, z) of a Sigma protocol
type SigmaVerifier = func(i int, m, e, z []byte) bool

// Committer produces the first message of repetition i
type Committer = fs.Committer

// Responder answers challenge e in repetition i
type Responder = fs.Responder

// Transcript is an oracle wrapper that refuses challenges while message
// obligations are pending
type Transcript = transcript.Transcript

// Mask is a set of pending obligations
type Mask = transcript.Mask

// Event is one recorded oracle call
type Event = record.Event

// RecordingOracle records every oracle call it forwards
type RecordingOracle = record.Oracle

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// Backends lists the oracle backend names
func Backends() []string {
	return oracle.Backends()
}

// NewRandomOracle returns the backend registered under name
func NewRandomOracle(name string) (RandomOracle, error) {
	return oracle.NewRandomOracle(name)
}

// NewHashOracle returns a one-shot oracle over domain
func NewHashOracle(domain []byte, ro RandomOracle) *HashOracle {
	return oracle.NewHashOracle(domain, ro)
}

// NewTranscript wraps o with pending obligations
func NewTranscript(o Oracle, pending Mask) *Transcript {
	return transcript.New(o, pending)
}

// NewRecordingOracle wraps inner and records its calls
func NewRecordingOracle(inner Oracle) *RecordingOracle {
	return record.New(inner)
}

// NewFischlinParams derives Fischlin parameters for rho repetitions of b bits
func NewFischlinParams(rho uint16, b uint8) FischlinParams {
	return fischlin.NewParams(rho, b)
}

// DecodeFSProof parses an encoded FS proof
func DecodeFSProof(b []byte) (*FSProof, bool) {
	return fs.DecodeProof(b)
}

// DecodeFischlinProof parses an encoded Fischlin proof
func DecodeFischlinProof(b []byte) (*FischlinProof, bool) {
	return fischlin.DecodeProof(b)
}

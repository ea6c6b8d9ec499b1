// Package vybiumfsr turns interactive Sigma protocols into non-interactive
// proofs.
//
// Two transforms are provided:
//
// - Fiat-Shamir (FS): every repetition's challenge is a hash of the
// statement, the session id and the transcript so far.
// - Fischlin: the prover searches, per repetition, for a challenge whose
// b-bit hash together with its response is zero. The search keeps the
// proof straight-line extractable, so knowledge can be extracted without
// rewinding the prover.
//
// # Quick Start
//
// Producing and checking an FS proof for a protocol supplied as callbacks:
//
//	cfg := vybiumfsr.DefaultConfig().WithTransform("fs")
//	proof, err := vybiumfsr.ProveFS(cfg, statement, sid, commit, respond)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ok, err := vybiumfsr.VerifyFS(cfg, statement, sid, proof, check)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Fischlin proofs need a protocol that can stream responses for successive
// challenges:
//
//	cfg := vybiumfsr.DefaultConfig()
//	proof, err := vybiumfsr.ProveFischlin(cfg, statement, sid, protocol, logger)
//
// # Oracles
//
// The random oracle is pluggable. Backends are selected by name: sha3 (the
// default, cSHAKE256), sha256, blake2b, blake3, merlin (a STROBE transcript)
// and tip5 (an algebraic hash over the Goldilocks field). Prover and verifier
// must agree on the backend.
//
// The configured domain is bound into every session id, so prover and
// verifier must also agree on it.
//
// # Architecture
//
// - pkg/vybium-fsr/: Public API (this package)
// - internal/vybium-fsr/: Private implementation (not importable)
//
// Transcripts with message obligations, recorded oracle timelines, the
// declarative proof interpreter and the interactive runtime live in
// internal/ and are reachable through the aliases in types.go.
//
// # References
//
// - Fiat, Shamir: How To Prove Yourself, CRYPTO 1986
// - Fischlin: Communication-Efficient Non-Interactive Proofs of Knowledge with Online Extractors, CRYPTO 2005
package vybiumfsr

// Command vybium-fsr produces and checks Fiat-Shamir and Fischlin proofs for
// Schnorr's protocol over a toy group.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// Package config holds the settings shared by the command line and the
// public facade: transform, oracle backend, repetition and soundness
// parameters.
package config

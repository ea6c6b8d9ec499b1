// Package interactive runs the same protocol code against a live verifier.
//
// VerifierOracle samples each challenge from its randomness source and ships
// it to the prover in a frame; ProverOracle blocks for that frame instead of
// hashing. Both satisfy oracle.Oracle, so a Transcript or a protocol written
// against the oracle interface runs unchanged in interactive mode. Absorbing
// is a no-op on both sides: protocol messages travel over the application's
// own channel.
package interactive

import (
	"errors"
	"sync"
)

// ErrClosed is returned by a Channel after either end was closed.
var ErrClosed = errors.New("interactive: channel closed")

// Channel is a bidirectional message transport. Messages are delivered in
// order and whole.
type Channel interface {
	Send(msg []byte) error
	Recv() ([]byte, error)
}

// memBuffer bounds the number of in-flight messages per direction.
const memBuffer = 64

// MemDuplex is one end of an in-process channel pair.
type MemDuplex struct {
	tx   chan<- []byte
	rx   <-chan []byte
	done chan struct{}
	once *sync.Once
}

// MemDuplexPair returns two connected ends. Closing either end closes both.
func MemDuplexPair() (prover, verifier *MemDuplex) {
	toVerifier := make(chan []byte, memBuffer)
	toProver := make(chan []byte, memBuffer)
	done := make(chan struct{})
	once := new(sync.Once)
	prover = &MemDuplex{tx: toVerifier, rx: toProver, done: done, once: once}
	verifier = &MemDuplex{tx: toProver, rx: toVerifier, done: done, once: once}
	return prover, verifier
}

// Send queues a copy of msg, blocking while the peer's buffer is full.
func (d *MemDuplex) Send(msg []byte) error {
	select {
	case <-d.done:
		return ErrClosed
	default:
	}
	cp := append([]byte(nil), msg...)
	select {
	case d.tx <- cp:
		return nil
	case <-d.done:
		return ErrClosed
	}
}

// Recv blocks for the next message. Messages queued before Close are still
// delivered.
func (d *MemDuplex) Recv() ([]byte, error) {
	select {
	case msg := <-d.rx:
		return msg, nil
	default:
	}
	select {
	case msg := <-d.rx:
		return msg, nil
	case <-d.done:
		select {
		case msg := <-d.rx:
			return msg, nil
		default:
			return nil, ErrClosed
		}
	}
}

// Close shuts both ends. It is safe to call more than once.
func (d *MemDuplex) Close() error {
	d.once.Do(func() { close(d.done) })
	return nil
}

var _ Channel = (*MemDuplex)(nil)

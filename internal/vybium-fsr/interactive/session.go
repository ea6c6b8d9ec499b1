package interactive

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Party is one side of a session.
type Party func(ctx context.Context, ch Channel) error

// Session runs prover and verifier concurrently over a fresh in-memory pair.
// The pair is closed as soon as either side returns or ctx is done, which
// unblocks the other side. Queued messages stay readable after the close.
// The first error wins.
func Session(ctx context.Context, prover, verifier Party) error {
	p, v := MemDuplexPair()
	defer p.Close()

	eg, ctx := errgroup.WithContext(ctx)
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			p.Close()
		case <-stop:
		}
	}()
	eg.Go(func() error { return finish(prover(ctx, p), p) })
	eg.Go(func() error { return finish(verifier(ctx, v), v) })
	err := eg.Wait()
	close(stop)
	return err
}

// finish closes the pair after a party returned cleanly. A failing party
// leaves the close to the context watcher so its error is recorded first.
func finish(err error, end *MemDuplex) error {
	if err == nil {
		end.Close()
	}
	return err
}

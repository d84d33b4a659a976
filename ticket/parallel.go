package ticket

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// lockedReader serialises reads from a source that may not be safe for
// concurrent use.
type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return io.ReadFull(l.r, p)
}

// searchParallel runs g.workers scoring loops, each staging candidates into
// its own copy of the context, and funnels every scored candidate into one
// collector that owns the accumulator. The collector stops the workers as
// soon as the price is reached.
func (g *Generator) searchParallel(ctx context.Context) (*search, error) {
	s := &search{acc: NewAccumulator()}
	if s.acc.Reached(g.price) {
		return s, nil
	}

	src := g.rand
	if src != rand.Reader {
		src = &lockedReader{r: src}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, ectx := errgroup.WithContext(ctx)

	var attempts, zeros atomic.Uint64
	found := make(chan Candidate, g.workers*4)
	for i := 0; i < g.workers; i++ {
		eg.Go(func() error {
			sc := newScorer(g.mixin, g.digest)
			var secret common.Hash
			for ectx.Err() == nil {
				n := attempts.Add(1)
				if g.maxAttempts > 0 && n > g.maxAttempts {
					attempts.Add(^uint64(0))
					return fmt.Errorf("%w after %d attempts", ErrAttemptsExhausted, g.maxAttempts)
				}
				if _, err := io.ReadFull(src, secret[:]); err != nil {
					return fmt.Errorf("%w: %v", ErrRandomness, err)
				}
				s.progress(n)
				cand, ok := sc.candidate(secret)
				if !ok {
					zeros.Add(1)
					continue
				}
				select {
				case found <- cand:
				case <-ectx.Done():
				}
			}
			return nil
		})
	}

	errc := make(chan error, 1)
	go func() {
		errc <- eg.Wait()
		close(found)
	}()

	done := false
	for cand := range found {
		if done {
			continue
		}
		s.acc.Offer(cand)
		if s.acc.Reached(g.price) {
			done = true
			cancel()
		}
	}
	err := <-errc
	s.attempts, s.zeros = attempts.Load(), zeros.Load()

	switch {
	case done:
		return s, nil
	case err != nil:
		return s, err
	default:
		return s, fmt.Errorf("ticket: generation aborted after %d attempts: %w", s.attempts, ctx.Err())
	}
}

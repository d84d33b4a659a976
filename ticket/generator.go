package ticket

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/eth2030/netpay/log"
	"github.com/eth2030/netpay/metrics"
)

// Generator searches for secrets whose combined value reaches a price under
// a fixed context.
type Generator struct {
	mixin       Mixin
	price       *uint256.Int
	rand        io.Reader
	maxAttempts uint64
	workers     int
	digest      digestFunc
	log         *log.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand replaces crypto/rand as the secret source. Sources used with
// more than one worker are serialised internally.
func WithRand(r io.Reader) Option {
	return func(g *Generator) { g.rand = r }
}

// WithMaxAttempts bounds the number of secrets drawn. Zero means no bound.
func WithMaxAttempts(n uint64) Option {
	return func(g *Generator) { g.maxAttempts = n }
}

// WithWorkers sets the number of concurrent search workers. Values below
// one are treated as one.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n < 1 {
			n = 1
		}
		g.workers = n
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// withDigest overrides the divisor hash. Tests use it to force zero
// divisors.
func withDigest(d digestFunc) Option {
	return func(g *Generator) { g.digest = d }
}

// NewGenerator creates a generator for the given context and price.
func NewGenerator(m Mixin, price *uint256.Int, opts ...Option) *Generator {
	g := &Generator{
		mixin:   m,
		price:   new(uint256.Int),
		rand:    rand.Reader,
		workers: 1,
		log:     log.Default().Module("generator"),
	}
	if price != nil {
		g.price.Set(price)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// New creates a generator from raw 32-byte words: chain id, contract,
// receiver and price, all big-endian.
func New(chain, contract, receiver, price []byte, opts ...Option) (*Generator, error) {
	for _, w := range []struct {
		name string
		b    []byte
	}{{"chain", chain}, {"contract", contract}, {"receiver", receiver}, {"price", price}} {
		if len(w.b) != WordLength {
			return nil, fmt.Errorf("%w: %s is %d bytes", ErrInvalidWidth, w.name, len(w.b))
		}
	}
	m := NewMixin(common.BytesToHash(chain), common.BytesToHash(contract), common.BytesToHash(receiver))
	return NewGenerator(m, new(uint256.Int).SetBytes32(price), opts...), nil
}

// Mixin returns the generator's context with an empty proof segment.
func (g *Generator) Mixin() Mixin { return g.mixin }

// Price returns a copy of the target total.
func (g *Generator) Price() *uint256.Int { return new(uint256.Int).Set(g.price) }

// VerifySecrets scores revealed secrets against the generator's context.
func (g *Generator) VerifySecrets(data []byte) (*uint256.Int, error) {
	return NewVerifier(g.mixin, withVerifierDigest(g.digest)).VerifySecrets(data)
}

// VerifyProofs scores revealed proofs against the generator's context.
func (g *Generator) VerifyProofs(data []byte) (*uint256.Int, error) {
	return NewVerifier(g.mixin, withVerifierDigest(g.digest)).VerifyProofs(data)
}

// Generate draws random secrets until the retained candidates are worth at
// least the price. ctx is checked once per attempt. Generation either
// returns a complete result or an error, never a partial set.
func (g *Generator) Generate(ctx context.Context) (*Generated, error) {
	start := time.Now()
	g.log.Debug("Generating secrets", "price", g.price.Dec(), "workers", g.workers,
		"maxattempts", g.maxAttempts)

	var (
		res *search
		err error
	)
	if g.workers > 1 {
		res, err = g.searchParallel(ctx)
	} else {
		res, err = g.searchSerial(ctx)
	}
	elapsed := metrics.Since(metrics.GenerateDuration, start)
	if res != nil {
		res.record()
	}
	if err != nil {
		g.log.Warn("Generation failed", "err", err, "elapsed", common.PrettyDuration(elapsed))
		return nil, err
	}

	total := res.acc.Total()
	out := &Generated{
		Candidates:   res.acc.Drain(),
		Total:        total,
		Attempts:     res.attempts,
		ZeroDivisors: res.zeros,
		Elapsed:      elapsed,
	}
	metrics.GenerateSecrets.Update(int64(len(out.Candidates)))
	g.log.Info("Generated secrets", "count", len(out.Candidates), "total", out.Total.Dec(),
		"attempts", out.Attempts, "elapsed", common.PrettyDuration(elapsed))
	return out, nil
}

// progressBatch is how many attempts are published to the live attempt
// metrics at a time while a search runs.
const progressBatch = 1 << 12

// search is the state of one generation run.
type search struct {
	acc      *Accumulator
	attempts uint64
	zeros    uint64
	reported atomic.Uint64
}

// progress publishes a batch of attempts once the n-th attempt completes a
// batch.
func (s *search) progress(n uint64) {
	if n%progressBatch != 0 {
		return
	}
	s.reported.Add(progressBatch)
	metrics.GenerateAttempts.Inc(progressBatch)
	metrics.GenerateHashrate.Mark(progressBatch)
}

// record publishes the run's counters, including attempts not yet covered
// by progress.
func (s *search) record() {
	st := s.acc.Stats()
	rest := int64(s.attempts - s.reported.Load())
	metrics.GenerateAttempts.Inc(rest)
	metrics.GenerateHashrate.Mark(rest)
	metrics.GenerateZeroDivisors.Inc(int64(s.zeros))
	metrics.GenerateAccepted.Inc(int64(st.Accepted))
	metrics.GenerateRejected.Inc(int64(st.Rejected))
	metrics.GenerateEvicted.Inc(int64(st.Evicted))
}

func (g *Generator) searchSerial(ctx context.Context) (*search, error) {
	s := &search{acc: NewAccumulator()}
	sc := newScorer(g.mixin, g.digest)
	trace := g.log.Enabled(log.LevelTrace)

	var secret common.Hash
	for !s.acc.Reached(g.price) {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("ticket: generation aborted after %d attempts: %w", s.attempts, err)
		}
		if g.maxAttempts > 0 && s.attempts >= g.maxAttempts {
			return s, fmt.Errorf("%w after %d attempts", ErrAttemptsExhausted, s.attempts)
		}
		if _, err := io.ReadFull(g.rand, secret[:]); err != nil {
			return s, fmt.Errorf("%w: %v", ErrRandomness, err)
		}
		s.attempts++
		s.progress(s.attempts)

		cand, ok := sc.candidate(secret)
		if !ok {
			s.zeros++
			continue
		}
		if s.acc.Offer(cand) && trace {
			g.log.Trace("Retained candidate", "proof", cand.Proof, "value", cand.Value.Dec(),
				"total", s.acc.total.Dec())
		}
	}
	return s, nil
}

package ticket

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/eth2030/netpay/crypto"
)

// requireConsistent checks the properties every generation result has.
func requireConsistent(t *testing.T, g *Generator, res *Generated) {
	t.Helper()
	require.False(t, res.Total.Lt(g.Price()), "total %s below price %s", res.Total.Dec(), g.Price().Dec())
	require.LessOrEqual(t, len(res.Candidates), MaxSecrets)
	require.True(t, sumValues(res.Candidates).Eq(res.Total))

	for i := 1; i < len(res.Candidates); i++ {
		require.True(t, res.Candidates[i-1].Less(&res.Candidates[i]), "not ascending at %d", i)
	}
	for _, c := range res.Candidates {
		require.Equal(t, ProofOf(c.Secret), c.Proof)
		_, value, ok := ScoreProof(g.Mixin(), c.Proof)
		require.True(t, ok)
		require.True(t, value.Eq(c.Value))
	}
}

func TestGenerateZeroPrice(t *testing.T) {
	for _, workers := range []int{1, 4} {
		g := quietGenerator(mainnetMixin(), new(uint256.Int), WithWorkers(workers), WithRand(failingReader{}))
		res, err := g.Generate(context.Background())
		require.NoError(t, err)
		require.Empty(t, res.Candidates)
		require.True(t, res.Total.IsZero())
		require.Zero(t, res.Attempts)
	}
}

func TestGeneratePriceOneZeroContext(t *testing.T) {
	g := quietGenerator(Mixin{}, uint256.NewInt(1))
	res, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	require.Equal(t, uint64(1), res.Attempts)
	requireConsistent(t, g, res)
}

func TestGenerateKnownSequence(t *testing.T) {
	g := quietGenerator(mainnetMixin(), uint256.NewInt(1500), WithRand(&counterReader{}))
	res, err := g.Generate(context.Background())
	require.NoError(t, err)
	requireConsistent(t, g, res)

	require.Equal(t, uint64(174), res.Attempts)
	require.Equal(t, uint64(1880), res.Total.Uint64())

	want := []struct{ value, secret uint64 }{
		{17, 45}, {17, 124}, {18, 12}, {25, 164}, {29, 161},
		{33, 90}, {119, 36}, {147, 110}, {495, 138}, {980, 174},
	}
	require.Len(t, res.Candidates, len(want))
	for i, w := range want {
		require.Equal(t, w.value, res.Candidates[i].Value.Uint64(), "value %d", i)
		require.Equal(t, word(w.secret), res.Candidates[i].Secret, "secret %d", i)
	}
}

func TestGeneratePriceOneKnownSequence(t *testing.T) {
	g := quietGenerator(mainnetMixin(), uint256.NewInt(1), WithRand(&counterReader{}))
	res, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	require.Equal(t, word(1), res.Candidates[0].Secret)
	require.Equal(t, uint64(2), res.Total.Uint64())
}

func TestGenerateRandom(t *testing.T) {
	g := quietGenerator(mainnetMixin(), uint256.NewInt(2000))
	res, err := g.Generate(context.Background())
	require.NoError(t, err)
	requireConsistent(t, g, res)
	require.GreaterOrEqual(t, res.Attempts, uint64(len(res.Candidates)))
}

func TestGenerateParallel(t *testing.T) {
	g := quietGenerator(mainnetMixin(), uint256.NewInt(5000), WithWorkers(4))
	res, err := g.Generate(context.Background())
	require.NoError(t, err)
	requireConsistent(t, g, res)
}

func TestGenerateParallelInjectedSource(t *testing.T) {
	g := quietGenerator(mainnetMixin(), uint256.NewInt(1500), WithWorkers(3), WithRand(&counterReader{}))
	res, err := g.Generate(context.Background())
	require.NoError(t, err)
	requireConsistent(t, g, res)
}

func TestGenerateVerifyAgreement(t *testing.T) {
	for _, workers := range []int{1, 2} {
		g := quietGenerator(mainnetMixin(), uint256.NewInt(3000), WithWorkers(workers))
		res, err := g.Generate(context.Background())
		require.NoError(t, err)

		total, err := g.VerifySecrets(res.EncodeSecrets())
		require.NoError(t, err)
		require.True(t, total.Eq(res.Total), "secrets: %s != %s", total.Dec(), res.Total.Dec())

		total, err = g.VerifyProofs(res.EncodeProofs())
		require.NoError(t, err)
		require.True(t, total.Eq(res.Total), "proofs: %s != %s", total.Dec(), res.Total.Dec())
	}
}

func TestGenerateReplayBinding(t *testing.T) {
	g := quietGenerator(mainnetMixin(), uint256.NewInt(3000))
	res, err := g.Generate(context.Background())
	require.NoError(t, err)

	base := mainnetMixin()
	others := []Mixin{
		NewMixin(ChainWord(uint256.NewInt(5)), base.Contract(), base.Receiver()),
		NewMixin(base.Chain(), AddressWord(common.HexToAddress("0x01")), base.Receiver()),
		NewMixin(base.Chain(), base.Contract(), AddressWord(common.HexToAddress("0x02"))),
	}
	for i, m := range others {
		total, err := NewVerifier(m).VerifySecrets(res.EncodeSecrets())
		require.NoError(t, err)
		require.False(t, total.Eq(res.Total), "context %d reproduced the total", i)
	}
}

func TestGenerateMaxAttempts(t *testing.T) {
	allOnes := new(uint256.Int).SetAllOne()
	for _, workers := range []int{1, 4} {
		g := quietGenerator(mainnetMixin(), allOnes, WithMaxAttempts(25), WithWorkers(workers))
		res, err := g.Generate(context.Background())
		require.ErrorIs(t, err, ErrAttemptsExhausted, "workers=%d", workers)
		require.Nil(t, res)
	}
}

func TestGenerateCancelled(t *testing.T) {
	allOnes := new(uint256.Int).SetAllOne()
	for _, workers := range []int{1, 4} {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		g := quietGenerator(mainnetMixin(), allOnes, WithWorkers(workers))
		res, err := g.Generate(ctx)
		require.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
		require.Nil(t, res)
	}
}

func TestGenerateDeadline(t *testing.T) {
	allOnes := new(uint256.Int).SetAllOne()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	g := quietGenerator(mainnetMixin(), allOnes, WithWorkers(2))
	_, err := g.Generate(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerateRandomnessFailure(t *testing.T) {
	for _, workers := range []int{1, 2} {
		g := quietGenerator(mainnetMixin(), uint256.NewInt(10), WithRand(failingReader{}), WithWorkers(workers))
		_, err := g.Generate(context.Background())
		require.ErrorIs(t, err, ErrRandomness)
	}
}

func TestGenerateResamplesZeroDivisor(t *testing.T) {
	calls := 0
	digest := func(b []byte) common.Hash {
		calls++
		if calls <= 3 {
			return common.Hash{}
		}
		return crypto.Keccak256Hash(b)
	}
	g := quietGenerator(mainnetMixin(), uint256.NewInt(1), WithRand(&counterReader{}), withDigest(digest))
	res, err := g.Generate(context.Background())
	require.NoError(t, err)

	require.Equal(t, uint64(4), res.Attempts)
	require.Equal(t, uint64(3), res.ZeroDivisors)
	require.Len(t, res.Candidates, 1)
	require.Equal(t, word(4), res.Candidates[0].Secret)
	require.Equal(t, uint64(6), res.Total.Uint64())
}

func TestNewFromWords(t *testing.T) {
	chain := ChainWord(uint256.NewInt(1))
	contract := AddressWord(testContract)
	receiver := AddressWord(testReceiver)
	price := uint256.NewInt(1500).Bytes32()

	g, err := New(chain[:], contract[:], receiver[:], price[:], WithRand(&counterReader{}))
	require.NoError(t, err)
	require.Equal(t, mainnetMixin(), g.Mixin())
	require.Equal(t, uint64(1500), g.Price().Uint64())

	_, err = New(chain[:], contract[:20], receiver[:], price[:])
	require.ErrorIs(t, err, ErrInvalidWidth)
}

func TestGeneratedEncoding(t *testing.T) {
	g := quietGenerator(mainnetMixin(), uint256.NewInt(1500), WithRand(&counterReader{}))
	res, err := g.Generate(context.Background())
	require.NoError(t, err)

	secrets, err := SplitChunks(res.EncodeSecrets())
	require.NoError(t, err)
	require.Equal(t, res.Secrets(), secrets)

	proofs, err := SplitChunks(res.EncodeProofs())
	require.NoError(t, err)
	require.Equal(t, res.Proofs(), proofs)

	enc := res.EncodeTotal()
	require.Len(t, enc, WordLength)
	total, err := DecodeWord(enc)
	require.NoError(t, err)
	require.True(t, total.Eq(res.Total))

	require.True(t, bytes.HasPrefix(enc, make([]byte, 30)), "total not fixed width: %x", enc)
}

func TestSplitChunks(t *testing.T) {
	words, err := SplitChunks(nil)
	require.NoError(t, err)
	require.Empty(t, words)

	_, err = SplitChunks(make([]byte, 33))
	require.True(t, errors.Is(err, ErrInvalidLength))

	_, err = DecodeWord(make([]byte, 31))
	require.ErrorIs(t, err, ErrInvalidWidth)
}

func TestSearchProgressBatches(t *testing.T) {
	s := &search{acc: NewAccumulator()}
	for n := uint64(1); n <= 2*progressBatch+5; n++ {
		s.attempts = n
		s.progress(n)
	}
	require.Equal(t, uint64(2*progressBatch), s.reported.Load())
	s.record()
	require.Equal(t, uint64(2*progressBatch+5), s.attempts)
}

package ticket

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/eth2030/netpay/log"
	"github.com/eth2030/netpay/metrics"
)

// Verifier recomputes the worth of revealed secrets or proofs. Unlike
// generation there is no retention limit: every supplied entry counts.
type Verifier struct {
	mixin  Mixin
	strict bool
	digest digestFunc
	log    *log.Logger
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithStrict makes an entry with a zero divisor fail the whole verification
// with ErrZeroDivisor. By default such an entry contributes zero.
func WithStrict() VerifierOption {
	return func(v *Verifier) { v.strict = true }
}

// WithVerifierLogger sets the verifier's logger.
func WithVerifierLogger(l *log.Logger) VerifierOption {
	return func(v *Verifier) {
		if l != nil {
			v.log = l
		}
	}
}

func withVerifierDigest(d digestFunc) VerifierOption {
	return func(v *Verifier) { v.digest = d }
}

// NewVerifier creates a verifier for the given context.
func NewVerifier(m Mixin, opts ...VerifierOption) *Verifier {
	v := &Verifier{mixin: m, log: log.Default().Module("verifier")}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifySecrets hashes each 32-byte secret in data into its proof, scores
// it and returns the wrapping sum of the values.
func (v *Verifier) VerifySecrets(data []byte) (*uint256.Int, error) {
	return v.verify(data, true)
}

// VerifyProofs scores each 32-byte proof in data as given and returns the
// wrapping sum of the values. It is used when only proofs were revealed.
func (v *Verifier) VerifyProofs(data []byte) (*uint256.Int, error) {
	return v.verify(data, false)
}

// ScoreSecret returns the value of a single secret.
func (v *Verifier) ScoreSecret(secret common.Hash) (*uint256.Int, error) {
	return v.verify(secret[:], true)
}

// ScoreProof returns the value of a single proof.
func (v *Verifier) ScoreProof(proof common.Hash) (*uint256.Int, error) {
	return v.verify(proof[:], false)
}

func (v *Verifier) verify(data []byte, secrets bool) (*uint256.Int, error) {
	if len(data) == 0 {
		metrics.VerifyFailures.Inc(1)
		return nil, ErrEmptyInput
	}
	if len(data)%WordLength != 0 {
		metrics.VerifyFailures.Inc(1)
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidLength, len(data))
	}

	sc := newScorer(v.mixin, v.digest)
	total := new(uint256.Int)
	entries := len(data) / WordLength
	var zeros int
	for i := 0; i < entries; i++ {
		word := common.BytesToHash(data[i*WordLength : (i+1)*WordLength])
		proof := word
		if secrets {
			proof = sc.proof(word)
		}
		value, ok := sc.scoreProof(proof)
		if !ok {
			zeros++
			if v.strict {
				metrics.VerifyEntries.Inc(int64(i + 1))
				metrics.VerifyZeroDivisors.Inc(1)
				metrics.VerifyFailures.Inc(1)
				return nil, fmt.Errorf("%w at entry %d", ErrZeroDivisor, i)
			}
			v.log.Warn("Zero divisor, entry counts as zero", "index", i, "proof", proof)
			continue
		}
		total.Add(total, value)
	}
	metrics.VerifyEntries.Inc(int64(entries))
	metrics.VerifyZeroDivisors.Inc(int64(zeros))
	v.log.Debug("Verified entries", "count", entries, "secrets", secrets, "total", total.Dec())
	return total, nil
}

package ticket

import (
	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/eth2030/netpay/crypto"
)

// maxValue is 2^256-1, the numerator of every score.
var maxValue = new(uint256.Int).SetAllOne()

// ProofOf returns the proof committed to by secret.
func ProofOf(secret common.Hash) common.Hash {
	return crypto.Keccak256Hash(secret[:])
}

// Score hashes the context into a divisor and returns floor((2^256-1) /
// divisor). ok is false when the divisor is zero; value is then zero and
// must not be used.
func Score(m Mixin) (divisor, value *uint256.Int, ok bool) {
	return scoreDigest(crypto.Keccak256Hash(m[:]))
}

// ScoreProof scores m with proof installed, without modifying m.
func ScoreProof(m Mixin, proof common.Hash) (divisor, value *uint256.Int, ok bool) {
	return Score(m.WithProof(proof))
}

func scoreDigest(digest common.Hash) (divisor, value *uint256.Int, ok bool) {
	divisor = new(uint256.Int).SetBytes32(digest[:])
	if divisor.IsZero() {
		return divisor, new(uint256.Int), false
	}
	return divisor, new(uint256.Int).Div(maxValue, divisor), true
}

// digestFunc hashes a staged context into its divisor digest.
type digestFunc func(mixin []byte) common.Hash

// scorer stages candidates into a private copy of the context and reuses a
// single keccak sponge across them. It is not safe for concurrent use; each
// search worker owns one.
type scorer struct {
	mixin  Mixin
	kh     gethcrypto.KeccakState
	digest digestFunc
}

func newScorer(m Mixin, digest digestFunc) *scorer {
	s := &scorer{mixin: m, kh: gethcrypto.NewKeccakState()}
	s.digest = digest
	if s.digest == nil {
		s.digest = func(b []byte) common.Hash { return gethcrypto.HashData(s.kh, b) }
	}
	return s
}

// proof hashes a secret with the scorer's sponge.
func (s *scorer) proof(secret common.Hash) common.Hash {
	return gethcrypto.HashData(s.kh, secret[:])
}

// scoreProof installs proof and scores the staged context.
func (s *scorer) scoreProof(proof common.Hash) (*uint256.Int, bool) {
	s.mixin.SetProof(proof)
	_, value, ok := scoreDigest(s.digest(s.mixin[:]))
	return value, ok
}

// candidate derives the proof and value of secret.
func (s *scorer) candidate(secret common.Hash) (Candidate, bool) {
	proof := s.proof(secret)
	value, ok := s.scoreProof(proof)
	if !ok {
		return Candidate{}, false
	}
	return Candidate{Secret: secret, Proof: proof, Value: value}, true
}

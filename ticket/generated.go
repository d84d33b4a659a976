package ticket

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Generated is the outcome of a successful generation: the retained
// candidates in ascending order and the total they are worth.
type Generated struct {
	Candidates []Candidate
	Total      *uint256.Int

	Attempts     uint64        // secrets drawn
	ZeroDivisors uint64        // secrets resampled for a zero divisor
	Elapsed      time.Duration // wall time of the search
}

// Secrets returns the retained secrets in ascending value order.
func (g *Generated) Secrets() []common.Hash {
	out := make([]common.Hash, len(g.Candidates))
	for i, c := range g.Candidates {
		out[i] = c.Secret
	}
	return out
}

// Proofs returns the retained proofs in ascending value order.
func (g *Generated) Proofs() []common.Hash {
	out := make([]common.Hash, len(g.Candidates))
	for i, c := range g.Candidates {
		out[i] = c.Proof
	}
	return out
}

// EncodeSecrets concatenates the retained secrets, 32 bytes each.
func (g *Generated) EncodeSecrets() []byte {
	return joinWords(g.Secrets())
}

// EncodeProofs concatenates the retained proofs, 32 bytes each.
func (g *Generated) EncodeProofs() []byte {
	return joinWords(g.Proofs())
}

// EncodeTotal returns the total as a 32-byte big-endian word.
func (g *Generated) EncodeTotal() []byte {
	b := g.Total.Bytes32()
	return b[:]
}

func joinWords(words []common.Hash) []byte {
	out := make([]byte, 0, len(words)*WordLength)
	for _, w := range words {
		out = append(out, w[:]...)
	}
	return out
}

// SplitChunks splits data into 32-byte words. Empty input yields no words.
func SplitChunks(data []byte) ([]common.Hash, error) {
	if len(data)%WordLength != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidLength, len(data))
	}
	words := make([]common.Hash, 0, len(data)/WordLength)
	for i := 0; i < len(data); i += WordLength {
		words = append(words, common.BytesToHash(data[i:i+WordLength]))
	}
	return words, nil
}

// DecodeWord reads a fixed-width 32-byte big-endian integer.
func DecodeWord(b []byte) (*uint256.Int, error) {
	if len(b) != WordLength {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidWidth, len(b))
	}
	return new(uint256.Int).SetBytes32(b), nil
}

package crypto

import (
	"encoding"
	"errors"
	"hash"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// ErrNotCloneable is returned when the underlying sponge cannot export its
// state.
var ErrNotCloneable = errors.New("crypto: keccak state cannot be cloned")

// Hasher is an incremental Keccak-256 hasher. Sum does not reset the state,
// so more data may be written after reading an intermediate digest.
type Hasher struct {
	h hash.Hash
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{h: sha3.NewLegacyKeccak256()}
}

// Write absorbs p. It never returns an error.
func (k *Hasher) Write(p []byte) (int, error) {
	return k.h.Write(p)
}

// Update absorbs each chunk in order.
func (k *Hasher) Update(data ...[]byte) {
	for _, b := range data {
		k.h.Write(b)
	}
}

// Sum returns the digest of everything written so far.
func (k *Hasher) Sum() common.Hash {
	return common.BytesToHash(k.h.Sum(nil))
}

// Reset clears the absorbed input.
func (k *Hasher) Reset() {
	k.h.Reset()
}

// Clone returns an independent copy of the hasher, including everything
// absorbed so far.
func (k *Hasher) Clone() (*Hasher, error) {
	m, ok := k.h.(encoding.BinaryMarshaler)
	if !ok {
		return nil, ErrNotCloneable
	}
	state, err := m.MarshalBinary()
	if err != nil {
		return nil, err
	}
	h := sha3.NewLegacyKeccak256()
	u, ok := h.(encoding.BinaryUnmarshaler)
	if !ok {
		return nil, ErrNotCloneable
	}
	if err := u.UnmarshalBinary(state); err != nil {
		return nil, err
	}
	return &Hasher{h: h}, nil
}

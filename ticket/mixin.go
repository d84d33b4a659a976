package ticket

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	// WordLength is the width of every segment, secret, proof and integer.
	WordLength = 32
	// MixinLength is the size of the hashed context.
	MixinLength = 4 * WordLength

	chainOffset    = 0
	contractOffset = 32
	receiverOffset = 64
	proofOffset    = 96
)

// Mixin is the hashed context of a ticket: chain id, contract address,
// receiver address and the proof of the candidate being scored, each in its
// own 32-byte segment. Binding the first three into every hash keeps a
// secret mined for one deployment from scoring the same under another.
type Mixin [MixinLength]byte

// NewMixin builds a context with an all-zero proof segment.
func NewMixin(chain, contract, receiver common.Hash) Mixin {
	var m Mixin
	copy(m[chainOffset:], chain[:])
	copy(m[contractOffset:], contract[:])
	copy(m[receiverOffset:], receiver[:])
	return m
}

// Chain returns the chain id segment.
func (m Mixin) Chain() common.Hash { return common.BytesToHash(m[chainOffset:contractOffset]) }

// Contract returns the contract segment.
func (m Mixin) Contract() common.Hash {
	return common.BytesToHash(m[contractOffset:receiverOffset])
}

// Receiver returns the receiver segment.
func (m Mixin) Receiver() common.Hash {
	return common.BytesToHash(m[receiverOffset:proofOffset])
}

// Proof returns the currently installed proof.
func (m Mixin) Proof() common.Hash { return common.BytesToHash(m[proofOffset:]) }

// SetProof overwrites the proof segment in place.
func (m *Mixin) SetProof(proof common.Hash) {
	copy(m[proofOffset:], proof[:])
}

// WithProof returns a copy of m with proof installed. m is left untouched.
func (m Mixin) WithProof(proof common.Hash) Mixin {
	m.SetProof(proof)
	return m
}

// Bytes returns a copy of the raw context.
func (m Mixin) Bytes() []byte {
	return common.CopyBytes(m[:])
}

// ChainWord encodes a chain id as a 32-byte big-endian segment.
func ChainWord(id *uint256.Int) common.Hash {
	return common.Hash(id.Bytes32())
}

// AddressWord left-pads a 20-byte address into a 32-byte segment.
func AddressWord(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

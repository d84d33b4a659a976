package ticket

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Candidate is a scored secret: the secret itself, its proof and the value
// it contributes towards a price.
type Candidate struct {
	Secret common.Hash
	Proof  common.Hash
	Value  *uint256.Int
}

// Less orders candidates by value, then by secret bytes, so two distinct
// secrets with the same value are never treated as the same entry.
func (c *Candidate) Less(o *Candidate) bool {
	if cmp := c.Value.Cmp(o.Value); cmp != 0 {
		return cmp < 0
	}
	return bytes.Compare(c.Secret[:], o.Secret[:]) < 0
}

// same reports whether c and o are the same entry.
func (c *Candidate) same(o *Candidate) bool {
	return c.Secret == o.Secret && c.Value.Eq(o.Value)
}

// Copy returns a deep copy of c.
func (c Candidate) Copy() Candidate {
	if c.Value != nil {
		c.Value = new(uint256.Int).Set(c.Value)
	}
	return c
}

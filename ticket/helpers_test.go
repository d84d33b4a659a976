package ticket

import (
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/eth2030/netpay/log"
)

var (
	testContract = common.HexToAddress("0xB57ee0797C3fc0205714a577c02F7205bB89dF30")
	testReceiver = common.HexToAddress("0x5B38Da6a701c568545dCfcB03FcB875f56beddC4")
)

// mainnetMixin is the context used by the known-answer vectors: chain 1 and
// a contract/receiver pair left-padded to 32 bytes.
func mainnetMixin() Mixin {
	return NewMixin(ChainWord(uint256.NewInt(1)), AddressWord(testContract), AddressWord(testReceiver))
}

// word returns n as a 32-byte big-endian word.
func word(n uint64) common.Hash {
	var h common.Hash
	binary.BigEndian.PutUint64(h[24:], n)
	return h
}

// counterReader yields the words 1, 2, 3, ... as successive 32-byte secrets.
type counterReader struct {
	n uint64
}

func (r *counterReader) Read(p []byte) (int, error) {
	if len(p)%WordLength != 0 {
		return 0, errors.New("counterReader: read not word aligned")
	}
	for i := 0; i < len(p); i += WordLength {
		r.n++
		w := word(r.n)
		copy(p[i:], w[:])
	}
	return len(p), nil
}

// failingReader always errors.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy pool empty") }

func quietGenerator(m Mixin, price *uint256.Int, opts ...Option) *Generator {
	return NewGenerator(m, price, append([]Option{WithLogger(log.Discard())}, opts...)...)
}

func candidate(secret, value uint64) Candidate {
	return Candidate{Secret: word(secret), Proof: ProofOf(word(secret)), Value: uint256.NewInt(value)}
}

// sumValues recomputes the wrapping sum of the candidates' values.
func sumValues(cs []Candidate) *uint256.Int {
	total := new(uint256.Int)
	for _, c := range cs {
		total.Add(total, c.Value)
	}
	return total
}

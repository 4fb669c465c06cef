package types

import (
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// Header is a proof-of-work block header. All exported fields take part in
// the RLP encoding, in declaration order.
type Header struct {
	ParentHash  Hash
	UnclesHash  Hash
	Coinbase    Address
	Root        Hash
	TxHash      Hash
	Difficulty  *big.Int
	Number      uint64
	MinGasPrice *big.Int
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	Nonce       BlockNonce

	// Cache, not serialized.
	hash atomic.Pointer[Hash]
}

// Hash returns the keccak256 hash of the RLP-encoded header, cached after
// the first call. Headers must not be mutated once hashed.
func (h *Header) Hash() Hash {
	if cached := h.hash.Load(); cached != nil {
		return *cached
	}
	hash := rlpHash(h)
	h.hash.Store(&hash)
	return hash
}

// IsGenesis reports whether the header is the unique genesis header: number
// zero with a zero parent digest.
func (h *Header) IsGenesis() bool {
	return h.Number == 0 && h.ParentHash.IsZero()
}

// CopyHeader creates a deep copy of a header, dropping the hash cache.
func CopyHeader(h *Header) *Header {
	cpy := Header{
		ParentHash: h.ParentHash,
		UnclesHash: h.UnclesHash,
		Coinbase:   h.Coinbase,
		Root:       h.Root,
		TxHash:     h.TxHash,
		Number:     h.Number,
		GasLimit:   h.GasLimit,
		GasUsed:    h.GasUsed,
		Time:       h.Time,
		Nonce:      h.Nonce,
	}
	if h.Difficulty != nil {
		cpy.Difficulty = new(big.Int).Set(h.Difficulty)
	}
	if h.MinGasPrice != nil {
		cpy.MinGasPrice = new(big.Int).Set(h.MinGasPrice)
	}
	if len(h.Extra) > 0 {
		cpy.Extra = make([]byte, len(h.Extra))
		copy(cpy.Extra, h.Extra)
	}
	return &cpy
}

// rlpHash computes keccak256 of the RLP encoding of v.
func rlpHash(v interface{}) Hash {
	d := sha3.NewLegacyKeccak256()
	rlp.Encode(d, v)
	var h Hash
	copy(h[:], d.Sum(nil))
	return h
}

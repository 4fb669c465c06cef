package types

import (
	"io"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
)

// Block is an ordered tuple of header, transaction sequence and uncle
// header sequence. Blocks are immutable once constructed.
type Block struct {
	header       *Header
	transactions []*Transaction
	uncles       []*Header

	hash atomic.Pointer[Hash]
}

// NewBlock creates a block from a header, transactions and uncle headers.
// The header and each uncle header are deep-copied; the transaction slice
// is copied shallowly.
func NewBlock(header *Header, txs []*Transaction, uncles []*Header) *Block {
	b := &Block{header: CopyHeader(header)}
	if len(txs) > 0 {
		b.transactions = make([]*Transaction, len(txs))
		copy(b.transactions, txs)
	}
	if len(uncles) > 0 {
		b.uncles = make([]*Header, len(uncles))
		for i, u := range uncles {
			b.uncles[i] = CopyHeader(u)
		}
	}
	return b
}

// Header returns a copy of the block header.
func (b *Block) Header() *Header { return CopyHeader(b.header) }

// Transactions returns the ordered transaction list.
func (b *Block) Transactions() []*Transaction { return b.transactions }

// Uncles returns the uncle headers.
func (b *Block) Uncles() []*Header { return b.uncles }

// Number returns the block number.
func (b *Block) Number() uint64 { return b.header.Number }

// ParentHash returns the parent block digest.
func (b *Block) ParentHash() Hash { return b.header.ParentHash }

// Coinbase returns the reward recipient of the block.
func (b *Block) Coinbase() Address { return b.header.Coinbase }

// Root returns the world-state root the header commits to.
func (b *Block) Root() Hash { return b.header.Root }

// GasLimit returns the gas limit of the block.
func (b *Block) GasLimit() uint64 { return b.header.GasLimit }

// GasUsed returns the gas used by the block.
func (b *Block) GasUsed() uint64 { return b.header.GasUsed }

// Time returns the block timestamp in seconds.
func (b *Block) Time() uint64 { return b.header.Time }

// Difficulty returns the block difficulty.
func (b *Block) Difficulty() *big.Int {
	if b.header.Difficulty == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.header.Difficulty)
}

// MinGasPrice returns the minimum gas price the block advertises.
func (b *Block) MinGasPrice() *big.Int {
	if b.header.MinGasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.header.MinGasPrice)
}

// CumulativeDifficulty is the difficulty contribution of the block to its
// chain: its own difficulty plus the difficulty of every uncle it attests.
func (b *Block) CumulativeDifficulty() *big.Int {
	total := b.Difficulty()
	for _, u := range b.uncles {
		if u.Difficulty != nil {
			total.Add(total, u.Difficulty)
		}
	}
	return total
}

// IsGenesis reports whether the block is the genesis block.
func (b *Block) IsGenesis() bool { return b.header.IsGenesis() }

// IsParentOf reports whether child references the block as its parent.
func (b *Block) IsParentOf(child *Block) bool {
	return b.Hash() == child.ParentHash()
}

// Hash returns the keccak256 hash of the block header, cached.
func (b *Block) Hash() Hash {
	if cached := b.hash.Load(); cached != nil {
		return *cached
	}
	h := b.header.Hash()
	b.hash.Store(&h)
	return h
}

type extblock struct {
	Header *Header
	Txs    []*Transaction
	Uncles []*Header
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &extblock{
		Header: b.header,
		Txs:    b.transactions,
		Uncles: b.uncles,
	})
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	var eb extblock
	if err := s.Decode(&eb); err != nil {
		return err
	}
	b.header, b.transactions, b.uncles = eb.Header, eb.Txs, eb.Uncles
	return nil
}

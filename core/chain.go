package core

import (
	"math/big"

	"github.com/ethercore/ethercore/core/types"
)

// Chain is a tentative lineage branching off the canonical chain. It
// starts from the canonical total difficulty at the time it is opened and
// accumulates its own as blocks connect.
type Chain struct {
	blocks          []*types.Block
	totalDifficulty *big.Int

	// reorgSignaled latches once the chain has crossed the reorg
	// threshold so the event fires exactly once.
	reorgSignaled bool
}

// NewChain creates an empty alt chain seeded with the given base
// difficulty; the connector passes the current canonical total.
func NewChain(baseDifficulty *big.Int) *Chain {
	td := new(big.Int)
	if baseDifficulty != nil {
		td.Set(baseDifficulty)
	}
	return &Chain{totalDifficulty: td}
}

// TryToConnect appends the block when it extends the tip (an empty chain
// accepts its first block unconditionally) and accumulates its cumulative
// difficulty. Reports whether the block connected.
func (c *Chain) TryToConnect(block *types.Block) bool {
	if len(c.blocks) > 0 && c.Tip().Hash() != block.ParentHash() {
		return false
	}
	c.blocks = append(c.blocks, block)
	c.totalDifficulty.Add(c.totalDifficulty, block.CumulativeDifficulty())
	return true
}

// Tip returns the last connected block, or nil for an empty chain.
func (c *Chain) Tip() *types.Block {
	if len(c.blocks) == 0 {
		return nil
	}
	return c.blocks[len(c.blocks)-1]
}

// Blocks returns the connected blocks in order.
func (c *Chain) Blocks() []*types.Block { return c.blocks }

// TotalDifficulty returns the accumulated difficulty of the chain.
func (c *Chain) TotalDifficulty() *big.Int {
	return new(big.Int).Set(c.totalDifficulty)
}

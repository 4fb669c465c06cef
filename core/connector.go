package core

import (
	"math/big"

	"github.com/ethercore/ethercore/core/types"
)

// TryToConnect routes an incoming block: duplicates are dropped, head
// extensions are applied, forks off known blocks open alt chains, blocks
// extending an alt chain accumulate on it (possibly signaling a reorg),
// and everything else lands in the orphan buffer. An orphan flood forces
// a destructive resync.
func (bc *Blockchain) TryToConnect(block *types.Block) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if block == nil {
		return
	}

	// Retry of a well-known block.
	if bc.store.GetByHash(block.Hash()) != nil {
		bc.logger.Debug("duplicate block ignored", "number", block.Number(), "hash", block.Hash())
		return
	}

	// The simple case: the block connects to the main chain.
	if bc.bestBlock.IsParentOf(block) {
		if err := bc.add(block); err != nil {
			bc.logger.Warn("head extension rejected", "number", block.Number(), "err", err)
		}
		return
	}

	// A different version of a block we already have on the main chain:
	// the start of an alt chain.
	if parent := bc.store.GetByHash(block.ParentHash()); parent != nil && bc.bestBlock.Number() <= block.Number() {
		chain := NewChain(bc.totalDifficulty)
		chain.TryToConnect(block)
		bc.altChains[block.Hash()] = chain
		bc.logger.Info("created alt chain", "hash", block.Hash(), "number", block.Number())
		return
	}

	// One of the alt chains may connect the block; tips are indexed by
	// hash so the lookup is direct.
	if chain, ok := bc.altChains[block.ParentHash()]; ok {
		delete(bc.altChains, block.ParentHash())
		chain.TryToConnect(block)
		bc.altChains[block.Hash()] = chain
		bc.maybeSignalReorg(chain, block)
		return
	}

	// No known connection point: buffer the orphan and resync when the
	// buffer floods.
	bc.garbage = append(bc.garbage, block)
	if len(bc.garbage) > GarbageLimit {
		bc.resync()
	}
}

// maybeSignalReorg runs when a block extends an alt chain and emits the
// reorg event the first time such an extension leaves the chain's total
// difficulty more than the threshold above the canonical one. Opening an
// alt chain does not run the check. The replay itself is up to the
// listener.
func (bc *Blockchain) maybeSignalReorg(chain *Chain, tip *types.Block) {
	if chain.reorgSignaled {
		return
	}
	lead := new(big.Int).Sub(chain.TotalDifficulty(), bc.totalDifficulty)
	if lead.Cmp(ReorgThreshold) > 0 {
		chain.reorgSignaled = true
		bc.logger.Info("alt chain overtook canonical", "tip", tip.Hash(), "lead", lead)
		bc.listener.OnReorg(tip.Hash(), chain.TotalDifficulty())
	}
}

// resync throws the engine back to genesis: the queue is cleared, the
// difficulty accumulator zeroed, the repository closed and reopened, and
// the alt chains and orphan buffer dropped.
func (bc *Blockchain) resync() {
	bc.logger.Warn("too much garbage, resyncing from genesis", "orphans", len(bc.garbage))

	bc.queue.Clear()
	bc.totalDifficulty = new(big.Int)
	bc.bestBlock = bc.genesis
	bc.repository.Close()
	bc.repository = bc.newRepository()
	bc.garbage = nil
	bc.altChains = make(map[types.Hash]*Chain)
	bc.syncDone = false
}

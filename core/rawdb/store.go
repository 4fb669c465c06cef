// Package rawdb persists blocks. It offers the BlockStore contract the
// engine consumes, an in-memory implementation for tests and light use,
// and a leveldb-backed implementation for durable storage.
package rawdb

import "github.com/ethercore/ethercore/core/types"

// BlockStore is the persistent block index: lookup by hash, canonical
// lookup by number, ancestor hash walks, and a destructive reset.
// Lookups return nil for unknown blocks.
type BlockStore interface {
	// GetByHash returns the block with the given header hash.
	GetByHash(hash types.Hash) *types.Block

	// GetByNumber returns the block saved under the given number.
	GetByNumber(number uint64) *types.Block

	// ListHashesStartFrom returns up to qty hashes walking the parent
	// links from the given block, inclusive.
	ListHashesStartFrom(hash types.Hash, qty int) []types.Hash

	// SaveBlock persists the block under both its hash and its number.
	SaveBlock(block *types.Block) error

	// Reset drops every stored block.
	Reset() error

	// Close releases the store.
	Close() error
}

package rawdb

import (
	"sync"

	"github.com/ethercore/ethercore/core/types"
)

// MemoryStore is a map-backed BlockStore. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	byHash   map[types.Hash]*types.Block
	byNumber map[uint64]types.Hash
}

// NewMemoryStore creates an empty in-memory block store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byHash:   make(map[types.Hash]*types.Block),
		byNumber: make(map[uint64]types.Hash),
	}
}

// GetByHash returns the block with the given hash, or nil.
func (s *MemoryStore) GetByHash(hash types.Hash) *types.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byHash[hash]
}

// GetByNumber returns the block saved under the given number, or nil.
func (s *MemoryStore) GetByNumber(number uint64) *types.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.byNumber[number]
	if !ok {
		return nil
	}
	return s.byHash[hash]
}

// ListHashesStartFrom walks parent links from the given block.
func (s *MemoryStore) ListHashesStartFrom(hash types.Hash, qty int) []types.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hashes []types.Hash
	for len(hashes) < qty {
		block, ok := s.byHash[hash]
		if !ok {
			break
		}
		hashes = append(hashes, hash)
		if block.IsGenesis() {
			break
		}
		hash = block.ParentHash()
	}
	return hashes
}

// SaveBlock stores the block under its hash and number.
func (s *MemoryStore) SaveBlock(block *types.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHash[block.Hash()] = block
	s.byNumber[block.Number()] = block.Hash()
	return nil
}

// Reset drops every stored block.
func (s *MemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHash = make(map[types.Hash]*types.Block)
	s.byNumber = make(map[uint64]types.Hash)
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }

// Package state implements the checkpointable account store the engine
// executes against. The authoritative world state lives in WorldState; a
// chain of tracked overlays buffers writes that become visible to the
// parent only on Commit and vanish on Rollback. The Merkle-Patricia trie
// proper is an external concern; this package preserves its contract: equal
// states yield equal roots.
package state

import (
	"math/big"

	"github.com/ethercore/ethercore/core/types"
)

// Repository is the nested, checkpointable view of accounts, balances,
// nonces, code and storage.
//
// Balances and nonces are unsigned big integers. No operation drives a
// balance negative on its own; callers check funds before debiting.
// StartTracking returns a child repository buffering writes; Commit folds
// them into the parent and Rollback discards them. Reads in a tracked view
// see its own uncommitted writes over the parent. Nesting is unbounded.
type Repository interface {
	// GetAccount returns a copy of the account state, or nil when the
	// address has none.
	GetAccount(addr types.Address) *types.Account

	// CreateAccount binds a fresh zero account to the address, replacing
	// any existing state, and returns a copy of it.
	CreateAccount(addr types.Address) *types.Account

	// AddBalance applies a signed delta to the balance, creating the
	// account on first credit, and returns the resulting balance.
	AddBalance(addr types.Address, delta *big.Int) *big.Int

	// IncreaseNonce bumps the account nonce by one and returns it.
	IncreaseNonce(addr types.Address) *big.Int

	// GetCode returns the code bound to the address, or nil.
	GetCode(addr types.Address) []byte

	// SaveCode persists code under its hash and binds the address to it.
	SaveCode(addr types.Address, code []byte)

	// GetStorageWord reads a 32-byte storage word.
	GetStorageWord(addr types.Address, key types.Hash) types.Hash

	// PutStorageWord writes a 32-byte storage word.
	PutStorageWord(addr types.Address, key, value types.Hash)

	// Delete removes the account entirely (self-destruct).
	Delete(addr types.Address)

	// Root returns the current world-state root.
	Root() types.Hash

	// Sync flushes the world state and recomputes the root.
	Sync()

	// StartTracking opens a child repository buffering writes.
	StartTracking() Repository

	// Commit folds a tracked view's writes into its parent. On the
	// authoritative state it is a no-op.
	Commit()

	// Rollback discards a tracked view's writes. On the authoritative
	// state it is a no-op.
	Rollback()

	// Close releases the repository. Only meaningful on the
	// authoritative state.
	Close()
}

// Factory creates a fresh Repository. The engine uses it to reopen the
// state after a destructive resync.
type Factory func() Repository

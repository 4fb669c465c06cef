package core

import (
	"math/big"

	"github.com/ethercore/ethercore/core/types"
)

// BlockQueue is the inbound block feed owned by the network layer. The
// engine only observes its depth and clears or closes it.
type BlockQueue interface {
	Size() int
	Clear()
	Close()
}

// ChannelManager reports whether every peer channel finished syncing.
type ChannelManager interface {
	IsAllSync() bool
}

// Listener receives engine events. Calls are fire-and-forget; nothing a
// listener returns influences the engine.
type Listener interface {
	OnBlock(block *types.Block)
	OnSyncDone()
	OnReorg(tip types.Hash, totalDifficulty *big.Int)
	Trace(msg string)
}

// Wallet mirrors chain progress into the local wallet and mempool.
type Wallet interface {
	AddTransactions(txs []*types.Transaction)
	RemoveTransactions(txs []*types.Transaction)
	ProcessBlock(block *types.Block)
}

// PowVerifier checks the proof of work of a header. The nonce search and
// verification math live outside the engine.
type PowVerifier interface {
	Verify(header *types.Header) bool
}

// NopListener discards every event.
type NopListener struct{}

func (NopListener) OnBlock(*types.Block)         {}
func (NopListener) OnSyncDone()                  {}
func (NopListener) OnReorg(types.Hash, *big.Int) {}
func (NopListener) Trace(string)                 {}

// NopQueue is an always-empty block queue.
type NopQueue struct{}

func (NopQueue) Size() int { return 0 }
func (NopQueue) Clear()    {}
func (NopQueue) Close()    {}

// NopWallet ignores chain progress.
type NopWallet struct{}

func (NopWallet) AddTransactions([]*types.Transaction)    {}
func (NopWallet) RemoveTransactions([]*types.Transaction) {}
func (NopWallet) ProcessBlock(*types.Block)               {}

// allSyncChannels reports every channel as synced.
type allSyncChannels struct{}

func (allSyncChannels) IsAllSync() bool { return true }

// acceptAllPow accepts every header. Real verification is delegated to an
// external verifier wired in through Services.
type acceptAllPow struct{}

func (acceptAllPow) Verify(*types.Header) bool { return true }

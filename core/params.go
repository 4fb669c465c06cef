// Package core is the state-transition engine: it connects incoming blocks
// to the canonical chain, validates them, replays their transactions
// against the world state and advances the head.
package core

import "math/big"

// Denominations, in wei.
var (
	Szabo  = big.NewInt(1e12)
	Finney = big.NewInt(1e15)
	Ether  = big.NewInt(1e18)
)

const (
	// MinGasLimit is the minimum gas expenditure limit per block.
	MinGasLimit uint64 = 125000

	// GenesisGasLimit is the gas limit of the genesis block.
	GenesisGasLimit uint64 = 1000000

	// GasLimitBoundDivisor bounds the gas limit drift per block.
	GasLimitBoundDivisor uint64 = 1024

	// MaxExtraDataSize is the maximum header extra-data length in bytes.
	MaxExtraDataSize = 1024

	// FutureBlockBound is how far ahead of wall clock a header timestamp
	// may lie, in seconds.
	FutureBlockBound uint64 = 900

	// DifficultyBoundDivisor scales the per-block difficulty adjustment.
	DifficultyBoundDivisor uint64 = 1024

	// DurationLimit is the inter-block time, in seconds, below which
	// difficulty rises.
	DurationLimit uint64 = 5

	// TxGas is the base gas cost of a transaction that runs no code.
	TxGas uint64 = 21000

	// TxDataGas is the gas cost per byte of transaction data.
	TxDataGas uint64 = 5

	// GarbageLimit caps the orphan buffer; one more orphan forces a
	// resync.
	GarbageLimit = 20
)

var (
	// MinimumDifficulty floors the difficulty adjustment.
	MinimumDifficulty = big.NewInt(131072)

	// GenesisDifficulty is the difficulty of the genesis block.
	GenesisDifficulty = big.NewInt(131072)

	// InitialMinGasPrice is the minimum gas price NewGenesisBlock sets and
	// the gas price GasPrice advertises once the head is past genesis.
	InitialMinGasPrice = new(big.Int).Mul(big.NewInt(10), Szabo)

	// ReorgThreshold is how far an alt chain's total difficulty must
	// exceed the canonical one before a reorg is signaled.
	ReorgThreshold = big.NewInt(5000)

	// BlockReward is credited to the coinbase of every applied block.
	BlockReward = new(big.Int).Mul(big.NewInt(1500), Finney)

	// UncleReward is credited to the coinbase of each referenced uncle.
	UncleReward = new(big.Int).Div(new(big.Int).Mul(BlockReward, big.NewInt(15)), big.NewInt(16))

	// InclusionReward is the extra credit the block coinbase earns per
	// uncle it references.
	InclusionReward = new(big.Int).Div(BlockReward, big.NewInt(32))
)

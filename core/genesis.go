package core

import (
	"math/big"

	"github.com/ethercore/ethercore/core/types"
)

// NewGenesisBlock builds the genesis block: number zero, zero parent
// digest, empty transaction and uncle lists, the fixed genesis gas limit
// and the root of the empty world state.
func NewGenesisBlock() *types.Block {
	header := &types.Header{
		UnclesHash:  types.EmptyListHash,
		Root:        types.EmptyListHash,
		Difficulty:  new(big.Int).Set(GenesisDifficulty),
		MinGasPrice: new(big.Int).Set(InitialMinGasPrice),
		GasLimit:    GenesisGasLimit,
	}
	return types.NewBlock(header, nil, nil)
}

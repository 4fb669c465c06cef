package core

import (
	"math/big"

	"github.com/ethercore/ethercore/core/state"
	"github.com/ethercore/ethercore/core/types"
)

// ApplyRewards credits the coinbase of a valid non-genesis block with the
// block reward, each uncle coinbase with the uncle reward, and the block
// coinbase with an inclusion reward per uncle. Accounts are created on
// first credit.
func ApplyRewards(repo state.Repository, block *types.Block) {
	coinbase := block.Coinbase()
	if repo.GetAccount(coinbase) == nil {
		repo.CreateAccount(coinbase)
	}

	total := new(big.Int).Set(BlockReward)
	for _, uncle := range block.Uncles() {
		repo.AddBalance(uncle.Coinbase, UncleReward)
		total.Add(total, InclusionReward)
	}
	repo.AddBalance(coinbase, total)
}

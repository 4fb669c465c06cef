package core

import (
	"math/big"

	"github.com/ethercore/ethercore/core/types"
)

// CalcDifficulty returns the difficulty a child of parent must carry given
// its timestamp. The rule is homeostatic: an inter-block time under the
// duration limit raises difficulty by 1/1024 of the parent's, a longer one
// lowers it by the same step, floored at MinimumDifficulty.
func CalcDifficulty(parent *types.Header, time uint64) *big.Int {
	parentDiff := parent.Difficulty
	if parentDiff == nil {
		parentDiff = MinimumDifficulty
	}
	quotient := new(big.Int).Div(parentDiff, new(big.Int).SetUint64(DifficultyBoundDivisor))

	diff := new(big.Int)
	if time >= parent.Time+DurationLimit {
		diff.Sub(parentDiff, quotient)
	} else {
		diff.Add(parentDiff, quotient)
	}
	if diff.Cmp(MinimumDifficulty) < 0 {
		diff.Set(MinimumDifficulty)
	}
	return diff
}

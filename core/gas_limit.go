package core

import "github.com/ethercore/ethercore/core/types"

// CalcGasLimit returns the gas limit a child of parent must carry:
//
//	max(MinGasLimit, (parent.gasLimit*1023 + parent.gasUsed*6/5) / 1024)
//
// with truncating integer arithmetic. The genesis block itself carries the
// fixed GenesisGasLimit instead.
func CalcGasLimit(parent *types.Header) uint64 {
	limit := (parent.GasLimit*(GasLimitBoundDivisor-1) + parent.GasUsed*6/5) / GasLimitBoundDivisor
	if limit < MinGasLimit {
		return MinGasLimit
	}
	return limit
}

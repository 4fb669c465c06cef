package core

import (
	"testing"

	"github.com/ethercore/ethercore/core/types"
)

func TestCalcGasLimit(t *testing.T) {
	tests := []struct {
		parentLimit uint64
		parentUsed  uint64
		want        uint64
	}{
		// (limit*1023 + used*6/5) / 1024, truncating.
		{GenesisGasLimit, 0, 999023},
		{1000000, 1000000, 1000195},
		{999023, 0, 998047},
		// Heavy usage pushes the limit up.
		{3000000, 3000000, 3000585},
		// The floor applies when the computed value sinks below it.
		{MinGasLimit, 0, MinGasLimit},
		{125100, 0, MinGasLimit},
	}
	for _, tt := range tests {
		parent := &types.Header{GasLimit: tt.parentLimit, GasUsed: tt.parentUsed}
		if got := CalcGasLimit(parent); got != tt.want {
			t.Errorf("CalcGasLimit(limit=%d, used=%d): got %d, want %d",
				tt.parentLimit, tt.parentUsed, got, tt.want)
		}
	}
}

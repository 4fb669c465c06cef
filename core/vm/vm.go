// Package vm defines the capability boundary between the transaction
// executor and the stack-based virtual machine. The opcode interpreter
// lives outside the engine; the executor hands it a ProgramInvoke built
// from the transaction, the enclosing block and a tracked repository, and
// branches on the tagged Outcome it gets back.
package vm

import (
	"github.com/holiman/uint256"

	"github.com/ethercore/ethercore/core/state"
	"github.com/ethercore/ethercore/core/types"
)

// OutcomeKind discriminates the ways a program run can end.
type OutcomeKind int

const (
	// Halt is a normal stop; the result fields are valid.
	Halt OutcomeKind = iota

	// OutOfGas means the program exhausted its purchased gas. The caller
	// charges the full gas limit and discards the tracked writes.
	OutOfGas

	// RuntimeFailure is any other abnormal stop (bad jump, stack
	// underflow, interpreter panic). Same gas treatment as OutOfGas.
	RuntimeFailure
)

// Outcome is the tagged result of one program run.
type Outcome struct {
	Kind OutcomeKind

	// GasUsed is the gas consumed up to the stop. Meaningful for Halt.
	GasUsed uint64

	// Return holds the H-return bytes: for a creation run, the body code
	// to bind to the new contract.
	Return []byte

	// Deletes lists accounts the program marked for self-destruct.
	Deletes []types.Address
}

// Halted builds a normal-stop outcome.
func Halted(gasUsed uint64, ret []byte, deletes []types.Address) Outcome {
	return Outcome{Kind: Halt, GasUsed: gasUsed, Return: ret, Deletes: deletes}
}

// ProgramInvoke is the execution context of one program run. Word-sized
// quantities are 256-bit VM words.
type ProgramInvoke struct {
	// Transaction scope.
	Origin   types.Address
	Caller   types.Address
	Address  types.Address
	GasPrice *uint256.Int
	Gas      uint64
	Value    *uint256.Int
	Data     []byte

	// Block scope.
	Coinbase   types.Address
	Number     uint64
	Time       uint64
	Difficulty *uint256.Int
	GasLimit   uint64

	// State scope: the tracked repository the program writes through.
	Repo state.Repository
}

// VM runs a program within an invocation context.
type VM interface {
	// Play executes code under the invocation and reports the outcome.
	// Implementations must not retain inv.Repo past the call.
	Play(inv *ProgramInvoke, code []byte) Outcome
}

// InvokeFactory builds program invocations from engine objects.
type InvokeFactory interface {
	Create(tx *types.Transaction, sender types.Address, receiver types.Address, block *types.Block, repo state.Repository) *ProgramInvoke
}

// Factory is the default InvokeFactory.
type Factory struct{}

// Create assembles a ProgramInvoke the way the executor expects: gas is
// the transaction gas limit, value the transferred amount, and the block
// scope is copied from the enclosing block's header.
func (Factory) Create(tx *types.Transaction, sender types.Address, receiver types.Address, block *types.Block, repo state.Repository) *ProgramInvoke {
	value := new(uint256.Int)
	if v := tx.Value(); v != nil {
		value.SetFromBig(v)
	}
	gasPrice := new(uint256.Int)
	gasPrice.SetFromBig(tx.GasPrice())
	difficulty := new(uint256.Int)
	difficulty.SetFromBig(block.Difficulty())

	return &ProgramInvoke{
		Origin:     sender,
		Caller:     sender,
		Address:    receiver,
		GasPrice:   gasPrice,
		Gas:        tx.GasLimit().Uint64(),
		Value:      value,
		Data:       tx.Data(),
		Coinbase:   block.Coinbase(),
		Number:     block.Number(),
		Time:       block.Time(),
		Difficulty: difficulty,
		GasLimit:   block.GasLimit(),
		Repo:       repo,
	}
}

package core

import (
	"math/big"

	"github.com/ethercore/ethercore/core/state"
	"github.com/ethercore/ethercore/core/types"
	"github.com/ethercore/ethercore/core/vm"
	"github.com/ethercore/ethercore/crypto"
	"github.com/ethercore/ethercore/log"
)

// Executor applies single transactions to the world state: value
// transfer, gas purchase, contract creation and invocation through the
// VM, and atomic rollback of the tracked child when a run fails.
type Executor struct {
	cfg     *Config
	machine vm.VM
	invokes vm.InvokeFactory
	senders crypto.SenderResolver
	logger  *log.Logger
}

// NewExecutor creates an executor. A nil machine (or PlayVM off) makes
// every program invocation halt immediately with zero gas; nil factories
// fall back to the defaults.
func NewExecutor(cfg *Config, machine vm.VM, invokes vm.InvokeFactory, senders crypto.SenderResolver) *Executor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if invokes == nil {
		invokes = vm.Factory{}
	}
	if senders == nil {
		senders = crypto.CachedSender{}
	}
	return &Executor{
		cfg:     cfg,
		machine: machine,
		invokes: invokes,
		senders: senders,
		logger:  log.Default().Module("state"),
	}
}

// ApplyTransaction applies one transaction to the repository within the
// scope of block and returns the gas it consumed. Failures before the gas
// purchase consume nothing; failures inside the VM consume the full gas
// limit and leave no trace beyond the nonce bump, the outer value
// transfer for calls, and the gas transfers between sender and coinbase.
func (e *Executor) ApplyTransaction(repo state.Repository, block *types.Block, tx *types.Transaction) uint64 {
	coinbase := block.Coinbase()

	// Resolve and validate the sender.
	sender, ok := e.senders.Resolve(tx)
	if !ok {
		e.logger.Warn("transaction sender unknown", "tx", tx.Hash())
		return 0
	}
	account := repo.GetAccount(sender)
	if account == nil {
		e.logger.Warn("no such sender account", "address", sender)
		return 0
	}

	// Validate the nonce.
	txNonce := tx.NonceBig()
	if account.Nonce.Cmp(txNonce) != 0 {
		e.logger.Warn("invalid nonce", "account", account.Nonce, "tx", txNonce)
		return 0
	}

	// From here on the nonce bump sticks regardless of how the rest of
	// the transaction fares.
	repo.IncreaseNonce(sender)

	// Classify and resolve the receiver.
	var (
		receiver types.Address
		code     []byte
	)
	isCreate := tx.IsContractCreation()
	if isCreate {
		receiver = crypto.CreateAddress(sender, tx.Nonce())
	} else {
		receiver = *tx.To()
		if repo.GetAccount(receiver) == nil {
			repo.CreateAccount(receiver)
			e.logger.Debug("new receiver account created", "address", receiver)
		} else {
			code = repo.GetCode(receiver)
		}
	}

	gasPrice := tx.GasPrice()
	gasDebit := new(big.Int).Mul(tx.GasLimit(), gasPrice)
	value := tx.Value()

	// The sender must afford the gas purchase in full, plus the value if
	// it is to move at all; a transaction that cannot pay for gas leaves
	// only the nonce bump behind.
	transfer := value != nil && value.Sign() > 0 && account.Balance.Cmp(value) >= 0
	required := new(big.Int).Set(gasDebit)
	if transfer {
		required.Add(required, value)
	}
	if account.Balance.Cmp(required) < 0 {
		e.logger.Debug("no gas to start the execution", "sender", sender,
			"balance", account.Balance, "required", required)
		return 0
	}

	// The outer value transfer. For a creation the credit is deferred to
	// the tracked child so a failed init reverts it.
	if transfer {
		repo.AddBalance(sender, new(big.Int).Neg(value))
		if !isCreate {
			repo.AddBalance(receiver, value)
		}
	}

	// Purchase the gas: debit the sender, credit the coinbase.
	if gasDebit.Sign() > 0 {
		repo.AddBalance(sender, new(big.Int).Neg(gasDebit))
		repo.AddBalance(coinbase, gasDebit)
	}

	if isCreate || len(code) > 0 {
		return e.runProgram(repo, block, tx, sender, receiver, coinbase, code, isCreate, transfer, gasDebit, gasPrice)
	}

	// Pure transfer: charge the base fee and refund the rest.
	gasUsed := TxGas + uint64(len(tx.Data()))*TxDataGas
	refund := new(big.Int).Sub(gasDebit, new(big.Int).Mul(new(big.Int).SetUint64(gasUsed), gasPrice))
	if refund.Sign() > 0 {
		repo.AddBalance(sender, refund)
		repo.AddBalance(coinbase, new(big.Int).Neg(refund))
	}
	return gasUsed
}

// runProgram executes creation or call code inside a tracked child of the
// repository. The child is released on every exit path: committed on a
// clean halt, rolled back otherwise.
func (e *Executor) runProgram(repo state.Repository, block *types.Block, tx *types.Transaction,
	sender, receiver, coinbase types.Address, code []byte, isCreate, transfer bool,
	gasDebit, gasPrice *big.Int) uint64 {

	track := repo.StartTracking()
	committed := false
	defer func() {
		if !committed {
			track.Rollback()
		}
	}()

	if isCreate {
		if transfer {
			track.AddBalance(receiver, tx.Value())
		} else {
			track.CreateAccount(receiver)
		}
		e.logger.Debug("new contract created", "address", receiver)
	}

	invoke := e.invokes.Create(tx, sender, receiver, block, track)
	outcome := e.play(invoke, code)

	switch outcome.Kind {
	case vm.OutOfGas:
		e.logger.Debug("program halted by out of gas", "contract", receiver)
		return tx.GasLimit().Uint64()
	case vm.RuntimeFailure:
		e.logger.Debug("program failed at runtime", "contract", receiver)
		return tx.GasLimit().Uint64()
	}

	// Clean halt: settle the refund inside the child, bind created code,
	// honor self-destructs, then fold the child into the parent.
	gasUsed := outcome.GasUsed
	refund := new(big.Int).Sub(gasDebit, new(big.Int).Mul(new(big.Int).SetUint64(gasUsed), gasPrice))
	if refund.Sign() > 0 {
		track.AddBalance(sender, refund)
		track.AddBalance(coinbase, new(big.Int).Neg(refund))
	}
	if isCreate && len(outcome.Return) > 0 {
		track.SaveCode(receiver, outcome.Return)
		e.logger.Debug("saved contract code", "contract", receiver, "size", len(outcome.Return))
	}
	for _, addr := range outcome.Deletes {
		track.Delete(addr)
	}

	track.Commit()
	committed = true
	return gasUsed
}

// play runs the VM, translating a panicking interpreter into a
// RuntimeFailure outcome so the caller's rollback always runs.
func (e *Executor) play(invoke *vm.ProgramInvoke, code []byte) (out vm.Outcome) {
	if e.machine == nil || !e.cfg.PlayVM {
		return vm.Halted(0, nil, nil)
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("vm panic", "err", r)
			out = vm.Outcome{Kind: vm.RuntimeFailure}
		}
	}()
	return e.machine.Play(invoke, code)
}

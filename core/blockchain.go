package core

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethercore/ethercore/core/rawdb"
	"github.com/ethercore/ethercore/core/state"
	"github.com/ethercore/ethercore/core/types"
	"github.com/ethercore/ethercore/core/vm"
	"github.com/ethercore/ethercore/crypto"
	"github.com/ethercore/ethercore/log"
)

// Services bundles the external collaborators the engine talks to. Nil
// fields get no-op defaults so the engine runs headless.
type Services struct {
	Queue    BlockQueue
	Channels ChannelManager
	Listener Listener
	Wallet   Wallet
	Machine  vm.VM
	Invokes  vm.InvokeFactory
	Senders  crypto.SenderResolver
	Pow      PowVerifier

	// NewRepository reopens the world state after a destructive resync.
	NewRepository state.Factory
}

// Blockchain is the engine: it owns the canonical head, routes incoming
// blocks, applies the ones that extend the head, tracks alt chains and
// the orphan buffer, and resyncs on orphan flood. Block connection and
// application form a single serial critical section.
type Blockchain struct {
	mu sync.Mutex

	cfg           *Config
	repository    state.Repository
	newRepository state.Factory
	store         rawdb.BlockStore
	queue         BlockQueue
	channels      ChannelManager
	listener      Listener
	wallet        Wallet
	validator     *HeaderValidator
	executor      *Executor

	genesis         *types.Block
	bestBlock       *types.Block
	totalDifficulty *big.Int
	altChains       map[types.Hash]*Chain
	garbage         []*types.Block
	syncDone        bool

	logger      *log.Logger
	stateLogger *log.Logger
}

// NewBlockchain creates the engine around a genesis block, a repository
// holding the genesis state, and a block store. The genesis block is
// persisted and becomes the head with zero total difficulty.
func NewBlockchain(cfg *Config, genesis *types.Block, repo state.Repository, store rawdb.BlockStore, svc Services) (*Blockchain, error) {
	if genesis == nil || !genesis.IsGenesis() {
		return nil, fmt.Errorf("%w: genesis required", ErrInvalidBlock)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if svc.Queue == nil {
		svc.Queue = NopQueue{}
	}
	if svc.Channels == nil {
		svc.Channels = allSyncChannels{}
	}
	if svc.Listener == nil {
		svc.Listener = NopListener{}
	}
	if svc.Wallet == nil {
		svc.Wallet = NopWallet{}
	}
	if svc.NewRepository == nil {
		svc.NewRepository = func() state.Repository { return state.NewWorldState() }
	}

	bc := &Blockchain{
		cfg:             cfg,
		repository:      repo,
		newRepository:   svc.NewRepository,
		store:           store,
		queue:           svc.Queue,
		channels:        svc.Channels,
		listener:        svc.Listener,
		wallet:          svc.Wallet,
		validator:       NewHeaderValidator(store, svc.Pow),
		executor:        NewExecutor(cfg, svc.Machine, svc.Invokes, svc.Senders),
		genesis:         genesis,
		bestBlock:       genesis,
		totalDifficulty: new(big.Int),
		altChains:       make(map[types.Hash]*Chain),
		logger:          log.Default().Module("blockchain"),
		stateLogger:     log.Default().Module("state"),
	}
	if err := store.SaveBlock(genesis); err != nil {
		return nil, fmt.Errorf("persist genesis: %w", err)
	}
	return bc, nil
}

// Add validates and applies a block that extends the head, then notifies
// the collaborators. Blocks that do not extend the head are rejected
// without touching any state.
func (bc *Blockchain) Add(block *types.Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.add(block)
}

func (bc *Blockchain) add(block *types.Block) error {
	if block == nil {
		return nil
	}

	// Keep chain continuity.
	if bc.bestBlock.Hash() != block.ParentHash() {
		bc.logger.Warn("block does not extend head", "number", block.Number(),
			"parent", block.ParentHash(), "head", bc.bestBlock.Hash())
		return fmt.Errorf("%w: number %d", ErrNotHeadExtension, block.Number())
	}

	if err := bc.processBlock(block); err != nil {
		return err
	}

	// The net approved these transactions; drop them from the wallet.
	if !bc.cfg.BlockChainOnly {
		bc.wallet.RemoveTransactions(block.Transactions())
	}

	bc.listener.Trace(fmt.Sprintf("Block chain size: [ %d ]", bc.size()))
	bc.listener.OnBlock(block)

	if bc.queue.Size() == 0 && !bc.syncDone && bc.channels.IsAllSync() {
		bc.logger.Info("sync done")
		bc.syncDone = true
		bc.listener.OnSyncDone()
	}
	return nil
}

func (bc *Blockchain) processBlock(block *types.Block) error {
	if err := bc.validator.ValidateBlock(block); err != nil {
		bc.logger.Warn("invalid block", "number", block.Number(), "err", err)
		return fmt.Errorf("%w: number %d: %v", ErrInvalidBlock, block.Number(), err)
	}

	if !block.IsGenesis() {
		if !bc.cfg.BlockChainOnly {
			bc.wallet.AddTransactions(block.Transactions())
		}
		if err := bc.applyBlock(block); err != nil {
			return err
		}
		if !bc.cfg.BlockChainOnly {
			bc.wallet.ProcessBlock(block)
		}
	}
	bc.storeBlock(block)
	return nil
}

// applyBlock replays the block's transactions in order against a tracked
// child of the repository, distributes rewards, and folds the child in.
// A gas-limit overflow aborts with the child discarded, leaving the world
// state untouched.
func (bc *Blockchain) applyBlock(block *types.Block) error {
	track := bc.repository.StartTracking()
	committed := false
	defer func() {
		if !committed {
			track.Rollback()
		}
	}()

	var totalGasUsed uint64
	for i, tx := range block.Transactions() {
		bc.stateLogger.Debug("apply block", "number", block.Number(), "tx", i)
		totalGasUsed += bc.executor.ApplyTransaction(track, block, tx)

		if bc.cfg.traceEnabled(block.Number()) {
			bc.listener.Trace(fmt.Sprintf("block: [ %d ] tx: [ %d ] gas: [ %d ] hash: [ %s ]",
				block.Number(), i, totalGasUsed, tx.Hash().Hex()))
		}
		if totalGasUsed > block.GasLimit() {
			return fmt.Errorf("%w: used %d, limit %d", ErrGasLimitExceeded, totalGasUsed, block.GasLimit())
		}
	}

	ApplyRewards(track, block)
	track.Commit()
	committed = true

	bc.totalDifficulty.Add(bc.totalDifficulty, block.CumulativeDifficulty())
	return nil
}

// storeBlock flushes the repository, compares its root to the one the
// header commits to, persists the block and advances the head. A root
// conflict is logged and the block is kept; the choice is deliberate and
// mirrors the permissive behavior the protocol tolerates.
func (bc *Blockchain) storeBlock(block *types.Block) {
	bc.repository.Sync()

	if !block.IsGenesis() {
		if root := bc.repository.Root(); root != block.Root() {
			bc.stateLogger.Warn("block state conflict", "number", block.Number(),
				"block_root", block.Root(), "world_root", root)
		}
	}

	if err := bc.store.SaveBlock(block); err != nil {
		bc.logger.Error("block persist failed", "number", block.Number(), "err", err)
	}
	bc.bestBlock = block

	bc.logger.Debug("block added", "number", block.Number())
	if block.Number()%100 == 0 {
		bc.logger.Info("last block added", "number", block.Number())
	}
}

func (bc *Blockchain) size() uint64 {
	return bc.bestBlock.Number() + 1
}

// --- Accessors ---

// BestBlock returns the head of the canonical chain.
func (bc *Blockchain) BestBlock() *types.Block {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.bestBlock
}

// BestBlockHash returns the hash of the head block.
func (bc *Blockchain) BestBlockHash() types.Hash {
	return bc.BestBlock().Hash()
}

// Size returns the length of the canonical chain, genesis included.
func (bc *Blockchain) Size() uint64 {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.size()
}

// TotalDifficulty returns the accumulated difficulty of the canonical
// chain.
func (bc *Blockchain) TotalDifficulty() *big.Int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return new(big.Int).Set(bc.totalDifficulty)
}

// SetTotalDifficulty overrides the difficulty accumulator. Used when the
// head is restored from storage.
func (bc *Blockchain) SetTotalDifficulty(td *big.Int) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.totalDifficulty = new(big.Int).Set(td)
}

// GasPrice returns the price to advertise to wallets: the genesis minimum
// while the chain is at genesis, the protocol initial minimum afterwards.
func (bc *Blockchain) GasPrice() *big.Int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.bestBlock.IsGenesis() {
		return bc.bestBlock.MinGasPrice()
	}
	return new(big.Int).Set(InitialMinGasPrice)
}

// GetBlockByHash returns a stored block, or nil.
func (bc *Blockchain) GetBlockByHash(hash types.Hash) *types.Block {
	return bc.store.GetByHash(hash)
}

// GetBlockByNumber returns the stored block with the given number, or nil.
func (bc *Blockchain) GetBlockByNumber(number uint64) *types.Block {
	return bc.store.GetByNumber(number)
}

// ListHashesStartFrom walks stored parent links from the given hash.
func (bc *Blockchain) ListHashesStartFrom(hash types.Hash, qty int) []types.Hash {
	return bc.store.ListHashesStartFrom(hash, qty)
}

// Genesis returns the genesis block.
func (bc *Blockchain) Genesis() *types.Block { return bc.genesis }

// AltChains returns the live alt chains.
func (bc *Blockchain) AltChains() []*Chain {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	chains := make([]*Chain, 0, len(bc.altChains))
	for _, c := range bc.altChains {
		chains = append(chains, c)
	}
	return chains
}

// Garbage returns the buffered orphan blocks.
func (bc *Blockchain) Garbage() []*types.Block {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return append([]*types.Block(nil), bc.garbage...)
}

// Queue returns the inbound block queue.
func (bc *Blockchain) Queue() BlockQueue { return bc.queue }

// Reset drops the block store, the alt chains and the orphan buffer.
func (bc *Blockchain) Reset() error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.altChains = make(map[types.Hash]*Chain)
	bc.garbage = nil
	return bc.store.Reset()
}

// Close shuts the inbound queue.
func (bc *Blockchain) Close() {
	bc.queue.Close()
}

package core

import (
	"fmt"
	"time"

	"github.com/ethercore/ethercore/core/rawdb"
	"github.com/ethercore/ethercore/core/types"
	"github.com/ethercore/ethercore/log"
)

// uncleMaxGeneration bounds how far back an uncle's parent may sit below
// the including block; uncleMaxDepth bounds the uncle itself.
const (
	uncleMinGeneration uint64 = 2
	uncleMaxGeneration uint64 = 7
	uncleMinDepth      uint64 = 1
	uncleMaxDepth      uint64 = 6
)

// HeaderValidator checks headers and uncle lists against consensus rules.
// Parents are resolved through the block store.
type HeaderValidator struct {
	store  rawdb.BlockStore
	pow    PowVerifier
	now    func() time.Time
	logger *log.Logger
}

// NewHeaderValidator creates a validator resolving parents in store and
// delegating proof-of-work checks to pow.
func NewHeaderValidator(store rawdb.BlockStore, pow PowVerifier) *HeaderValidator {
	if pow == nil {
		pow = acceptAllPow{}
	}
	return &HeaderValidator{
		store:  store,
		pow:    pow,
		now:    time.Now,
		logger: log.Default().Module("blockchain"),
	}
}

// ValidateHeader checks a single non-genesis header: difficulty follows
// the adjustment rule, the gas limit follows the parent, the timestamp
// sits strictly between the parent's and the future bound, extra data fits
// and the proof of work verifies. Every rule is evaluated against the
// resolved parent; there is no early accept.
func (v *HeaderValidator) ValidateHeader(h *types.Header) error {
	parentBlock := v.store.GetByHash(h.ParentHash)
	if parentBlock == nil {
		return fmt.Errorf("%w: %s", ErrUnknownParent, h.ParentHash)
	}
	parent := parentBlock.Header()

	if h.Number != parent.Number+1 {
		return fmt.Errorf("%w: have %d, parent %d", ErrInvalidNumber, h.Number, parent.Number)
	}
	expectedDiff := CalcDifficulty(parent, h.Time)
	if h.Difficulty == nil || h.Difficulty.Cmp(expectedDiff) != 0 {
		return fmt.Errorf("%w: have %v, want %v", ErrInvalidDifficulty, h.Difficulty, expectedDiff)
	}
	if want := CalcGasLimit(parent); h.GasLimit != want {
		return fmt.Errorf("%w: have %d, want %d", ErrInvalidGasLimit, h.GasLimit, want)
	}
	if h.Time <= parent.Time {
		return fmt.Errorf("%w: child %d <= parent %d", ErrInvalidTimestamp, h.Time, parent.Time)
	}
	if limit := uint64(v.now().Unix()) + FutureBlockBound; h.Time >= limit {
		return fmt.Errorf("%w: %d >= %d", ErrFutureBlock, h.Time, limit)
	}
	if len(h.Extra) > MaxExtraDataSize {
		return fmt.Errorf("%w: %d > %d", ErrExtraDataTooLong, len(h.Extra), MaxExtraDataSize)
	}
	if !v.pow.Verify(h) {
		return ErrInvalidPoW
	}
	return nil
}

// ValidateBlock checks the block header and each uncle. Genesis is valid
// by definition.
func (v *HeaderValidator) ValidateBlock(b *types.Block) error {
	if b.IsGenesis() {
		return nil
	}
	header := b.Header()
	if err := v.ValidateHeader(header); err != nil {
		return err
	}
	for _, uncle := range b.Uncles() {
		if err := v.validateUncle(b, uncle); err != nil {
			return err
		}
	}
	return nil
}

// validateUncle checks one uncle header: it passes the header rules on its
// own, its parent is a 2nd..7th generation ancestor, the uncle itself lies
// 1..6 blocks back, and no canonical ancestor in that window already
// references it.
func (v *HeaderValidator) validateUncle(b *types.Block, uncle *types.Header) error {
	if err := v.ValidateHeader(uncle); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUncle, err)
	}

	uncleParent := v.store.GetByHash(uncle.ParentHash)
	generation := b.Number() - uncleParent.Number()
	if generation < uncleMinGeneration || generation > uncleMaxGeneration {
		return fmt.Errorf("%w: parent generation %d", ErrUncleGeneration, generation)
	}
	depth := b.Number() - uncle.Number
	if depth < uncleMinDepth || depth > uncleMaxDepth {
		return fmt.Errorf("%w: uncle depth %d", ErrUncleGeneration, depth)
	}

	uncleHash := uncle.Hash()
	ancestor := v.store.GetByHash(b.ParentHash())
	for i := uint64(0); i < uncleMaxDepth && ancestor != nil; i++ {
		for _, known := range ancestor.Uncles() {
			if known.Hash() == uncleHash {
				return fmt.Errorf("%w: %s in block %d", ErrDuplicateUncle, uncleHash, ancestor.Number())
			}
		}
		if ancestor.IsGenesis() {
			break
		}
		ancestor = v.store.GetByHash(ancestor.ParentHash())
	}
	return nil
}

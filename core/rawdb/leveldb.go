package rawdb

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"

	"github.com/ethercore/ethercore/core/types"
	"github.com/ethercore/ethercore/log"
)

// LevelStore is a goleveldb-backed BlockStore. Blocks are kept RLP-encoded
// under their hash with a number-to-hash index alongside.
type LevelStore struct {
	db     *leveldb.DB
	logger *log.Logger
}

// NewLevelStore opens (or creates) a leveldb block store at path. A
// corrupted database is recovered in place.
func NewLevelStore(path string) (*LevelStore, error) {
	logger := log.Default().Module("store")

	db, err := leveldb.OpenFile(path, nil)
	if _, corrupted := err.(*ldberrors.ErrCorrupted); corrupted {
		logger.Warn("block store corrupted, recovering", "path", path, "err", err)
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open block store %s", path)
	}
	return &LevelStore{db: db, logger: logger}, nil
}

// GetByHash returns the block with the given hash, or nil.
func (s *LevelStore) GetByHash(hash types.Hash) *types.Block {
	data, err := s.db.Get(blockKey(hash), nil)
	if err != nil {
		if !errors.Is(err, leveldb.ErrNotFound) {
			s.logger.Error("block read failed", "hash", hash, "err", err)
		}
		return nil
	}
	block := new(types.Block)
	if err := rlp.DecodeBytes(data, block); err != nil {
		s.logger.Error("block decode failed", "hash", hash, "err", err)
		return nil
	}
	return block
}

// GetByNumber returns the block saved under the given number, or nil.
func (s *LevelStore) GetByNumber(number uint64) *types.Block {
	data, err := s.db.Get(numberKey(number), nil)
	if err != nil {
		if !errors.Is(err, leveldb.ErrNotFound) {
			s.logger.Error("number index read failed", "number", number, "err", err)
		}
		return nil
	}
	return s.GetByHash(types.BytesToHash(data))
}

// ListHashesStartFrom walks parent links from the given block.
func (s *LevelStore) ListHashesStartFrom(hash types.Hash, qty int) []types.Hash {
	var hashes []types.Hash
	for len(hashes) < qty {
		block := s.GetByHash(hash)
		if block == nil {
			break
		}
		hashes = append(hashes, hash)
		if block.IsGenesis() {
			break
		}
		hash = block.ParentHash()
	}
	return hashes
}

// SaveBlock stores the block under its hash and number in one batch.
func (s *LevelStore) SaveBlock(block *types.Block) error {
	enc, err := rlp.EncodeToBytes(block)
	if err != nil {
		return errors.Wrap(err, "encode block")
	}
	hash := block.Hash()
	batch := new(leveldb.Batch)
	batch.Put(blockKey(hash), enc)
	batch.Put(numberKey(block.Number()), hash.Bytes())
	return errors.Wrapf(s.db.Write(batch, nil), "save block %d", block.Number())
}

// Reset drops every stored block.
func (s *LevelStore) Reset() error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return errors.Wrap(err, "reset scan")
	}
	return errors.Wrap(s.db.Write(batch, nil), "reset block store")
}

// Close closes the underlying database.
func (s *LevelStore) Close() error {
	return errors.Wrap(s.db.Close(), "close block store")
}

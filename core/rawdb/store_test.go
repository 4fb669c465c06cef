package rawdb

import (
	"math/big"
	"testing"

	"github.com/ethercore/ethercore/core/types"
)

func makeChain(n int) []*types.Block {
	blocks := make([]*types.Block, 0, n)
	parent := types.Hash{}
	for i := 0; i < n; i++ {
		header := &types.Header{
			ParentHash: parent,
			UnclesHash: types.EmptyListHash,
			Difficulty: big.NewInt(131072),
			Number:     uint64(i),
			GasLimit:   1000000,
			Time:       uint64(i) * 10,
		}
		var txs []*types.Transaction
		if i > 0 {
			txs = []*types.Transaction{
				types.NewTransaction([]byte{byte(i)}, types.HexToAddress("0x05"),
					big.NewInt(1), big.NewInt(1), big.NewInt(21000), nil),
			}
		}
		b := types.NewBlock(header, txs, nil)
		blocks = append(blocks, b)
		parent = b.Hash()
	}
	return blocks
}

func fillStore(t *testing.T, s BlockStore, blocks []*types.Block) {
	t.Helper()
	for _, b := range blocks {
		if err := s.SaveBlock(b); err != nil {
			t.Fatalf("save block %d: %v", b.Number(), err)
		}
	}
}

func testStoreContract(t *testing.T, s BlockStore) {
	blocks := makeChain(4)
	fillStore(t, s, blocks)

	for _, b := range blocks {
		got := s.GetByHash(b.Hash())
		if got == nil || got.Hash() != b.Hash() {
			t.Fatalf("lookup by hash lost block %d", b.Number())
		}
		got = s.GetByNumber(b.Number())
		if got == nil || got.Hash() != b.Hash() {
			t.Fatalf("lookup by number lost block %d", b.Number())
		}
	}
	if s.GetByHash(types.HexToHash("0xdead")) != nil {
		t.Fatal("unknown hash returned a block")
	}
	if s.GetByNumber(99) != nil {
		t.Fatal("unknown number returned a block")
	}

	// Walks parent links from the tip, inclusive, and stops at genesis.
	hashes := s.ListHashesStartFrom(blocks[3].Hash(), 10)
	if len(hashes) != 4 {
		t.Fatalf("hash walk length: got %d, want 4", len(hashes))
	}
	for i, h := range hashes {
		if h != blocks[3-i].Hash() {
			t.Fatalf("hash walk order broken at %d", i)
		}
	}
	if got := s.ListHashesStartFrom(blocks[3].Hash(), 2); len(got) != 2 {
		t.Fatalf("hash walk qty cap: got %d, want 2", len(got))
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.GetByHash(blocks[0].Hash()) != nil || s.GetByNumber(0) != nil {
		t.Fatal("reset kept blocks")
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestLevelStore(t *testing.T) {
	s, err := NewLevelStore(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	testStoreContract(t, s)
}

func TestLevelStore_RoundTripBody(t *testing.T) {
	s, err := NewLevelStore(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	creation := types.NewContractCreation([]byte{0x01}, nil, big.NewInt(3), big.NewInt(50000), []byte{0x60, 0x01})
	header := &types.Header{
		ParentHash: types.HexToHash("0x01"),
		UnclesHash: types.EmptyListHash,
		Difficulty: big.NewInt(131072),
		Number:     7,
		GasLimit:   1000000,
		Time:       70,
	}
	b := types.NewBlock(header, []*types.Transaction{creation}, nil)
	if err := s.SaveBlock(b); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.GetByHash(b.Hash())
	if got == nil {
		t.Fatal("block lost")
	}
	txs := got.Transactions()
	if len(txs) != 1 || !txs[0].IsContractCreation() {
		t.Fatal("creation transaction lost its shape")
	}
	if txs[0].GasLimit().Cmp(big.NewInt(50000)) != 0 {
		t.Fatalf("gas limit lost: %v", txs[0].GasLimit())
	}
}

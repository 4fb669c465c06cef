package types

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
)

func makeHeader(number uint64, parent Hash) *Header {
	return &Header{
		ParentHash: parent,
		UnclesHash: EmptyListHash,
		Difficulty: big.NewInt(131072),
		Number:     number,
		GasLimit:   1000000,
		Time:       number * 10,
	}
}

func TestHeaderHash_DeterministicAndCached(t *testing.T) {
	h := makeHeader(1, HexToHash("0xaa"))
	first := h.Hash()
	if first != h.Hash() {
		t.Fatal("hash not stable across calls")
	}

	cpy := CopyHeader(h)
	if cpy.Hash() != first {
		t.Fatal("copy hashes differently")
	}

	cpy2 := CopyHeader(h)
	cpy2.Extra = []byte("x")
	if cpy2.Hash() == first {
		t.Fatal("extra data did not change the hash")
	}
}

func TestBlock_Genesis(t *testing.T) {
	g := NewBlock(makeHeader(0, Hash{}), nil, nil)
	if !g.IsGenesis() {
		t.Fatal("number 0 with zero parent should be genesis")
	}
	child := NewBlock(makeHeader(1, g.Hash()), nil, nil)
	if child.IsGenesis() {
		t.Fatal("child mistaken for genesis")
	}
	if !g.IsParentOf(child) {
		t.Fatal("parent link not recognized")
	}
}

func TestBlock_CumulativeDifficulty(t *testing.T) {
	header := makeHeader(5, HexToHash("0x01"))
	uncle1 := makeHeader(4, HexToHash("0x02"))
	uncle2 := makeHeader(3, HexToHash("0x03"))
	uncle2.Difficulty = big.NewInt(100)

	b := NewBlock(header, nil, []*Header{uncle1, uncle2})
	want := big.NewInt(131072 + 131072 + 100)
	if got := b.CumulativeDifficulty(); got.Cmp(want) != 0 {
		t.Fatalf("cumulative difficulty: got %v, want %v", got, want)
	}
}

func TestTransaction_Classification(t *testing.T) {
	to := HexToAddress("0x01")
	call := NewTransaction(nil, to, big.NewInt(1), big.NewInt(1), big.NewInt(21000), nil)
	if call.IsContractCreation() {
		t.Fatal("call classified as creation")
	}
	if got := call.To(); got == nil || *got != to {
		t.Fatalf("receive address: %v", got)
	}

	create := NewContractCreation(nil, nil, big.NewInt(1), big.NewInt(21000), []byte{0x60})
	if !create.IsContractCreation() {
		t.Fatal("creation not classified")
	}
	if create.To() != nil {
		t.Fatal("creation has a receive address")
	}
	if create.Value() != nil {
		t.Fatal("absent value should stay absent")
	}
}

func TestTransaction_NonceBig(t *testing.T) {
	tx := NewTransaction([]byte{0x01, 0x00}, Address{}, nil, nil, nil, nil)
	if got := tx.NonceBig(); got.Cmp(big.NewInt(256)) != 0 {
		t.Fatalf("nonce: got %v, want 256", got)
	}
	empty := NewTransaction(nil, Address{}, nil, nil, nil, nil)
	if empty.NonceBig().Sign() != 0 {
		t.Fatal("empty nonce should read as zero")
	}
}

func TestTransaction_AccessorsCopy(t *testing.T) {
	tx := NewTransaction(nil, Address{}, big.NewInt(5), big.NewInt(2), big.NewInt(100), []byte{1, 2, 3})

	data := tx.Data()
	data[0] = 0xff
	if tx.Data()[0] != 1 {
		t.Fatal("mutating returned data leaked into the transaction")
	}

	v := tx.Value()
	v.SetInt64(99)
	if tx.Value().Cmp(big.NewInt(5)) != 0 {
		t.Fatal("mutating returned value leaked into the transaction")
	}
}

func TestTransaction_SenderCache(t *testing.T) {
	tx := NewTransaction(nil, Address{}, nil, nil, nil, nil)
	if tx.Sender() != nil {
		t.Fatal("unresolved sender should be nil")
	}
	addr := HexToAddress("0xabc")
	tx.SetSender(addr)
	if got := tx.Sender(); got == nil || *got != addr {
		t.Fatalf("cached sender: %v", got)
	}
}

func TestBlockRLP_RoundTrip(t *testing.T) {
	to := HexToAddress("0x05")
	txs := []*Transaction{
		NewTransaction([]byte{0x01}, to, big.NewInt(7), big.NewInt(1), big.NewInt(21000), []byte{0xde, 0xad}),
		NewContractCreation(nil, nil, big.NewInt(1), big.NewInt(50000), []byte{0x60, 0x00}),
	}
	uncle := makeHeader(3, HexToHash("0x02"))
	b := NewBlock(makeHeader(4, HexToHash("0x01")), txs, []*Header{uncle})

	enc, err := rlp.EncodeToBytes(b)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec := new(Block)
	if err := rlp.DecodeBytes(enc, dec); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if dec.Hash() != b.Hash() {
		t.Fatalf("hash changed across encode: %v vs %v", dec.Hash(), b.Hash())
	}
	if len(dec.Transactions()) != 2 || len(dec.Uncles()) != 1 {
		t.Fatalf("body lost: %d txs, %d uncles", len(dec.Transactions()), len(dec.Uncles()))
	}
	if dec.Transactions()[1].To() != nil {
		t.Fatal("creation lost its absent receive address")
	}
	if !bytes.Equal(dec.Transactions()[0].Data(), []byte{0xde, 0xad}) {
		t.Fatal("transaction data lost")
	}
}

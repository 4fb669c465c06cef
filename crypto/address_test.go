package crypto

import (
	"testing"

	"github.com/ethercore/ethercore/core/types"
)

func TestKeccak256_EmptyInput(t *testing.T) {
	// keccak256("") is a protocol constant: the empty code hash.
	if got := Keccak256Hash(); got != types.EmptyCodeHash {
		t.Fatalf("keccak256 of empty input: %v", got)
	}
}

func TestKeccak256_Concatenates(t *testing.T) {
	joined := Keccak256([]byte("ab"), []byte("cd"))
	whole := Keccak256([]byte("abcd"))
	if string(joined) != string(whole) {
		t.Fatal("multi-slice input must hash as the concatenation")
	}
}

func TestCreateAddress_Deterministic(t *testing.T) {
	sender := types.HexToAddress("0x0101010101010101010101010101010101010101")

	a1 := CreateAddress(sender, nil)
	a2 := CreateAddress(sender, nil)
	if a1 != a2 {
		t.Fatal("same sender and nonce must derive the same address")
	}
	if a1.IsZero() {
		t.Fatal("derived address is zero")
	}
}

func TestCreateAddress_VariesWithInputs(t *testing.T) {
	sender := types.HexToAddress("0x0101010101010101010101010101010101010101")
	other := types.HexToAddress("0x0202020202020202020202020202020202020202")

	base := CreateAddress(sender, nil)
	if CreateAddress(sender, []byte{0x01}) == base {
		t.Fatal("nonce must influence the derived address")
	}
	if CreateAddress(other, nil) == base {
		t.Fatal("sender must influence the derived address")
	}
}

func TestCachedSender_Resolve(t *testing.T) {
	tx := types.NewTransaction(nil, types.Address{}, nil, nil, nil, nil)

	var r CachedSender
	if _, ok := r.Resolve(tx); ok {
		t.Fatal("unresolved transaction reported a sender")
	}

	want := types.HexToAddress("0x0303030303030303030303030303030303030303")
	tx.SetSender(want)
	got, ok := r.Resolve(tx)
	if !ok || got != want {
		t.Fatalf("cached sender: %v, ok %v", got, ok)
	}
}

package state

import (
	"math/big"
	"testing"

	"github.com/ethercore/ethercore/core/types"
)

var (
	addrA = types.HexToAddress("0x1111111111111111111111111111111111111111")
	addrB = types.HexToAddress("0x2222222222222222222222222222222222222222")
	keyK  = types.HexToHash("0x01")
	valV  = types.HexToHash("0x02")
)

func TestWorldState_CreateAndCredit(t *testing.T) {
	w := NewWorldState()

	if w.GetAccount(addrA) != nil {
		t.Fatal("fresh world should have no accounts")
	}
	w.CreateAccount(addrA)
	acct := w.GetAccount(addrA)
	if acct == nil {
		t.Fatal("account not created")
	}
	if acct.Balance.Sign() != 0 || acct.Nonce.Sign() != 0 {
		t.Fatalf("fresh account not zero: balance %v nonce %v", acct.Balance, acct.Nonce)
	}

	// Credit creates the account for an unseen address.
	w.AddBalance(addrB, big.NewInt(42))
	if got := w.GetAccount(addrB).Balance; got.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("balance: got %v, want 42", got)
	}
}

func TestWorldState_GetAccountReturnsCopy(t *testing.T) {
	w := NewWorldState()
	w.AddBalance(addrA, big.NewInt(10))

	acct := w.GetAccount(addrA)
	acct.Balance.SetInt64(999)

	if got := w.GetAccount(addrA).Balance; got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("mutating the copy leaked into state: %v", got)
	}
}

func TestWorldState_NonceAndCode(t *testing.T) {
	w := NewWorldState()

	if got := w.IncreaseNonce(addrA); got.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("nonce after first bump: %v", got)
	}
	if got := w.IncreaseNonce(addrA); got.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("nonce after second bump: %v", got)
	}

	code := []byte{0x60, 0x01}
	w.SaveCode(addrA, code)
	if got := w.GetCode(addrA); string(got) != string(code) {
		t.Fatalf("code: got %x", got)
	}
	if string(w.GetAccount(addrA).CodeHash) == string(types.EmptyCodeHash.Bytes()) {
		t.Fatal("code hash not updated")
	}
}

func TestTracked_WritesInvisibleUntilCommit(t *testing.T) {
	w := NewWorldState()
	w.AddBalance(addrA, big.NewInt(100))

	track := w.StartTracking()
	track.AddBalance(addrA, big.NewInt(50))
	track.AddBalance(addrB, big.NewInt(7))

	// The child sees its own writes over the parent.
	if got := track.GetAccount(addrA).Balance; got.Cmp(big.NewInt(150)) != 0 {
		t.Fatalf("child read: got %v, want 150", got)
	}
	// The parent sees nothing yet.
	if got := w.GetAccount(addrA).Balance; got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("parent leaked: got %v, want 100", got)
	}
	if w.GetAccount(addrB) != nil {
		t.Fatal("parent leaked account creation")
	}

	track.Commit()
	if got := w.GetAccount(addrA).Balance; got.Cmp(big.NewInt(150)) != 0 {
		t.Fatalf("commit lost: got %v, want 150", got)
	}
	if got := w.GetAccount(addrB).Balance; got.Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("commit lost new account: got %v", got)
	}
}

func TestTracked_RollbackDiscards(t *testing.T) {
	w := NewWorldState()
	w.AddBalance(addrA, big.NewInt(100))
	w.PutStorageWord(addrA, keyK, valV)
	before := w.Root()

	track := w.StartTracking()
	track.AddBalance(addrA, big.NewInt(-60))
	track.PutStorageWord(addrA, keyK, types.HexToHash("0xff"))
	track.Delete(addrB)
	track.Rollback()

	if got := w.GetAccount(addrA).Balance; got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("rollback leaked balance: %v", got)
	}
	if got := w.GetStorageWord(addrA, keyK); got != valV {
		t.Fatalf("rollback leaked storage: %v", got)
	}
	if after := w.Root(); after != before {
		t.Fatalf("rollback changed root: %v -> %v", before, after)
	}
}

func TestTracked_NestedCommitFolds(t *testing.T) {
	w := NewWorldState()
	w.AddBalance(addrA, big.NewInt(1))

	child := w.StartTracking()
	grand := child.StartTracking()
	grand.AddBalance(addrA, big.NewInt(10))
	grand.PutStorageWord(addrA, keyK, valV)

	// Reads fall through two levels.
	if got := grand.GetAccount(addrA).Balance; got.Cmp(big.NewInt(11)) != 0 {
		t.Fatalf("grandchild read: %v", got)
	}

	grand.Commit()
	if got := child.GetAccount(addrA).Balance; got.Cmp(big.NewInt(11)) != 0 {
		t.Fatalf("fold into child lost: %v", got)
	}
	if w.GetAccount(addrA).Balance.Cmp(big.NewInt(1)) != 0 {
		t.Fatal("grandchild commit skipped a level")
	}

	child.Commit()
	if got := w.GetAccount(addrA).Balance; got.Cmp(big.NewInt(11)) != 0 {
		t.Fatalf("fold into world lost: %v", got)
	}
	if got := w.GetStorageWord(addrA, keyK); got != valV {
		t.Fatalf("storage fold lost: %v", got)
	}
}

func TestTracked_NestedRollbackDropsInnerCommit(t *testing.T) {
	w := NewWorldState()

	child := w.StartTracking()
	grand := child.StartTracking()
	grand.AddBalance(addrA, big.NewInt(5))
	grand.Commit()
	child.Rollback()

	if w.GetAccount(addrA) != nil {
		t.Fatal("outer rollback should discard inner commit")
	}
}

func TestTracked_DeleteTombstone(t *testing.T) {
	w := NewWorldState()
	w.AddBalance(addrA, big.NewInt(9))
	w.SaveCode(addrA, []byte{0x01})

	track := w.StartTracking()
	track.Delete(addrA)

	if track.GetAccount(addrA) != nil {
		t.Fatal("deleted account visible in child")
	}
	if track.GetCode(addrA) != nil {
		t.Fatal("deleted account code visible in child")
	}
	if w.GetAccount(addrA) == nil {
		t.Fatal("delete leaked to parent before commit")
	}

	track.Commit()
	if w.GetAccount(addrA) != nil {
		t.Fatal("delete not folded on commit")
	}
}

func TestTracked_CodeReadThrough(t *testing.T) {
	w := NewWorldState()
	w.SaveCode(addrA, []byte{0xaa})

	track := w.StartTracking()
	if got := track.GetCode(addrA); string(got) != "\xaa" {
		t.Fatalf("read-through code: %x", got)
	}
	track.SaveCode(addrA, []byte{0xbb})
	if got := track.GetCode(addrA); string(got) != "\xbb" {
		t.Fatalf("overlay code: %x", got)
	}
	if got := w.GetCode(addrA); string(got) != "\xaa" {
		t.Fatalf("overlay code leaked: %x", got)
	}
}

func TestRoot_DeterministicAndSensitive(t *testing.T) {
	w1 := NewWorldState()
	w2 := NewWorldState()
	if w1.Root() != w2.Root() {
		t.Fatal("empty worlds disagree on root")
	}

	w1.AddBalance(addrA, big.NewInt(5))
	w2.AddBalance(addrA, big.NewInt(5))
	if w1.Root() != w2.Root() {
		t.Fatal("equal states disagree on root")
	}

	w2.AddBalance(addrA, big.NewInt(1))
	if w1.Root() == w2.Root() {
		t.Fatal("different states share a root")
	}

	// Storage contributes to the root.
	r := w1.Root()
	w1.PutStorageWord(addrA, keyK, valV)
	if w1.Root() == r {
		t.Fatal("storage write did not move the root")
	}
}

func TestTracked_RootReflectsOverlay(t *testing.T) {
	w := NewWorldState()
	w.AddBalance(addrA, big.NewInt(5))
	parentRoot := w.Root()

	track := w.StartTracking()
	track.AddBalance(addrA, big.NewInt(1))

	if track.Root() == parentRoot {
		t.Fatal("overlay root equals parent root despite pending write")
	}
	if w.Root() != parentRoot {
		t.Fatal("computing the overlay root mutated the parent")
	}

	track.Commit()
	w.Sync()
	if w.Root() == parentRoot {
		t.Fatal("commit did not move the parent root")
	}
}

func TestWorldState_CloseDropsState(t *testing.T) {
	w := NewWorldState()
	w.AddBalance(addrA, big.NewInt(5))
	w.Close()
	if w.GetAccount(addrA) != nil {
		t.Fatal("close kept accounts")
	}
}

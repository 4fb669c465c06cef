package state

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ethercore/ethercore/core/types"
	"github.com/ethercore/ethercore/crypto"
)

// worldAccount is an account together with its code and storage words.
type worldAccount struct {
	account *types.Account
	code    []byte
	storage map[types.Hash]types.Hash
}

func newWorldAccount() *worldAccount {
	return &worldAccount{
		account: types.NewAccount(),
		storage: make(map[types.Hash]types.Hash),
	}
}

// backing is the internal face a tracked overlay folds into: every
// Repository in a tracking chain implements it.
type backing interface {
	Repository
	applyEntry(addr types.Address, e *overlayEntry)
	flatten() map[types.Address]*worldAccount
}

// WorldState is the authoritative in-memory account store.
type WorldState struct {
	accounts map[types.Address]*worldAccount
	root     types.Hash
	dirty    bool
}

// NewWorldState creates an empty world state.
func NewWorldState() *WorldState {
	w := &WorldState{accounts: make(map[types.Address]*worldAccount)}
	w.root = computeRoot(w.accounts)
	return w
}

// GetAccount returns a copy of the account, or nil.
func (w *WorldState) GetAccount(addr types.Address) *types.Account {
	if wa, ok := w.accounts[addr]; ok {
		return wa.account.Copy()
	}
	return nil
}

// CreateAccount binds a fresh zero account to the address.
func (w *WorldState) CreateAccount(addr types.Address) *types.Account {
	wa := newWorldAccount()
	w.accounts[addr] = wa
	w.dirty = true
	return wa.account.Copy()
}

// AddBalance applies a signed delta, creating the account on first credit.
func (w *WorldState) AddBalance(addr types.Address, delta *big.Int) *big.Int {
	wa, ok := w.accounts[addr]
	if !ok {
		wa = newWorldAccount()
		w.accounts[addr] = wa
	}
	wa.account.Balance.Add(wa.account.Balance, delta)
	w.dirty = true
	return new(big.Int).Set(wa.account.Balance)
}

// IncreaseNonce bumps the account nonce by one.
func (w *WorldState) IncreaseNonce(addr types.Address) *big.Int {
	wa, ok := w.accounts[addr]
	if !ok {
		wa = newWorldAccount()
		w.accounts[addr] = wa
	}
	wa.account.Nonce.Add(wa.account.Nonce, big.NewInt(1))
	w.dirty = true
	return new(big.Int).Set(wa.account.Nonce)
}

// GetCode returns the code bound to the address, or nil.
func (w *WorldState) GetCode(addr types.Address) []byte {
	if wa, ok := w.accounts[addr]; ok && len(wa.code) > 0 {
		return append([]byte(nil), wa.code...)
	}
	return nil
}

// SaveCode binds code to the address under its keccak hash.
func (w *WorldState) SaveCode(addr types.Address, code []byte) {
	wa, ok := w.accounts[addr]
	if !ok {
		wa = newWorldAccount()
		w.accounts[addr] = wa
	}
	wa.code = append([]byte(nil), code...)
	wa.account.CodeHash = crypto.Keccak256(code)
	w.dirty = true
}

// GetStorageWord reads a storage word, zero when absent.
func (w *WorldState) GetStorageWord(addr types.Address, key types.Hash) types.Hash {
	if wa, ok := w.accounts[addr]; ok {
		return wa.storage[key]
	}
	return types.Hash{}
}

// PutStorageWord writes a storage word, creating the account if needed.
func (w *WorldState) PutStorageWord(addr types.Address, key, value types.Hash) {
	wa, ok := w.accounts[addr]
	if !ok {
		wa = newWorldAccount()
		w.accounts[addr] = wa
	}
	wa.storage[key] = value
	w.dirty = true
}

// Delete removes the account entirely.
func (w *WorldState) Delete(addr types.Address) {
	delete(w.accounts, addr)
	w.dirty = true
}

// Root returns the world-state root, recomputing it if state changed.
func (w *WorldState) Root() types.Hash {
	if w.dirty {
		w.root = computeRoot(w.accounts)
		w.dirty = false
	}
	return w.root
}

// Sync recomputes the world-state root.
func (w *WorldState) Sync() {
	w.root = computeRoot(w.accounts)
	w.dirty = false
}

// StartTracking opens a tracked child over the world state.
func (w *WorldState) StartTracking() Repository {
	return newTracked(w)
}

// Commit is a no-op on the authoritative state.
func (w *WorldState) Commit() {}

// Rollback is a no-op on the authoritative state.
func (w *WorldState) Rollback() {}

// Close drops all accounts.
func (w *WorldState) Close() {
	w.accounts = make(map[types.Address]*worldAccount)
	w.dirty = true
}

func (w *WorldState) applyEntry(addr types.Address, e *overlayEntry) {
	if e.deleted {
		w.Delete(addr)
		return
	}
	wa, ok := w.accounts[addr]
	if !ok {
		wa = newWorldAccount()
		w.accounts[addr] = wa
	}
	wa.account = e.account.Copy()
	if e.codeSet {
		wa.code = append([]byte(nil), e.code...)
	}
	for k, v := range e.storage {
		wa.storage[k] = v
	}
	w.dirty = true
}

func (w *WorldState) flatten() map[types.Address]*worldAccount {
	return w.accounts
}

// rlpAccount is the serialized account form the root digests.
type rlpAccount struct {
	Nonce       *big.Int
	Balance     *big.Int
	StorageRoot types.Hash
	CodeHash    []byte
}

// computeRoot digests the full account set deterministically: accounts in
// address order, each with a storage root over its words in key order. It
// stands in for the external trie while honoring its contract.
func computeRoot(accounts map[types.Address]*worldAccount) types.Hash {
	addrs := make([]types.Address, 0, len(accounts))
	for a := range accounts {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return string(addrs[i][:]) < string(addrs[j][:])
	})

	type item struct {
		Addr    types.Address
		Account []byte
	}
	items := make([]item, 0, len(addrs))
	for _, a := range addrs {
		wa := accounts[a]
		enc, _ := rlp.EncodeToBytes(&rlpAccount{
			Nonce:       wa.account.Nonce,
			Balance:     wa.account.Balance,
			StorageRoot: storageRoot(wa.storage),
			CodeHash:    wa.account.CodeHash,
		})
		items = append(items, item{Addr: a, Account: enc})
	}
	enc, _ := rlp.EncodeToBytes(items)
	return crypto.Keccak256Hash(enc)
}

func storageRoot(storage map[types.Hash]types.Hash) types.Hash {
	if len(storage) == 0 {
		return types.EmptyListHash
	}
	keys := make([]types.Hash, 0, len(storage))
	for k := range storage {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return string(keys[i][:]) < string(keys[j][:])
	})
	type word struct{ Key, Value types.Hash }
	words := make([]word, 0, len(keys))
	for _, k := range keys {
		words = append(words, word{Key: k, Value: storage[k]})
	}
	enc, _ := rlp.EncodeToBytes(words)
	return crypto.Keccak256Hash(enc)
}

package state

import (
	"math/big"

	"github.com/ethercore/ethercore/core/types"
	"github.com/ethercore/ethercore/crypto"
)

// overlayEntry buffers every pending change to one address inside a
// tracked view. deleted entries shadow the parent account entirely.
type overlayEntry struct {
	account *types.Account
	code    []byte
	codeSet bool
	storage map[types.Hash]types.Hash
	deleted bool
}

// tracked is a write-buffer over a parent repository. Reads consult the
// buffer first and fall through to the parent; writes never touch the
// parent until Commit folds them in. Tracked views nest arbitrarily.
type tracked struct {
	parent backing
	writes map[types.Address]*overlayEntry
}

func newTracked(parent backing) *tracked {
	return &tracked{
		parent: parent,
		writes: make(map[types.Address]*overlayEntry),
	}
}

// entry returns the overlay entry for the address, faulting the parent
// account in on first touch.
func (t *tracked) entry(addr types.Address) *overlayEntry {
	if e, ok := t.writes[addr]; ok {
		return e
	}
	e := &overlayEntry{storage: make(map[types.Hash]types.Hash)}
	if acct := t.parent.GetAccount(addr); acct != nil {
		e.account = acct
	}
	t.writes[addr] = e
	return e
}

func (t *tracked) GetAccount(addr types.Address) *types.Account {
	if e, ok := t.writes[addr]; ok {
		if e.deleted || e.account == nil {
			return nil
		}
		return e.account.Copy()
	}
	return t.parent.GetAccount(addr)
}

func (t *tracked) CreateAccount(addr types.Address) *types.Account {
	e := t.entry(addr)
	e.account = types.NewAccount()
	e.deleted = false
	return e.account.Copy()
}

func (t *tracked) AddBalance(addr types.Address, delta *big.Int) *big.Int {
	e := t.entry(addr)
	if e.deleted || e.account == nil {
		e.account = types.NewAccount()
		e.deleted = false
	}
	e.account.Balance.Add(e.account.Balance, delta)
	return new(big.Int).Set(e.account.Balance)
}

func (t *tracked) IncreaseNonce(addr types.Address) *big.Int {
	e := t.entry(addr)
	if e.deleted || e.account == nil {
		e.account = types.NewAccount()
		e.deleted = false
	}
	e.account.Nonce.Add(e.account.Nonce, big.NewInt(1))
	return new(big.Int).Set(e.account.Nonce)
}

func (t *tracked) GetCode(addr types.Address) []byte {
	if e, ok := t.writes[addr]; ok {
		if e.deleted {
			return nil
		}
		if e.codeSet {
			return append([]byte(nil), e.code...)
		}
	}
	return t.parent.GetCode(addr)
}

func (t *tracked) SaveCode(addr types.Address, code []byte) {
	e := t.entry(addr)
	if e.deleted || e.account == nil {
		e.account = types.NewAccount()
		e.deleted = false
	}
	e.code = append([]byte(nil), code...)
	e.codeSet = true
	e.account.CodeHash = crypto.Keccak256(code)
}

func (t *tracked) GetStorageWord(addr types.Address, key types.Hash) types.Hash {
	if e, ok := t.writes[addr]; ok {
		if e.deleted {
			return types.Hash{}
		}
		if v, ok := e.storage[key]; ok {
			return v
		}
	}
	return t.parent.GetStorageWord(addr, key)
}

func (t *tracked) PutStorageWord(addr types.Address, key, value types.Hash) {
	e := t.entry(addr)
	if e.deleted || e.account == nil {
		e.account = types.NewAccount()
		e.deleted = false
	}
	e.storage[key] = value
}

func (t *tracked) Delete(addr types.Address) {
	e := t.entry(addr)
	e.account = nil
	e.code = nil
	e.codeSet = true
	e.storage = make(map[types.Hash]types.Hash)
	e.deleted = true
}

// Root digests the merged view of parent and overlay.
func (t *tracked) Root() types.Hash {
	return computeRoot(t.flatten())
}

// Sync is a no-op on a tracked view; only the authoritative state flushes.
func (t *tracked) Sync() {}

func (t *tracked) StartTracking() Repository {
	return newTracked(t)
}

// Commit folds the buffered writes into the parent and clears the buffer.
func (t *tracked) Commit() {
	for addr, e := range t.writes {
		t.parent.applyEntry(addr, e)
	}
	t.writes = make(map[types.Address]*overlayEntry)
}

// Rollback discards the buffered writes.
func (t *tracked) Rollback() {
	t.writes = make(map[types.Address]*overlayEntry)
}

// Close is a no-op on a tracked view.
func (t *tracked) Close() {}

func (t *tracked) applyEntry(addr types.Address, e *overlayEntry) {
	if e.deleted {
		t.Delete(addr)
		return
	}
	own := t.entry(addr)
	if own.deleted || own.account == nil {
		own.storage = make(map[types.Hash]types.Hash)
		own.deleted = false
	}
	own.account = e.account.Copy()
	if e.codeSet {
		own.code = append([]byte(nil), e.code...)
		own.codeSet = true
	}
	for k, v := range e.storage {
		own.storage[k] = v
	}
}

func (t *tracked) flatten() map[types.Address]*worldAccount {
	base := t.parent.flatten()
	merged := make(map[types.Address]*worldAccount, len(base)+len(t.writes))
	for addr, wa := range base {
		merged[addr] = wa
	}
	for addr, e := range t.writes {
		if e.deleted || e.account == nil {
			if e.deleted {
				delete(merged, addr)
			}
			continue
		}
		wa := newWorldAccount()
		wa.account = e.account.Copy()
		if prev, ok := base[addr]; ok {
			if !e.codeSet {
				wa.code = prev.code
			}
			for k, v := range prev.storage {
				wa.storage[k] = v
			}
		}
		if e.codeSet {
			wa.code = e.code
		}
		for k, v := range e.storage {
			wa.storage[k] = v
		}
		merged[addr] = wa
	}
	return merged
}

package crypto

import "github.com/ethercore/ethercore/core/types"

// SenderResolver recovers the sender of a transaction. The ECDSA recovery
// primitive is external; implementations wrap it or, as the default does,
// read the address the wire layer already recovered and cached.
type SenderResolver interface {
	Resolve(tx *types.Transaction) (types.Address, bool)
}

// CachedSender resolves senders from the cache on the transaction itself.
type CachedSender struct{}

// Resolve returns the cached sender, or false when none was recorded.
func (CachedSender) Resolve(tx *types.Transaction) (types.Address, bool) {
	if s := tx.Sender(); s != nil {
		return *s, true
	}
	return types.Address{}, false
}

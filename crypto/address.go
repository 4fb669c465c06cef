package crypto

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ethercore/ethercore/core/types"
)

// CreateAddress derives the deterministic contract address for a creation
// transaction: the low 20 bytes of keccak256(RLP([sender, nonce])), with
// the nonce in the big-endian form it is signed over.
func CreateAddress(sender types.Address, nonce []byte) types.Address {
	enc, _ := rlp.EncodeToBytes([]interface{}{sender, nonce})
	return types.BytesToAddress(Keccak256(enc)[12:])
}

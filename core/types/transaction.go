package types

import (
	"io"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
)

// SignatureLength is the byte length of a compact signature: R || S || V.
const SignatureLength = 65

// Transaction is a single signed state-transition request. A transaction
// whose receive address is absent is a contract creation; otherwise it is a
// call (which degenerates to a pure value transfer when the receiver holds
// no code). The nonce is kept as the big-endian byte string it is signed
// over.
type Transaction struct {
	data txdata

	// Caches, not serialized.
	hash   atomic.Pointer[Hash]
	sender atomic.Pointer[Address]
}

type txdata struct {
	Nonce     []byte
	GasPrice  *big.Int
	GasLimit  *big.Int
	To        *Address `rlp:"nil"`
	Value     *big.Int `rlp:"nil"`
	Data      []byte
	Signature []byte
}

// NewTransaction creates a call transaction to the given address.
func NewTransaction(nonce []byte, to Address, value, gasPrice, gasLimit *big.Int, data []byte) *Transaction {
	return newTransaction(nonce, &to, value, gasPrice, gasLimit, data)
}

// NewContractCreation creates a contract-creation transaction whose data
// holds the init code.
func NewContractCreation(nonce []byte, value, gasPrice, gasLimit *big.Int, initCode []byte) *Transaction {
	return newTransaction(nonce, nil, value, gasPrice, gasLimit, initCode)
}

func newTransaction(nonce []byte, to *Address, value, gasPrice, gasLimit *big.Int, data []byte) *Transaction {
	d := txdata{
		Nonce:    append([]byte(nil), nonce...),
		GasPrice: new(big.Int),
		GasLimit: new(big.Int),
		Data:     append([]byte(nil), data...),
	}
	if to != nil {
		cpy := *to
		d.To = &cpy
	}
	if value != nil {
		d.Value = new(big.Int).Set(value)
	}
	if gasPrice != nil {
		d.GasPrice.Set(gasPrice)
	}
	if gasLimit != nil {
		d.GasLimit.Set(gasLimit)
	}
	return &Transaction{data: d}
}

// Nonce returns the big-endian nonce bytes.
func (tx *Transaction) Nonce() []byte { return append([]byte(nil), tx.data.Nonce...) }

// NonceBig interprets the nonce bytes as an unsigned big integer.
func (tx *Transaction) NonceBig() *big.Int {
	return new(big.Int).SetBytes(tx.data.Nonce)
}

// GasPrice returns the price per gas unit the sender offers.
func (tx *Transaction) GasPrice() *big.Int { return new(big.Int).Set(tx.data.GasPrice) }

// GasLimit returns the maximum gas the sender purchases.
func (tx *Transaction) GasLimit() *big.Int { return new(big.Int).Set(tx.data.GasLimit) }

// To returns the receive address, or nil for a contract creation.
func (tx *Transaction) To() *Address {
	if tx.data.To == nil {
		return nil
	}
	cpy := *tx.data.To
	return &cpy
}

// Value returns the transferred value, or nil when the transaction carries
// none.
func (tx *Transaction) Value() *big.Int {
	if tx.data.Value == nil {
		return nil
	}
	return new(big.Int).Set(tx.data.Value)
}

// Data returns the call data (init code for a creation).
func (tx *Transaction) Data() []byte { return append([]byte(nil), tx.data.Data...) }

// Signature returns the compact signature bytes.
func (tx *Transaction) Signature() []byte { return append([]byte(nil), tx.data.Signature...) }

// SetSignature attaches the compact signature. Invalidates the hash cache.
func (tx *Transaction) SetSignature(sig []byte) {
	tx.data.Signature = append([]byte(nil), sig...)
	tx.hash.Store(nil)
}

// IsContractCreation reports whether the receive address is absent.
func (tx *Transaction) IsContractCreation() bool { return tx.data.To == nil }

// Sender returns the cached sender address, or nil when it has not been
// resolved. Signature recovery itself is an external primitive; the wire
// layer resolves the sender once and caches it here.
func (tx *Transaction) Sender() *Address {
	return tx.sender.Load()
}

// SetSender caches the resolved sender address.
func (tx *Transaction) SetSender(addr Address) {
	tx.sender.Store(&addr)
}

// Hash returns the keccak256 hash of the RLP-encoded transaction, cached.
func (tx *Transaction) Hash() Hash {
	if cached := tx.hash.Load(); cached != nil {
		return *cached
	}
	h := rlpHash(&tx.data)
	tx.hash.Store(&h)
	return h
}

// EncodeRLP implements rlp.Encoder.
func (tx *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &tx.data)
}

// DecodeRLP implements rlp.Decoder.
func (tx *Transaction) DecodeRLP(s *rlp.Stream) error {
	return s.Decode(&tx.data)
}

// Package types defines the core data structures of the ethercore ledger:
// hashes, addresses, accounts, headers, blocks and transactions.
package types

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"
)

const (
	HashLength    = 32
	AddressLength = 20
	NonceLength   = 8
)

// Hash represents the 32-byte Keccak256 digest of data.
type Hash [HashLength]byte

// Address represents the 20-byte address of an account.
type Address [AddressLength]byte

// BlockNonce is the 8-byte proof-of-work nonce of a header.
type BlockNonce [NonceLength]byte

// BytesToHash converts bytes to Hash, left-padding if shorter than 32 bytes.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash converts a hex string to Hash.
func HexToHash(s string) Hash {
	return BytesToHash(fromHex(s))
}

// Bytes returns the byte representation of the hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the hex string representation of the hash.
func (h Hash) Hex() string { return fmt.Sprintf("0x%x", h[:]) }

// SetBytes sets the hash from a byte slice, left-padding if necessary.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// IsZero returns whether the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// BytesToAddress converts bytes to Address, left-padding if shorter than 20 bytes.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress converts a hex string to Address.
func HexToAddress(s string) Address {
	return BytesToAddress(fromHex(s))
}

// Bytes returns the byte representation of the address.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the hex string representation of the address.
func (a Address) Hex() string { return fmt.Sprintf("0x%x", a[:]) }

// SetBytes sets the address from a byte slice.
func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// IsZero returns whether the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// Account is the state of one address: nonce, balance, storage root and the
// hash of the contract code bound to it (EmptyCodeHash for plain accounts).
type Account struct {
	Nonce       *big.Int
	Balance     *big.Int
	StorageRoot Hash
	CodeHash    []byte
}

// NewAccount creates an account with zero nonce, zero balance and no code.
func NewAccount() *Account {
	return &Account{
		Nonce:    new(big.Int),
		Balance:  new(big.Int),
		CodeHash: EmptyCodeHash.Bytes(),
	}
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	cpy := &Account{
		Nonce:       new(big.Int).Set(a.Nonce),
		Balance:     new(big.Int).Set(a.Balance),
		StorageRoot: a.StorageRoot,
	}
	cpy.CodeHash = make([]byte, len(a.CodeHash))
	copy(cpy.CodeHash, a.CodeHash)
	return cpy
}

var (
	// EmptyCodeHash is keccak256 of the empty byte string.
	EmptyCodeHash = keccakHash(nil)

	// EmptyListHash is keccak256 of the RLP encoding of an empty list.
	EmptyListHash = keccakHash([]byte{0xc0})
)

func keccakHash(data []byte) Hash {
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	var h Hash
	copy(h[:], d.Sum(nil))
	return h
}

// fromHex decodes a hex string, stripping an optional "0x" prefix.
func fromHex(s string) []byte {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

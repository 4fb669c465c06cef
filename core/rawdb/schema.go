package rawdb

import (
	"encoding/binary"

	"github.com/ethercore/ethercore/core/types"
)

// Key layout:
//
//	'b' + hash       -> RLP(block)
//	'n' + number(8)  -> hash
var (
	blockPrefix  = []byte("b")
	numberPrefix = []byte("n")
)

func blockKey(hash types.Hash) []byte {
	return append(append([]byte(nil), blockPrefix...), hash[:]...)
}

func numberKey(number uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], number)
	return append(append([]byte(nil), numberPrefix...), buf[:]...)
}

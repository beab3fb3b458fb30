package types

import (
	"encoding/binary"

	"github.com/tendermint/relaylight/crypto"
)

const canonicalHeaderVersion byte = 1

// CanonicalBytes returns the deterministic binary encoding the header hash
// is computed over:
//
//	version(1) | height(8) | prev flag(1) [| prev(32)] | root flag(1) [| root(32)] |
//	creation time ms(8) | view change index(4)
//
// Integers are big-endian.
func (h *BlockHeader) CanonicalBytes() []byte {
	buf := make([]byte, 0, 1+8+2*(1+crypto.HashSize)+8+4)
	buf = append(buf, canonicalHeaderVersion)
	buf = appendUint64(buf, h.Height)
	buf = appendOptionalDigest(buf, h.PrevBlockHash)
	buf = appendOptionalDigest(buf, h.MerkleRoot)
	buf = appendUint64(buf, h.CreationTimeMs)
	buf = appendUint32(buf, h.ViewChangeIndex)
	return buf
}

// CanonicalBytes returns the length-prefixed encoding of the entrypoint kind
// followed by its payload.
func (e TransactionEntrypoint) CanonicalBytes() []byte {
	buf := make([]byte, 0, 4+len(e.Kind)+4+len(e.Payload))
	buf = appendUint32(buf, uint32(len(e.Kind)))
	buf = append(buf, e.Kind...)
	buf = appendUint32(buf, uint32(len(e.Payload)))
	buf = append(buf, e.Payload...)
	return buf
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func appendUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendOptionalDigest(buf []byte, d *crypto.Digest) []byte {
	if d == nil {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	return append(buf, d[:]...)
}

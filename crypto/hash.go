package crypto

import "golang.org/x/crypto/blake2b"

// DefaultHasher is blake2b-256 with the least significant bit of the last byte
// set, which is how the monitored ledger derives block and transaction hashes.
var DefaultHasher Hasher = blake2bHasher{}

type blake2bHasher struct{}

func (blake2bHasher) Hash(data []byte) Digest {
	d := Digest(blake2b.Sum256(data))
	d[HashSize-1] |= 1
	return d
}

// Hash is a shortcut for DefaultHasher.Hash.
func Hash(data []byte) Digest {
	return DefaultHasher.Hash(data)
}

package merkle

import (
	"math/bits"

	"github.com/tendermint/relaylight/crypto"
)

// HashFromLeaves computes a Merkle tree where the leaves are the given
// digests, in the provided order. Leaves are used as-is: they are already
// digests of the underlying items. An empty input yields the zero digest.
func HashFromLeaves(hasher crypto.Hasher, leaves []crypto.Digest) crypto.Digest {
	switch len(leaves) {
	case 0:
		return crypto.Digest{}
	case 1:
		return leaves[0]
	default:
		k := getSplitPoint(len(leaves))
		left := HashFromLeaves(hasher, leaves[:k])
		right := HashFromLeaves(hasher, leaves[k:])
		return innerHash(hasher, left, right)
	}
}

// innerHash is the canonical pairwise hash: hash(left || right).
func innerHash(hasher crypto.Hasher, left, right crypto.Digest) crypto.Digest {
	buf := make([]byte, 0, 2*crypto.HashSize)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return hasher.Hash(buf)
}

// getSplitPoint returns the largest power of 2 less than length
func getSplitPoint(length int) int {
	if length < 1 {
		panic("Trying to split a tree with size < 1")
	}
	uLength := uint(length)
	bitlen := bits.Len(uLength)
	k := 1 << uint(bitlen-1)
	if k == length {
		k >>= 1
	}
	return k
}

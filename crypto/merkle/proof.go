package merkle

import (
	"github.com/tendermint/relaylight/crypto"
)

// DefaultMaxDepth bounds the length of an inclusion proof. 2^9 = 512 is the
// largest number of transactions a monitored block is expected to carry.
const DefaultMaxDepth = 9

// ProofStep is one level of an inclusion proof.
type ProofStep struct {
	// Sibling is the digest of the neighbouring subtree.
	Sibling crypto.Digest `json:"sibling"`
	// Left is true when Sibling is the left operand of the pairwise hash.
	Left bool `json:"left"`
}

// Path is an inclusion proof ordered from the leaf towards the root.
type Path []ProofStep

// ComputeRoot folds the path over leaf and returns the resulting root.
func (p Path) ComputeRoot(hasher crypto.Hasher, leaf crypto.Digest) crypto.Digest {
	running := leaf
	for _, step := range p {
		if step.Left {
			running = innerHash(hasher, step.Sibling, running)
		} else {
			running = innerHash(hasher, running, step.Sibling)
		}
	}
	return running
}

// Verify reports whether path proves that leaf is included under root.
//
// Proofs longer than maxDepth are rejected before any hashing is done. An
// empty path only verifies when root equals leaf (a single-leaf tree).
func Verify(hasher crypto.Hasher, leaf crypto.Digest, path Path, root crypto.Digest, maxDepth int) bool {
	if len(path) > maxDepth {
		return false
	}
	return path.ComputeRoot(hasher, leaf) == root
}

// ProofsFromLeaves computes the root of the tree built by HashFromLeaves
// together with one inclusion proof per leaf, in leaf order.
func ProofsFromLeaves(hasher crypto.Hasher, leaves []crypto.Digest) (crypto.Digest, []Path) {
	switch len(leaves) {
	case 0:
		return crypto.Digest{}, nil
	case 1:
		return leaves[0], []Path{{}}
	default:
		k := getSplitPoint(len(leaves))
		left, leftPaths := ProofsFromLeaves(hasher, leaves[:k])
		right, rightPaths := ProofsFromLeaves(hasher, leaves[k:])

		for i := range leftPaths {
			leftPaths[i] = append(leftPaths[i], ProofStep{Sibling: right, Left: false})
		}
		for i := range rightPaths {
			rightPaths[i] = append(rightPaths[i], ProofStep{Sibling: left, Left: true})
		}

		return innerHash(hasher, left, right), append(leftPaths, rightPaths...)
	}
}

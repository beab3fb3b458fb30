package merkle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tendermint/relaylight/crypto"
)

func randLeaves(n int) []crypto.Digest {
	leaves := make([]crypto.Digest, n)
	for i := range leaves {
		leaves[i] = crypto.Hash(crypto.CRandBytes(32))
	}
	return leaves
}

func TestProofsFromLeaves(t *testing.T) {
	hasher := crypto.DefaultHasher

	for _, total := range []int{1, 2, 3, 7, 8, 100, 512} {
		total := total
		t.Run(fmt.Sprintf("%d leaves", total), func(t *testing.T) {
			leaves := randLeaves(total)
			root := HashFromLeaves(hasher, leaves)

			root2, proofs := ProofsFromLeaves(hasher, leaves)
			require.Equal(t, root, root2)
			require.Len(t, proofs, total)

			for i, leaf := range leaves {
				proof := proofs[i]
				require.LessOrEqual(t, len(proof), DefaultMaxDepth)
				assert.True(t, Verify(hasher, leaf, proof, root, DefaultMaxDepth), "leaf %d", i)

				if total == 1 {
					continue
				}

				// Another leaf's proof must not verify this leaf.
				other := proofs[(i+1)%total]
				assert.False(t, Verify(hasher, leaf, other, root, DefaultMaxDepth))

				// Trail too long should make it fail.
				longer := append(append(Path{}, proof...), ProofStep{Sibling: leaf})
				assert.False(t, Verify(hasher, leaf, longer, root, DefaultMaxDepth+1))

				// Trail too short should make it fail.
				assert.False(t, Verify(hasher, leaf, proof[:len(proof)-1], root, DefaultMaxDepth))

				// Flipping an orientation should make it fail.
				flipped := append(Path{}, proof...)
				flipped[0].Left = !flipped[0].Left
				assert.False(t, Verify(hasher, leaf, flipped, root, DefaultMaxDepth))
			}
		})
	}
}

func TestVerifyEmptyPath(t *testing.T) {
	leaf := crypto.Hash([]byte("tx"))

	assert.True(t, Verify(crypto.DefaultHasher, leaf, nil, leaf, DefaultMaxDepth))
	assert.True(t, Verify(crypto.DefaultHasher, leaf, Path{}, leaf, 0))
	assert.False(t, Verify(crypto.DefaultHasher, leaf, nil, crypto.Hash([]byte("other")), DefaultMaxDepth))
}

func TestVerifyDepthBound(t *testing.T) {
	hasher := crypto.DefaultHasher

	// 513 leaves needs a tree of depth 10.
	leaves := randLeaves(513)
	root, proofs := ProofsFromLeaves(hasher, leaves)

	deep := proofs[0]
	require.Len(t, deep, DefaultMaxDepth+1)
	assert.True(t, Verify(hasher, leaves[0], deep, root, DefaultMaxDepth+1))
	assert.False(t, Verify(hasher, leaves[0], deep, root, DefaultMaxDepth))

	// The last leaf hangs right under the root.
	shallow := proofs[512]
	require.Len(t, shallow, 1)
	assert.True(t, Verify(hasher, leaves[512], shallow, root, DefaultMaxDepth))
}

func TestHashFromLeavesEmpty(t *testing.T) {
	assert.True(t, HashFromLeaves(crypto.DefaultHasher, nil).IsZero())

	root, proofs := ProofsFromLeaves(crypto.DefaultHasher, nil)
	assert.True(t, root.IsZero())
	assert.Empty(t, proofs)
}

func TestGetSplitPoint(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 4},
		{10, 8},
		{20, 16},
		{100, 64},
		{255, 128},
		{256, 128},
		{257, 256},
	}
	for _, tt := range tests {
		got := getSplitPoint(tt.length)
		require.EqualValues(t, tt.want, got, "getSplitPoint(%d) = %v, want %v", tt.length, got, tt.want)
	}
}

func drawDigest(t *rapid.T, label string) crypto.Digest {
	bz := rapid.SliceOfN(rapid.Byte(), crypto.HashSize, crypto.HashSize).Draw(t, label).([]byte)
	d, err := crypto.DigestFromBytes(bz)
	if err != nil {
		t.Fatalf("drawing digest: %v", err)
	}
	return d
}

// Any leaf of any tree verifies with its canonical proof, and a single-bit
// corruption of the leaf, a sibling or the root breaks verification.
func TestProofProperties(t *testing.T) {
	hasher := crypto.DefaultHasher

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(t, "leaves").(int)
		leaves := make([]crypto.Digest, n)
		for i := range leaves {
			leaves[i] = drawDigest(t, fmt.Sprintf("leaf-%d", i))
		}
		idx := rapid.IntRange(0, n-1).Draw(t, "index").(int)

		root, proofs := ProofsFromLeaves(hasher, leaves)
		proof := proofs[idx]
		leaf := leaves[idx]

		if !Verify(hasher, leaf, proof, root, DefaultMaxDepth) {
			t.Fatalf("canonical proof for leaf %d of %d does not verify", idx, n)
		}

		bit := rapid.IntRange(0, crypto.HashSize*8-1).Draw(t, "bit").(int)
		flip := func(d crypto.Digest) crypto.Digest {
			d[bit/8] ^= 1 << uint(bit%8)
			return d
		}

		if Verify(hasher, flip(leaf), proof, root, DefaultMaxDepth) {
			t.Fatalf("corrupted leaf verified")
		}
		if Verify(hasher, leaf, proof, flip(root), DefaultMaxDepth) {
			t.Fatalf("corrupted root verified")
		}
		if len(proof) > 0 {
			step := rapid.IntRange(0, len(proof)-1).Draw(t, "step").(int)
			corrupted := append(Path{}, proof...)
			corrupted[step].Sibling = flip(corrupted[step].Sibling)
			if Verify(hasher, leaf, corrupted, root, DefaultMaxDepth) {
				t.Fatalf("corrupted sibling at step %d verified", step)
			}
		}
	})
}

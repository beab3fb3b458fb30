package types

import (
	"errors"
	"fmt"

	"github.com/tendermint/relaylight/crypto"
)

// BlockHeader is the header of one block of the monitored chain.
//
// The header hash is not carried on the wire: it is always recomputed from
// the canonical encoding (see canonical.go) so that a relay cannot pair a
// header with a hash it does not commit to.
type BlockHeader struct {
	// Height is strictly positive and grows by exactly one per block.
	Height uint64 `json:"height"`
	// PrevBlockHash is nil only for the first block of the chain.
	PrevBlockHash *crypto.Digest `json:"prev_block_hash,omitempty"`
	// MerkleRoot of the block's transaction entrypoints. nil only when the
	// block has no transactions.
	MerkleRoot *crypto.Digest `json:"merkle_root,omitempty"`
	// CreationTimeMs is the block creation time in milliseconds since the
	// unix epoch.
	CreationTimeMs uint64 `json:"creation_time_ms"`
	// ViewChangeIndex is the number of view changes the block went through.
	ViewChangeIndex uint32 `json:"view_change_index"`
}

// ValidateBasic performs stateless validation of the header.
func (h *BlockHeader) ValidateBasic() error {
	if h == nil {
		return errors.New("nil header")
	}
	if h.Height == 0 {
		return errors.New("height must be positive")
	}
	return nil
}

// Hash returns the header digest under crypto.DefaultHasher.
func (h *BlockHeader) Hash() crypto.Digest {
	return h.HashWith(crypto.DefaultHasher)
}

// HashWith returns the digest of the canonical header encoding.
func (h *BlockHeader) HashWith(hasher crypto.Hasher) crypto.Digest {
	return hasher.Hash(h.CanonicalBytes())
}

// IsGenesis reports whether h is the first block of its chain.
func (h *BlockHeader) IsGenesis() bool {
	return h.PrevBlockHash == nil
}

// Copy returns a deep copy of the header.
func (h *BlockHeader) Copy() *BlockHeader {
	if h == nil {
		return nil
	}
	cp := *h
	if h.PrevBlockHash != nil {
		prev := *h.PrevBlockHash
		cp.PrevBlockHash = &prev
	}
	if h.MerkleRoot != nil {
		root := *h.MerkleRoot
		cp.MerkleRoot = &root
	}
	return &cp
}

func (h *BlockHeader) String() string {
	if h == nil {
		return "nil-Header"
	}
	return fmt.Sprintf("Header{Height:%d Prev:%v Root:%v Time:%d View:%d}",
		h.Height, digestString(h.PrevBlockHash), digestString(h.MerkleRoot),
		h.CreationTimeMs, h.ViewChangeIndex)
}

func digestString(d *crypto.Digest) string {
	if d == nil {
		return "none"
	}
	return d.String()
}

// DigestPtr returns a pointer to a copy of d. Handy for optional header fields.
func DigestPtr(d crypto.Digest) *crypto.Digest {
	return &d
}

// DigestsEqual compares two optional digests.
func DigestsEqual(a, b *crypto.Digest) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

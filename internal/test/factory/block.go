package factory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tendermint/relaylight/crypto"
	"github.com/tendermint/relaylight/crypto/merkle"
	"github.com/tendermint/relaylight/types"
)

// DefaultBlockTimeMs is the creation time of the block at height 1.
const DefaultBlockTimeMs uint64 = 1700000000000

// Block is a block of the simulated remote chain: a header and every
// transaction entrypoint, with proofs.
type Block struct {
	Header      *types.BlockHeader
	Entrypoints []types.TransactionEntrypoint
	Proofs      []merkle.Path
}

// Hash returns the header hash.
func (b *Block) Hash() crypto.Digest {
	return b.Header.Hash()
}

// MakeEntrypoints produces n entrypoints of the given kind with distinct
// payloads.
func MakeEntrypoints(kind string, n int) []types.TransactionEntrypoint {
	res := make([]types.TransactionEntrypoint, n)
	for i := range res {
		res[i] = types.TransactionEntrypoint{
			Kind:    kind,
			Payload: []byte(fmt.Sprintf(`{"seq":%d,"nonce":"%X"}`, i, crypto.CRandBytes(8))),
		}
	}
	return res
}

// MakeBlock builds a block at height linked to prev, committing to
// entrypoints.
func MakeBlock(height uint64, prev *crypto.Digest, entrypoints []types.TransactionEntrypoint) *Block {
	leaves := make([]crypto.Digest, len(entrypoints))
	for i, e := range entrypoints {
		leaves[i] = e.Hash()
	}

	header := &types.BlockHeader{
		Height:         height,
		PrevBlockHash:  prev,
		CreationTimeMs: DefaultBlockTimeMs + height*1000,
	}

	root, proofs := merkle.ProofsFromLeaves(crypto.DefaultHasher, leaves)
	if len(leaves) > 0 {
		header.MerkleRoot = types.DigestPtr(root)
	}

	return &Block{
		Header:      header,
		Entrypoints: entrypoints,
		Proofs:      proofs,
	}
}

// MakeChain builds n linked blocks starting at height 1, each carrying
// txsPerBlock external transactions.
func MakeChain(n, txsPerBlock int) []*Block {
	blocks := make([]*Block, n)
	var prev *crypto.Digest
	for i := range blocks {
		blocks[i] = MakeBlock(uint64(i+1), prev, MakeEntrypoints(types.EntrypointKindExternal, txsPerBlock))
		prev = types.DigestPtr(blocks[i].Hash())
	}
	return blocks
}

// Committed returns the committed form of the transactions at idx.
func (b *Block) Committed(idx ...int) []types.CommittedTransaction {
	blockHash := b.Hash()
	res := make([]types.CommittedTransaction, len(idx))
	for i, j := range idx {
		res[i] = types.CommittedTransaction{
			EntrypointHash:  b.Entrypoints[j].Hash(),
			EntrypointProof: append(merkle.Path{}, b.Proofs[j]...),
			BlockHash:       blockHash,
			Entrypoint:      b.Entrypoints[j],
		}
	}
	return res
}

// MakeMessage produces a relay message for b signed by the first signers
// keys of pkz, carrying the transactions at txIdx.
func MakeMessage(t testing.TB, pkz PrivKeys, b *Block, signers int, txIdx ...int) *types.RelayBlockMessage {
	t.Helper()
	require.LessOrEqual(t, signers, len(pkz))

	return &types.RelayBlockMessage{
		Header:                  *b.Header.Copy(),
		Signatures:              pkz[:signers].Sign(t, b.Hash()),
		InterestingTransactions: b.Committed(txIdx...),
	}
}

package light_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/relaylight/crypto"
	"github.com/tendermint/relaylight/internal/test/factory"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/light"
	"github.com/tendermint/relaylight/types"
)

func newVerifier(t *testing.T, opts ...light.Option) *light.Verifier {
	return light.NewVerifier(append([]light.Option{light.WithLogger(log.TestingLogger())}, opts...)...)
}

func requireRejected(t *testing.T, err error, target interface{}) {
	t.Helper()
	require.Error(t, err)
	require.True(t, light.IsErrInvalidMessage(err), "expected a rejection, got %v", err)
	require.True(t, errors.As(err, target), "unexpected rejection reason: %v", err)
}

func TestVerifyGenesisAccepted(t *testing.T) {
	pkz := factory.GenMixedPrivKeys(4)
	snapshot := types.NewGenesisSnapshot(pkz.ValidatorSet())
	chain := factory.MakeChain(1, 3)
	msg := factory.MakeMessage(t, pkz, chain[0], 3, 0, 2)

	outcome, err := newVerifier(t).Verify(snapshot, msg)
	require.NoError(t, err)

	assert.Equal(t, light.StatusAccepted, outcome.Status)
	assert.EqualValues(t, 1, outcome.Snapshot.Height())
	assert.Equal(t, chain[0].Hash(), *outcome.Snapshot.TipHash(crypto.DefaultHasher))
	assert.True(t, outcome.Snapshot.Validators.Equals(snapshot.Validators))
	require.Len(t, outcome.Transactions, 2)
	assert.Equal(t, chain[0].Entrypoints[0], outcome.Transactions[0].Entrypoint)
	assert.Equal(t, chain[0].Entrypoints[2], outcome.Transactions[1].Entrypoint)

	assert.True(t, snapshot.IsGenesis(), "input snapshot must not change")
}

func TestVerifyInsufficientQuorum(t *testing.T) {
	pkz := factory.GenPrivKeys(4)
	snapshot := types.NewGenesisSnapshot(pkz.ValidatorSet())
	chain := factory.MakeChain(1, 0)
	msg := factory.MakeMessage(t, pkz, chain[0], 1)

	_, err := newVerifier(t).Verify(snapshot, msg)

	var quorumErr types.ErrInsufficientQuorum
	requireRejected(t, err, &quorumErr)
	assert.Equal(t, types.ErrInsufficientQuorum{Recognized: 1, Required: 2}, quorumErr)
}

func TestVerifyStale(t *testing.T) {
	pkz := factory.GenPrivKeys(4)
	chain := factory.MakeChain(5, 1)
	snapshot := types.NewGenesisSnapshot(pkz.ValidatorSet()).WithBlock(chain[4].Header)

	// signatures are irrelevant for the trusted tip
	msg := factory.MakeMessage(t, pkz, chain[4], 0)

	outcome, err := newVerifier(t).Verify(snapshot, msg)
	require.NoError(t, err)
	assert.Equal(t, light.StatusStale, outcome.Status)
	assert.Empty(t, outcome.Transactions)

	// the outcome does not alias the caller's snapshot
	assert.NotSame(t, snapshot, outcome.Snapshot)
	assert.Equal(t, snapshot, outcome.Snapshot)
	outcome.Snapshot.Block.Height = 99
	assert.EqualValues(t, 5, snapshot.Height())
}

func TestVerifyIdempotent(t *testing.T) {
	pkz := factory.GenPrivKeys(4)
	chain := factory.MakeChain(1, 2)
	msg := factory.MakeMessage(t, pkz, chain[0], 4, 1)
	v := newVerifier(t)

	first, err := v.Verify(types.NewGenesisSnapshot(pkz.ValidatorSet()), msg)
	require.NoError(t, err)
	require.Equal(t, light.StatusAccepted, first.Status)

	second, err := v.Verify(first.Snapshot, msg)
	require.NoError(t, err)
	assert.Equal(t, light.StatusStale, second.Status)
	assert.Equal(t, first.Snapshot, second.Snapshot)
}

func TestVerifyTransactionFromAnotherBlock(t *testing.T) {
	pkz := factory.GenPrivKeys(4)
	chain := factory.MakeChain(2, 2)
	snapshot := types.NewGenesisSnapshot(pkz.ValidatorSet()).WithBlock(chain[0].Header)

	msg := factory.MakeMessage(t, pkz, chain[1], 4, 0)
	msg.InterestingTransactions[0].BlockHash = chain[0].Hash()

	_, err := newVerifier(t).Verify(snapshot, msg)

	var mismatch light.ErrTransactionBlockMismatch
	requireRejected(t, err, &mismatch)
	assert.Equal(t, chain[1].Hash(), mismatch.Expected)
	assert.Equal(t, chain[0].Hash(), mismatch.Got)
}

func TestVerifyHeightMismatch(t *testing.T) {
	pkz := factory.GenPrivKeys(4)
	chain := factory.MakeChain(5, 0)
	snapshot := types.NewGenesisSnapshot(pkz.ValidatorSet()).WithBlock(chain[4].Header)

	for _, height := range []uint64{0, 1, 4, 7, 1000} {
		b := factory.MakeBlock(height, types.DigestPtr(chain[4].Hash()), nil)
		msg := factory.MakeMessage(t, pkz, b, 4)

		_, err := newVerifier(t).Verify(snapshot, msg)

		var mismatch light.ErrHeightMismatch
		requireRejected(t, err, &mismatch)
		assert.Equal(t, light.ErrHeightMismatch{Expected: 6, Got: height}, mismatch)
		assert.EqualValues(t, 5, snapshot.Height())
	}
}

func TestVerifyChainLinkage(t *testing.T) {
	pkz := factory.GenPrivKeys(4)
	chain := factory.MakeChain(2, 0)
	genesis := types.NewGenesisSnapshot(pkz.ValidatorSet())
	atOne := genesis.WithBlock(chain[0].Header)
	stranger := types.DigestPtr(crypto.Hash([]byte("fork")))

	testCases := []struct {
		name     string
		snapshot *types.ChainSnapshot
		block    *factory.Block
	}{
		{"genesis with prev", genesis, factory.MakeBlock(1, stranger, nil)},
		{"wrong prev", atOne, factory.MakeBlock(2, stranger, nil)},
		{"missing prev", atOne, factory.MakeBlock(2, nil, nil)},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			msg := factory.MakeMessage(t, pkz, tc.block, 4)

			_, err := newVerifier(t).Verify(tc.snapshot, msg)

			var linkErr light.ErrChainLinkageBroken
			requireRejected(t, err, &linkErr)
			assert.Equal(t, tc.block.Header.PrevBlockHash, linkErr.Got)
		})
	}

	// linkage is checked before signatures
	msg := factory.MakeMessage(t, pkz, factory.MakeBlock(2, stranger, nil), 0)
	_, err := newVerifier(t).Verify(atOne, msg)
	var linkErr light.ErrChainLinkageBroken
	requireRejected(t, err, &linkErr)
}

func TestVerifyNoSignatures(t *testing.T) {
	// with fewer than three validators the default policy requires nothing,
	// but an unsigned header is still rejected
	pkz := factory.GenPrivKeys(2)
	chain := factory.MakeChain(1, 0)
	msg := factory.MakeMessage(t, pkz, chain[0], 0)

	_, err := newVerifier(t).Verify(types.NewGenesisSnapshot(pkz.ValidatorSet()), msg)
	require.Error(t, err)
	assert.True(t, light.IsErrInvalidMessage(err))
	assert.True(t, errors.Is(err, types.ErrNoSignatures))
}

func TestVerifyQuorumPolicy(t *testing.T) {
	pkz := factory.GenPrivKeys(4)
	chain := factory.MakeChain(1, 0)
	msg := factory.MakeMessage(t, pkz, chain[0], 2)
	snapshot := types.NewGenesisSnapshot(pkz.ValidatorSet())

	_, err := newVerifier(t).Verify(snapshot, msg)
	require.NoError(t, err)

	_, err = newVerifier(t, light.WithQuorumPolicy(types.SupermajorityQuorum)).Verify(snapshot, msg)
	var quorumErr types.ErrInsufficientQuorum
	requireRejected(t, err, &quorumErr)
	assert.Equal(t, 3, quorumErr.Required)
}

func TestVerifyTransactions(t *testing.T) {
	pkz := factory.GenPrivKeys(3)
	snapshot := types.NewGenesisSnapshot(pkz.ValidatorSet())
	block := factory.MakeChain(1, 5)[0]
	empty := factory.MakeBlock(1, nil, nil)

	testCases := []struct {
		name    string
		block   *factory.Block
		malform func(msg *types.RelayBlockMessage)
		target  interface{}
	}{
		{
			"transactions in an empty block",
			empty,
			func(msg *types.RelayBlockMessage) {
				e := block.Entrypoints[0]
				msg.InterestingTransactions = []types.CommittedTransaction{{
					EntrypointHash: e.Hash(),
					BlockHash:      empty.Hash(),
					Entrypoint:     e,
				}}
			},
			nil,
		},
		{
			"entrypoint does not match hash",
			block,
			func(msg *types.RelayBlockMessage) {
				msg.InterestingTransactions[1].Entrypoint.Payload = []byte("forged")
			},
			&light.ErrEntrypointHashMismatch{},
		},
		{
			"corrupted proof",
			block,
			func(msg *types.RelayBlockMessage) {
				msg.InterestingTransactions[0].EntrypointProof[0].Sibling[3] ^= 0x10
			},
			&light.ErrUnprovenTransaction{},
		},
		{
			"flipped orientation",
			block,
			func(msg *types.RelayBlockMessage) {
				step := &msg.InterestingTransactions[0].EntrypointProof[0]
				step.Left = !step.Left
			},
			&light.ErrUnprovenTransaction{},
		},
		{
			"proof of another transaction",
			block,
			func(msg *types.RelayBlockMessage) {
				txs := msg.InterestingTransactions
				txs[0].EntrypointProof, txs[1].EntrypointProof = txs[1].EntrypointProof, txs[0].EntrypointProof
			},
			&light.ErrUnprovenTransaction{},
		},
		{
			"truncated proof",
			block,
			func(msg *types.RelayBlockMessage) {
				tx := &msg.InterestingTransactions[1]
				tx.EntrypointProof = tx.EntrypointProof[:len(tx.EntrypointProof)-1]
			},
			&light.ErrUnprovenTransaction{},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			msg := factory.MakeMessage(t, pkz, tc.block, 3)
			if tc.block == block {
				msg.InterestingTransactions = block.Committed(0, 3)
			}
			tc.malform(msg)

			_, err := newVerifier(t).Verify(snapshot, msg)
			require.Error(t, err)
			require.True(t, light.IsErrInvalidMessage(err))
			if tc.target == nil {
				assert.True(t, errors.Is(err, light.ErrEmptyBlockWithTransactions), "got %v", err)
				return
			}
			assert.True(t, errors.As(err, tc.target), "got %v", err)
		})
	}
}

func TestVerifyProofDepthBound(t *testing.T) {
	pkz := factory.GenPrivKeys(3)
	snapshot := types.NewGenesisSnapshot(pkz.ValidatorSet())
	block := factory.MakeChain(1, 4)[0]
	msg := factory.MakeMessage(t, pkz, block, 3, 2)

	_, err := newVerifier(t).Verify(snapshot, msg)
	require.NoError(t, err)

	_, err = newVerifier(t, light.WithMaxProofDepth(1)).Verify(snapshot, msg)
	var unproven light.ErrUnprovenTransaction
	requireRejected(t, err, &unproven)
	assert.Equal(t, 2, unproven.Depth)
}

func TestVerifySequentialChain(t *testing.T) {
	pkz := factory.GenMixedPrivKeys(7)
	chain := factory.MakeChain(10, 3)
	v := newVerifier(t, light.WithQuorumPolicy(types.SupermajorityQuorum))

	snapshot := types.NewGenesisSnapshot(pkz.ValidatorSet())
	for _, b := range chain {
		msg := factory.MakeMessage(t, pkz, b, 5, 0, 1, 2)
		outcome, err := v.Verify(snapshot, msg)
		require.NoError(t, err)
		require.Equal(t, light.StatusAccepted, outcome.Status)
		require.Len(t, outcome.Transactions, 3)
		snapshot = outcome.Snapshot
	}
	assert.EqualValues(t, 10, snapshot.Height())

	// skipping ahead is never allowed, even with valid signatures
	skipped := factory.MakeChain(12, 0)
	_, err := v.Verify(types.NewGenesisSnapshot(pkz.ValidatorSet()), factory.MakeMessage(t, pkz, skipped[1], 7))
	var mismatch light.ErrHeightMismatch
	requireRejected(t, err, &mismatch)
}

func TestVerifyUnusableSnapshot(t *testing.T) {
	chain := factory.MakeChain(1, 0)
	pkz := factory.GenPrivKeys(1)
	msg := factory.MakeMessage(t, pkz, chain[0], 1)

	for _, snapshot := range []*types.ChainSnapshot{
		nil,
		types.NewGenesisSnapshot(nil),
		types.NewGenesisSnapshot(types.MustNewValidatorSet(nil)),
	} {
		_, err := newVerifier(t).Verify(snapshot, msg)
		require.Error(t, err)
		assert.False(t, light.IsErrInvalidMessage(err), "a broken snapshot is not a rejection: %v", err)
	}
}

func TestVerifyCustomHasher(t *testing.T) {
	pkz := factory.GenPrivKeys(3)
	chain := factory.MakeChain(1, 0)
	msg := factory.MakeMessage(t, pkz, chain[0], 3)

	// signatures were made over the default digest
	_, err := newVerifier(t, light.WithHasher(sha256Hasher{})).Verify(types.NewGenesisSnapshot(pkz.ValidatorSet()), msg)
	var quorumErr types.ErrInsufficientQuorum
	requireRejected(t, err, &quorumErr)
	assert.Equal(t, 0, quorumErr.Recognized)
}

type sha256Hasher struct{}

func (sha256Hasher) Hash(data []byte) crypto.Digest {
	d, err := crypto.DigestFromBytes(crypto.Checksum(data))
	if err != nil {
		panic(err)
	}
	return d
}

package types_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tendermint/relaylight/crypto"
	"github.com/tendermint/relaylight/crypto/ed25519"
	"github.com/tendermint/relaylight/internal/test/factory"
	"github.com/tendermint/relaylight/types"
)

func TestNewValidatorSetRejectsDuplicates(t *testing.T) {
	pkz := factory.GenPrivKeys(3)
	keys := append(pkz.PubKeys(), pkz[1].PubKey())

	_, err := types.NewValidatorSet(keys)
	require.Error(t, err)

	_, err = types.NewValidatorSet([]crypto.PubKey{nil})
	require.Error(t, err)

	vals, err := types.NewValidatorSet(pkz.PubKeys())
	require.NoError(t, err)
	assert.Equal(t, 3, vals.Size())
	assert.True(t, vals.Has(pkz[2].PubKey()))
	assert.False(t, vals.Has(ed25519.GenPrivKey().PubKey()))
}

func TestValidatorSetValidateBasic(t *testing.T) {
	var nilSet *types.ValidatorSet
	assert.Error(t, nilSet.ValidateBasic())
	assert.Error(t, types.MustNewValidatorSet(nil).ValidateBasic())
	assert.NoError(t, factory.GenPrivKeys(1).ValidatorSet().ValidateBasic())
}

func TestValidatorSetJSON(t *testing.T) {
	vals := factory.GenMixedPrivKeys(5).ValidatorSet()

	bz, err := json.Marshal(vals)
	require.NoError(t, err)

	decoded := new(types.ValidatorSet)
	require.NoError(t, json.Unmarshal(bz, decoded))
	assert.True(t, vals.Equals(decoded))

	// duplicates are rejected on decode
	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal(bz, &raw))
	raw = append(raw, raw[0])
	dup, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.Error(t, json.Unmarshal(dup, new(types.ValidatorSet)))
}

func TestValidatorSetEquals(t *testing.T) {
	pkz := factory.GenPrivKeys(3)
	a := pkz.ValidatorSet()
	b := factory.PrivKeys{pkz[2], pkz[0], pkz[1]}.ValidatorSet()
	c := pkz[:2].ValidatorSet()

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.True(t, a.Equals(a.Copy()))
}

func TestVerifySignatures(t *testing.T) {
	pkz := factory.GenMixedPrivKeys(4)
	vals := pkz.ValidatorSet()
	digest := crypto.Hash([]byte("header"))
	sigs := pkz.Sign(t, digest)
	strangers := factory.GenPrivKeys(3).Sign(t, digest)

	testCases := []struct {
		name   string
		sigs   []types.Signature
		policy types.QuorumPolicy
		expErr error
	}{
		{"no signatures", nil, types.FloorThirdsQuorum, types.ErrNoSignatures},
		{"all signed", sigs, types.FloorThirdsQuorum, nil},
		{"exactly required", sigs[:2], types.FloorThirdsQuorum, nil},
		{"one short", sigs[:1], types.FloorThirdsQuorum,
			types.ErrInsufficientQuorum{Recognized: 1, Required: 2}},
		{"duplicates count once", []types.Signature{sigs[0], sigs[0], sigs[0]}, types.FloorThirdsQuorum,
			types.ErrInsufficientQuorum{Recognized: 1, Required: 2}},
		{"strangers are ignored", append(append([]types.Signature{}, strangers...), sigs[1:3]...),
			types.FloorThirdsQuorum, nil},
		{"only strangers", strangers, types.FloorThirdsQuorum,
			types.ErrInsufficientQuorum{Recognized: 0, Required: 2}},
		{"supermajority", sigs[:2], types.SupermajorityQuorum,
			types.ErrInsufficientQuorum{Recognized: 2, Required: 3}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := vals.VerifySignatures(digest, tc.sigs, tc.policy)
			if tc.expErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.expErr, err)
		})
	}
}

func TestVerifySignaturesWrongDigest(t *testing.T) {
	pkz := factory.GenPrivKeys(3)
	sigs := pkz.Sign(t, crypto.Hash([]byte("one header")))

	err := pkz.ValidatorSet().VerifySignatures(crypto.Hash([]byte("another header")), sigs, types.SupermajorityQuorum)
	assert.True(t, types.IsErrInsufficientQuorum(err))
}

// Adding a signature that matches no validator never changes the outcome,
// and dropping a matching signature never turns a rejection into an
// acceptance.
func TestQuorumMonotonicity(t *testing.T) {
	pkz := factory.GenPrivKeys(7)
	vals := pkz.ValidatorSet()
	digest := crypto.Hash([]byte("monotonic"))
	sigs := pkz.Sign(t, digest)
	noise := factory.GenPrivKeys(2).Sign(t, digest)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, len(sigs)).Draw(t, "signers").(int)
		policy := rapid.SampledFrom([]types.QuorumPolicy{
			types.FloorThirdsQuorum, types.SupermajorityQuorum,
		}).Draw(t, "policy").(types.QuorumPolicy)

		present := append([]types.Signature{}, sigs[:n]...)
		base := vals.VerifySignatures(digest, present, policy) == nil

		withNoise := append(append([]types.Signature{}, present...),
			noise[rapid.IntRange(0, len(noise)-1).Draw(t, "noise").(int)])
		if n > 0 && (vals.VerifySignatures(digest, withNoise, policy) == nil) != base {
			t.Fatalf("non-matching signature changed the outcome with %d signers", n)
		}

		if n > 0 {
			drop := rapid.IntRange(0, n-1).Draw(t, "drop").(int)
			fewer := append(append([]types.Signature{}, present[:drop]...), present[drop+1:]...)
			if !base && vals.VerifySignatures(digest, fewer, policy) == nil {
				t.Fatalf("removing a signature turned a rejection into an acceptance")
			}
		}
	})
}

func TestQuorumPolicies(t *testing.T) {
	floor := []int{0, 0, 0, 2, 2, 2, 4, 4, 4, 6}
	super := []int{1, 1, 2, 3, 3, 4, 5, 5, 6, 7}
	for n := range floor {
		assert.Equal(t, floor[n], types.FloorThirdsQuorum.RequiredSignatures(n), "floor-thirds n=%d", n)
		assert.Equal(t, super[n], types.SupermajorityQuorum.RequiredSignatures(n), "supermajority n=%d", n)
	}

	p, err := types.QuorumPolicyFromString("")
	require.NoError(t, err)
	assert.Equal(t, types.FloorThirdsQuorum, p)

	p, err = types.QuorumPolicyFromString(types.QuorumPolicySupermajority)
	require.NoError(t, err)
	assert.Equal(t, types.SupermajorityQuorum, p)

	_, err = types.QuorumPolicyFromString("two-thirds")
	assert.Error(t, err)
}

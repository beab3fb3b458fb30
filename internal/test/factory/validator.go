package factory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tendermint/relaylight/crypto"
	"github.com/tendermint/relaylight/crypto/ed25519"
	"github.com/tendermint/relaylight/crypto/secp256k1"
	"github.com/tendermint/relaylight/types"
)

// PrivKeys is a helper type for testing.
//
// It lets us simulate signing with many keys. The main use case is to create
// a set, and call Sign to get properly signed header digests for testing.
type PrivKeys []crypto.PrivKey

// GenPrivKeys produces n ed25519 private keys.
func GenPrivKeys(n int) PrivKeys {
	res := make(PrivKeys, n)
	for i := range res {
		res[i] = ed25519.GenPrivKey()
	}
	return res
}

// GenMixedPrivKeys produces n keys alternating between ed25519 and secp256k1.
func GenMixedPrivKeys(n int) PrivKeys {
	res := make(PrivKeys, n)
	for i := range res {
		if i%2 == 0 {
			res[i] = ed25519.GenPrivKey()
		} else {
			res[i] = secp256k1.GenPrivKey()
		}
	}
	return res
}

// PubKeys returns the public keys, in order.
func (pkz PrivKeys) PubKeys() []crypto.PubKey {
	res := make([]crypto.PubKey, len(pkz))
	for i, k := range pkz {
		res[i] = k.PubKey()
	}
	return res
}

// ValidatorSet produces a validator set from the keys.
func (pkz PrivKeys) ValidatorSet() *types.ValidatorSet {
	return types.MustNewValidatorSet(pkz.PubKeys())
}

// Sign signs digest with every key.
func (pkz PrivKeys) Sign(t testing.TB, digest crypto.Digest) []types.Signature {
	t.Helper()

	sigs := make([]types.Signature, len(pkz))
	for i, k := range pkz {
		sig, err := k.Sign(digest[:])
		require.NoError(t, err)
		sigs[i] = sig
	}
	return sigs
}

package secp256k1

import (
	"testing"

	secp256k1 "github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/require"
)

// Ensure that signature verification works, and that
// non-canonical signatures fail.
func TestSignatureVerificationAndRejectUpperS(t *testing.T) {
	msg := []byte("We have lingered long enough on the shores of the cosmic ocean.")
	for i := 0; i < 100; i++ {
		priv := GenPrivKey()
		sigStr, err := priv.Sign(msg)
		require.NoError(t, err)
		sig := signatureFromBytes(sigStr)
		require.False(t, sig.S.Cmp(secp256k1halfN) > 0)

		pub := priv.PubKey()
		require.True(t, pub.VerifySignature(msg, sigStr))

		// malleate:
		sig.S.Sub(secp256k1.S256().CurveParams.N, sig.S)
		require.True(t, sig.S.Cmp(secp256k1halfN) > 0)
		malSigStr := serializeSig(sig)

		require.False(t, pub.VerifySignature(msg, malSigStr),
			"VerifySignature incorrect with malleated & invalid S. sig=%v, key=%v",
			sig,
			priv,
		)
	}
}

func TestPubKeyFromBytes(t *testing.T) {
	priv := GenPrivKey()
	pub := priv.PubKey()
	require.Len(t, pub.Bytes(), PubKeySize)

	decoded, err := PubKeyFromBytes(pub.Bytes())
	require.NoError(t, err)
	require.True(t, pub.Equals(decoded))

	_, err = PubKeyFromBytes(make([]byte, PubKeySize))
	require.Error(t, err)

	_, err = PubKeyFromBytes([]byte{0x02})
	require.Error(t, err)
}

func TestVerifyWrongMessage(t *testing.T) {
	priv := GenPrivKey()
	sig, err := priv.Sign([]byte("one"))
	require.NoError(t, err)
	require.False(t, priv.PubKey().VerifySignature([]byte("two"), sig))
	require.False(t, priv.PubKey().VerifySignature([]byte("one"), sig[:10]))
}

package types

import (
	"github.com/tendermint/relaylight/libs/bytes"
)

// Signature is a signature over a header digest. It does not declare its
// signer: it is matched against every validator key.
type Signature []byte

func (sig Signature) MarshalText() ([]byte, error) {
	return bytes.HexBytes(sig).MarshalText()
}

func (sig *Signature) UnmarshalText(data []byte) error {
	var hb bytes.HexBytes
	if err := hb.UnmarshalText(data); err != nil {
		return err
	}
	*sig = Signature(hb)
	return nil
}

func (sig Signature) String() string {
	return bytes.HexBytes(sig).String()
}

package encoding

import (
	"encoding/json"
	"fmt"

	"github.com/tendermint/relaylight/crypto"
	"github.com/tendermint/relaylight/crypto/ed25519"
	"github.com/tendermint/relaylight/crypto/secp256k1"
	"github.com/tendermint/relaylight/libs/bytes"
)

// taggedKey is the JSON shape of a key: {"type":"ed25519","value":"<HEX>"}.
type taggedKey struct {
	Type  string         `json:"type"`
	Value bytes.HexBytes `json:"value"`
}

// PubKeyFromTypeAndBytes builds a crypto.PubKey of the given key type.
func PubKeyFromTypeAndBytes(keyType string, bz []byte) (crypto.PubKey, error) {
	switch keyType {
	case ed25519.KeyType:
		return ed25519.PubKeyFromBytes(bz)
	case secp256k1.KeyType:
		return secp256k1.PubKeyFromBytes(bz)
	default:
		return nil, fmt.Errorf("key type %q is not supported", keyType)
	}
}

// PrivKeyFromTypeAndBytes builds a crypto.PrivKey of the given key type.
func PrivKeyFromTypeAndBytes(keyType string, bz []byte) (crypto.PrivKey, error) {
	switch keyType {
	case ed25519.KeyType:
		return ed25519.PrivKeyFromBytes(bz)
	case secp256k1.KeyType:
		return secp256k1.PrivKeyFromBytes(bz)
	default:
		return nil, fmt.Errorf("key type %q is not supported", keyType)
	}
}

// MarshalPubKeyJSON encodes k as a tagged JSON object.
func MarshalPubKeyJSON(k crypto.PubKey) ([]byte, error) {
	if k == nil {
		return nil, fmt.Errorf("nil public key")
	}
	return json.Marshal(taggedKey{Type: k.Type(), Value: k.Bytes()})
}

// UnmarshalPubKeyJSON decodes a tagged JSON public key.
func UnmarshalPubKeyJSON(bz []byte) (crypto.PubKey, error) {
	var tk taggedKey
	if err := json.Unmarshal(bz, &tk); err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}
	return PubKeyFromTypeAndBytes(tk.Type, tk.Value)
}

// MarshalPrivKeyJSON encodes k as a tagged JSON object.
func MarshalPrivKeyJSON(k crypto.PrivKey) ([]byte, error) {
	if k == nil {
		return nil, fmt.Errorf("nil private key")
	}
	return json.Marshal(taggedKey{Type: k.Type(), Value: k.Bytes()})
}

// UnmarshalPrivKeyJSON decodes a tagged JSON private key.
func UnmarshalPrivKeyJSON(bz []byte) (crypto.PrivKey, error) {
	var tk taggedKey
	if err := json.Unmarshal(bz, &tk); err != nil {
		return nil, fmt.Errorf("decoding private key: %w", err)
	}
	return PrivKeyFromTypeAndBytes(tk.Type, tk.Value)
}

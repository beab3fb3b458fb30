package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tendermint/relaylight/crypto"
	"github.com/tendermint/relaylight/crypto/encoding"
)

// ValidatorSet is the set of public keys whose signatures make a block
// header trusted. It only supports membership: keys carry no voting power
// and their order is irrelevant.
//
// A ValidatorSet is never mutated once built.
type ValidatorSet struct {
	keys []crypto.PubKey
}

// NewValidatorSet builds a set from keys. Duplicate keys are an error.
func NewValidatorSet(keys []crypto.PubKey) (*ValidatorSet, error) {
	seen := make(map[string]struct{}, len(keys))
	cp := make([]crypto.PubKey, 0, len(keys))
	for i, k := range keys {
		if k == nil {
			return nil, fmt.Errorf("validator #%d: nil public key", i)
		}
		id := keyID(k)
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate validator %X", k.Bytes())
		}
		seen[id] = struct{}{}
		cp = append(cp, k)
	}
	return &ValidatorSet{keys: cp}, nil
}

// MustNewValidatorSet is NewValidatorSet that panics on error.
func MustNewValidatorSet(keys []crypto.PubKey) *ValidatorSet {
	vals, err := NewValidatorSet(keys)
	if err != nil {
		panic(err)
	}
	return vals
}

func keyID(k crypto.PubKey) string {
	return k.Type() + "/" + string(k.Bytes())
}

// ValidateBasic checks the set is non-empty.
func (vals *ValidatorSet) ValidateBasic() error {
	if vals.IsNilOrEmpty() {
		return errors.New("validator set is nil or empty")
	}
	return nil
}

// IsNilOrEmpty returns true if validator set is nil or empty.
func (vals *ValidatorSet) IsNilOrEmpty() bool {
	return vals == nil || len(vals.keys) == 0
}

// Size returns the number of validators.
func (vals *ValidatorSet) Size() int {
	if vals == nil {
		return 0
	}
	return len(vals.keys)
}

// Has reports whether key belongs to the set.
func (vals *ValidatorSet) Has(key crypto.PubKey) bool {
	for _, k := range vals.keys {
		if k.Equals(key) {
			return true
		}
	}
	return false
}

// PubKeys returns a copy of the validator keys.
func (vals *ValidatorSet) PubKeys() []crypto.PubKey {
	cp := make([]crypto.PubKey, len(vals.keys))
	copy(cp, vals.keys)
	return cp
}

// Equals reports whether both sets hold the same keys, in any order.
func (vals *ValidatorSet) Equals(other *ValidatorSet) bool {
	if vals.Size() != other.Size() {
		return false
	}
	for _, k := range other.keys {
		if !vals.Has(k) {
			return false
		}
	}
	return true
}

// Copy returns a shallow copy of the set. Keys are immutable.
func (vals *ValidatorSet) Copy() *ValidatorSet {
	if vals == nil {
		return nil
	}
	return &ValidatorSet{keys: vals.PubKeys()}
}

// VerifySignatures checks that enough validators signed digest.
//
// A validator is recognized when at least one of sigs verifies under its key.
// Signatures matching no validator are ignored. The number of recognized
// validators must reach policy.RequiredSignatures(vals.Size()).
//
// An empty sigs is always rejected with ErrNoSignatures, whatever the policy
// would require.
func (vals *ValidatorSet) VerifySignatures(digest crypto.Digest, sigs []Signature, policy QuorumPolicy) error {
	if len(sigs) == 0 {
		return ErrNoSignatures
	}

	required := policy.RequiredSignatures(vals.Size())

	// PERF: every signature is tried against every key.
	recognized := 0
	for _, key := range vals.keys {
		for _, sig := range sigs {
			if key.VerifySignature(digest[:], sig) {
				recognized++
				break
			}
		}
	}

	if recognized < required {
		return ErrInsufficientQuorum{Recognized: recognized, Required: required}
	}

	return nil
}

func (vals *ValidatorSet) String() string {
	if vals == nil {
		return "nil-ValidatorSet"
	}
	parts := make([]string, len(vals.keys))
	for i, k := range vals.keys {
		parts[i] = fmt.Sprintf("%s:%X", k.Type(), k.Bytes())
	}
	return fmt.Sprintf("ValidatorSet{%s}", strings.Join(parts, " "))
}

// MarshalJSON encodes the set as an array of tagged public keys.
func (vals *ValidatorSet) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, len(vals.keys))
	for i, k := range vals.keys {
		bz, err := encoding.MarshalPubKeyJSON(k)
		if err != nil {
			return nil, err
		}
		raw[i] = bz
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes an array of tagged public keys. Duplicates are
// rejected.
func (vals *ValidatorSet) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	keys := make([]crypto.PubKey, len(raw))
	for i, bz := range raw {
		k, err := encoding.UnmarshalPubKeyJSON(bz)
		if err != nil {
			return fmt.Errorf("validator #%d: %w", i, err)
		}
		keys[i] = k
	}
	decoded, err := NewValidatorSet(keys)
	if err != nil {
		return err
	}
	*vals = *decoded
	return nil
}

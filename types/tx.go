package types

import (
	"errors"
	"fmt"

	"github.com/tendermint/relaylight/crypto"
	"github.com/tendermint/relaylight/crypto/merkle"
	"github.com/tendermint/relaylight/libs/bytes"
)

// Entrypoint kinds produced by the monitored ledger.
const (
	// EntrypointKindExternal is a transaction submitted by an account.
	EntrypointKindExternal = "external"
	// EntrypointKindTime is a transaction produced by a time trigger.
	EntrypointKindTime = "time"
)

// TransactionEntrypoint is the part of a transaction that is committed to by
// the block merkle root. Payload is opaque here; it is interpreted by the
// handler registered for Kind.
type TransactionEntrypoint struct {
	Kind    string         `json:"kind"`
	Payload bytes.HexBytes `json:"payload"`
}

// Hash returns the entrypoint digest under crypto.DefaultHasher.
func (e TransactionEntrypoint) Hash() crypto.Digest {
	return e.HashWith(crypto.DefaultHasher)
}

// HashWith returns the digest of the canonical entrypoint encoding. This is
// the merkle leaf of the transaction.
func (e TransactionEntrypoint) HashWith(hasher crypto.Hasher) crypto.Digest {
	return hasher.Hash(e.CanonicalBytes())
}

func (e TransactionEntrypoint) ValidateBasic() error {
	if e.Kind == "" {
		return errors.New("entrypoint kind is empty")
	}
	return nil
}

// CommittedTransaction is a transaction a relay claims is part of a block.
type CommittedTransaction struct {
	// EntrypointHash is the merkle leaf; it must equal Entrypoint.Hash().
	EntrypointHash crypto.Digest `json:"entrypoint_hash"`
	// EntrypointProof proves EntrypointHash is under the block merkle root.
	EntrypointProof merkle.Path `json:"entrypoint_proof"`
	// BlockHash is the hash of the block the transaction claims to belong to.
	BlockHash  crypto.Digest         `json:"block_hash"`
	Entrypoint TransactionEntrypoint `json:"entrypoint"`
}

func (tx *CommittedTransaction) ValidateBasic() error {
	if err := tx.Entrypoint.ValidateBasic(); err != nil {
		return fmt.Errorf("transaction %v: %w", tx.EntrypointHash, err)
	}
	return nil
}

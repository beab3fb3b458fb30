package types

import (
	"errors"
	"fmt"

	"github.com/tendermint/relaylight/crypto"
)

// ChainSnapshot is the trusted state kept for one monitored chain: the
// validator set and the last verified block header.
//
// A snapshot is replaced wholesale on every accepted block; it is never
// patched in place.
type ChainSnapshot struct {
	// Validators must be set when the snapshot is created.
	Validators *ValidatorSet `json:"validators"`
	// Block is nil until the first block is accepted.
	Block *BlockHeader `json:"block"`
}

// NewGenesisSnapshot returns the snapshot of a chain no block was accepted
// for yet.
func NewGenesisSnapshot(vals *ValidatorSet) *ChainSnapshot {
	return &ChainSnapshot{Validators: vals}
}

// ValidateBasic performs stateless validation of the snapshot.
func (s *ChainSnapshot) ValidateBasic() error {
	if s == nil {
		return errors.New("nil snapshot")
	}
	if err := s.Validators.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid validators: %w", err)
	}
	if s.Block != nil {
		if err := s.Block.ValidateBasic(); err != nil {
			return fmt.Errorf("invalid block: %w", err)
		}
	}
	return nil
}

// IsGenesis reports whether no block was accepted yet.
func (s *ChainSnapshot) IsGenesis() bool {
	return s.Block == nil
}

// Height returns the height of the last accepted block, or 0 at genesis.
func (s *ChainSnapshot) Height() uint64 {
	if s.IsGenesis() {
		return 0
	}
	return s.Block.Height
}

// TipHash returns the hash of the last accepted block, or nil at genesis.
func (s *ChainSnapshot) TipHash(hasher crypto.Hasher) *crypto.Digest {
	if s.IsGenesis() {
		return nil
	}
	return DigestPtr(s.Block.HashWith(hasher))
}

// WithBlock returns a new snapshot with the same validators and h as the
// last accepted block. s is left untouched.
func (s *ChainSnapshot) WithBlock(h *BlockHeader) *ChainSnapshot {
	return &ChainSnapshot{
		Validators: s.Validators,
		Block:      h.Copy(),
	}
}

// Copy returns a deep copy of the snapshot.
func (s *ChainSnapshot) Copy() *ChainSnapshot {
	if s == nil {
		return nil
	}
	return &ChainSnapshot{
		Validators: s.Validators.Copy(),
		Block:      s.Block.Copy(),
	}
}

func (s *ChainSnapshot) String() string {
	if s == nil {
		return "nil-ChainSnapshot"
	}
	return fmt.Sprintf("ChainSnapshot{Validators:%d Block:%v}", s.Validators.Size(), s.Block)
}

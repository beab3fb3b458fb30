package store

import (
	"context"

	"github.com/tendermint/relaylight/types"
)

// Revision identifies the stored encoding of a snapshot, as read by
// LoadRevision. A nil Revision stands for "nothing stored".
type Revision []byte

// Store is anything that can persistently store chain snapshots, one per
// chain key.
type Store interface {
	// Load returns the snapshot saved under chainKey.
	//
	// If no snapshot was ever saved, ErrSnapshotNotFound is returned. If the
	// stored bytes do not decode to a valid snapshot, ErrCorruptState is
	// returned.
	Load(ctx context.Context, chainKey string) (*types.ChainSnapshot, error)

	// LoadRevision is Load that also returns the revision the snapshot was
	// read from, for a later CompareAndSave.
	LoadRevision(ctx context.Context, chainKey string) (*types.ChainSnapshot, Revision, error)

	// Save unconditionally writes snapshot under chainKey.
	//
	// Backend failures are returned as ErrPersistence.
	Save(ctx context.Context, chainKey string, snapshot *types.ChainSnapshot) error

	// CompareAndSave writes next under chainKey only if the stored bytes are
	// still exactly prev. A nil prev means nothing must be stored yet.
	//
	// If another writer got there first, ErrConcurrentUpdate is returned.
	CompareAndSave(ctx context.Context, chainKey string, prev Revision, next *types.ChainSnapshot) error
}

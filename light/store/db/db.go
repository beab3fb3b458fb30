package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tendermint/relaylight/kv"
	"github.com/tendermint/relaylight/light/store"
	"github.com/tendermint/relaylight/types"
)

type dbs struct {
	kv      kv.Store
	storeID string
}

// New returns a Store keeping snapshots in the storeID store of the key/value
// backend. Several chains can share storeID; they are kept apart by chain
// key.
//
// Snapshots are encoded as JSON.
func New(kvStore kv.Store, storeID string) store.Store {
	return &dbs{kv: kvStore, storeID: storeID}
}

// Load implements store.Store.
func (s *dbs) Load(ctx context.Context, chainKey string) (*types.ChainSnapshot, error) {
	snapshot, _, err := s.LoadRevision(ctx, chainKey)
	return snapshot, err
}

// LoadRevision implements store.Store. The revision is the raw value read
// from the key/value store, whatever JSON layout it was written in.
func (s *dbs) LoadRevision(ctx context.Context, chainKey string) (*types.ChainSnapshot, store.Revision, error) {
	bz, err := s.kv.Get(ctx, s.storeID, chainKey)
	if err != nil {
		return nil, nil, store.ErrPersistence{ChainKey: chainKey, Reason: err}
	}
	if bz == nil {
		return nil, nil, store.ErrSnapshotNotFound
	}

	snapshot := new(types.ChainSnapshot)
	if err := json.Unmarshal(bz, snapshot); err != nil {
		return nil, nil, store.ErrCorruptState{ChainKey: chainKey, Reason: err}
	}
	if err := snapshot.ValidateBasic(); err != nil {
		return nil, nil, store.ErrCorruptState{ChainKey: chainKey, Reason: err}
	}
	return snapshot, store.Revision(bz), nil
}

// Save implements store.Store.
func (s *dbs) Save(ctx context.Context, chainKey string, snapshot *types.ChainSnapshot) error {
	bz, err := encode(snapshot)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.storeID, chainKey, bz); err != nil {
		return store.ErrPersistence{ChainKey: chainKey, Reason: err}
	}
	return nil
}

// CompareAndSave implements store.Store.
func (s *dbs) CompareAndSave(ctx context.Context, chainKey string, prev store.Revision, next *types.ChainSnapshot) error {
	bz, err := encode(next)
	if err != nil {
		return err
	}

	swapped, err := s.kv.CompareAndSwap(ctx, s.storeID, chainKey, prev, bz)
	if err != nil {
		return store.ErrPersistence{ChainKey: chainKey, Reason: err}
	}
	if !swapped {
		return store.ErrConcurrentUpdate
	}
	return nil
}

func encode(snapshot *types.ChainSnapshot) ([]byte, error) {
	if err := snapshot.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("refusing to store invalid snapshot: %w", err)
	}
	bz, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return bz, nil
}

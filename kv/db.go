package kv

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/google/orderedcode"
	dbm "github.com/tendermint/tm-db"
)

// DBStore is a Store backed by a tm-db database. Keys are encoded as the
// ordered pair (store id, key) so that stores never collide.
type DBStore struct {
	// guards the read-modify-write of CompareAndSwap
	mtx sync.Mutex
	db  dbm.DB
}

var _ Store = (*DBStore)(nil)

// NewDBStore returns a Store writing to db.
func NewDBStore(db dbm.DB) *DBStore {
	return &DBStore{db: db}
}

// NewMemStore returns a Store kept in memory. Used by tests and the memdb
// backend.
func NewMemStore() *DBStore {
	return NewDBStore(dbm.NewMemDB())
}

// Get implements Store.
func (s *DBStore) Get(ctx context.Context, storeID, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dbKey, err := encodeKey(storeID, key)
	if err != nil {
		return nil, err
	}
	return s.db.Get(dbKey)
}

// Set implements Store.
func (s *DBStore) Set(ctx context.Context, storeID, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if value == nil {
		return ErrNilValue
	}
	dbKey, err := encodeKey(storeID, key)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.db.SetSync(dbKey, value)
}

// CompareAndSwap implements Store. The comparison and the write happen under
// one lock, so it is atomic with respect to every other writer going through
// s. Writers sharing the database through another DBStore are not excluded.
func (s *DBStore) CompareAndSwap(ctx context.Context, storeID, key string, old, value []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if value == nil {
		return false, ErrNilValue
	}
	dbKey, err := encodeKey(storeID, key)
	if err != nil {
		return false, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	current, err := s.db.Get(dbKey)
	if err != nil {
		return false, err
	}
	if (current == nil) != (old == nil) || !bytes.Equal(current, old) {
		return false, nil
	}
	if err := s.db.SetSync(dbKey, value); err != nil {
		return false, err
	}
	return true, nil
}

// Keys implements Store.
func (s *DBStore) Keys(ctx context.Context, storeID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix, err := orderedcode.Append(nil, storeID)
	if err != nil {
		return nil, err
	}

	iter, err := dbm.IteratePrefix(s.db, prefix)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	keys := []string{}
	for ; iter.Valid(); iter.Next() {
		id, key, err := decodeKey(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("corrupt key %X: %w", iter.Key(), err)
		}
		if id != storeID {
			continue
		}
		keys = append(keys, key)
	}
	return keys, iter.Error()
}

// Close implements Store.
func (s *DBStore) Close() error {
	return s.db.Close()
}

func encodeKey(storeID, key string) ([]byte, error) {
	if storeID == "" {
		return nil, fmt.Errorf("empty store id")
	}
	if key == "" {
		return nil, fmt.Errorf("empty key in store %q", storeID)
	}
	return orderedcode.Append(nil, storeID, key)
}

func decodeKey(dbKey []byte) (storeID, key string, err error) {
	remaining, err := orderedcode.Parse(string(dbKey), &storeID, &key)
	if err != nil {
		return "", "", err
	}
	if len(remaining) != 0 {
		return "", "", fmt.Errorf("expected complete key but got remainder: %q", remaining)
	}
	return storeID, key, nil
}

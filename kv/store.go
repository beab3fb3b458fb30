// Package kv provides the generic key/value persistence the relay state is
// kept in. Values are grouped in stores, identified by a store id, so that
// unrelated components can share one backend.
package kv

import (
	"context"
	"errors"
)

// ErrNilValue is returned when writing a nil value. Absence is represented
// by a nil value, so it cannot be stored.
var ErrNilValue = errors.New("value cannot be nil")

// Store is a key/value store partitioned by store id.
//
// All methods are safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or nil and no error when the
	// key is absent.
	Get(ctx context.Context, storeID, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, storeID, key string, value []byte) error

	// CompareAndSwap stores value under key only if the current value equals
	// old. A nil old means the key must be absent. It returns false and no
	// error when the current value differs.
	CompareAndSwap(ctx context.Context, storeID, key string, old, value []byte) (bool, error)

	// Keys lists the keys of a store in ascending order.
	Keys(ctx context.Context, storeID string) ([]string, error)

	// Close releases the underlying resources.
	Close() error
}

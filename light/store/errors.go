package store

import (
	"errors"
	"fmt"
)

var (
	// ErrSnapshotNotFound is returned when the chain was never initialized.
	ErrSnapshotNotFound = errors.New("chain snapshot not found")

	// ErrConcurrentUpdate is returned by CompareAndSave when the stored
	// snapshot changed since it was loaded.
	ErrConcurrentUpdate = errors.New("chain snapshot was updated concurrently")
)

// ErrCorruptState means the stored snapshot cannot be used.
type ErrCorruptState struct {
	ChainKey string
	Reason   error
}

func (e ErrCorruptState) Error() string {
	return fmt.Sprintf("corrupt snapshot for chain %q: %v", e.ChainKey, e.Reason)
}

// Unwrap returns underlying reason.
func (e ErrCorruptState) Unwrap() error {
	return e.Reason
}

// ErrPersistence means the backend failed to read or write a snapshot.
type ErrPersistence struct {
	ChainKey string
	Reason   error
}

func (e ErrPersistence) Error() string {
	return fmt.Sprintf("persisting snapshot for chain %q: %v", e.ChainKey, e.Reason)
}

// Unwrap returns underlying reason.
func (e ErrPersistence) Unwrap() error {
	return e.Reason
}

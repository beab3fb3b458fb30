package trigger

import (
	"errors"
	"fmt"
)

// ErrConfigDeserialize means the stored trigger configuration is unusable.
type ErrConfigDeserialize struct {
	TriggerID string
	Reason    error
}

func (e ErrConfigDeserialize) Error() string {
	return fmt.Sprintf("cannot deserialize config of trigger %q: %v", e.TriggerID, e.Reason)
}

// Unwrap returns underlying reason.
func (e ErrConfigDeserialize) Unwrap() error {
	return e.Reason
}

var (
	// ErrConfigNotFound is returned when no configuration is stored for a
	// trigger.
	ErrConfigNotFound = errors.New("cannot find trigger config")

	// ErrUnexpectedInvocationKind is returned when the driver is invoked by
	// anything else than a time event.
	ErrUnexpectedInvocationKind = errors.New("trigger is designed to work as a time trigger")
)

// ErrHandler wraps a failure of a transaction handler. The block is not
// committed.
type ErrHandler struct {
	Kind   string
	Index  int
	Reason error
}

func (e ErrHandler) Error() string {
	return fmt.Sprintf("handling %s transaction #%d: %v", e.Kind, e.Index, e.Reason)
}

// Unwrap returns underlying reason.
func (e ErrHandler) Unwrap() error {
	return e.Reason
}

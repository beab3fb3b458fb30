package log

import (
	"github.com/rs/zerolog"
)

// NewNopLogger returns a Logger that discards everything. It is backed by a
// disabled zerolog logger so it can still be overridden.
func NewNopLogger() Logger {
	return &defaultLogger{
		Logger: zerolog.Nop(),
	}
}

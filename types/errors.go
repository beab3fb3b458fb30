package types

import (
	"errors"
	"fmt"
)

// ErrNoSignatures is returned when a header comes with no signatures at all.
var ErrNoSignatures = errors.New("no signatures")

// ErrInsufficientQuorum is returned when fewer validators than required
// signed a header.
type ErrInsufficientQuorum struct {
	Recognized int
	Required   int
}

func (e ErrInsufficientQuorum) Error() string {
	return fmt.Sprintf("invalid block signatures: recognized %d, required at least %d",
		e.Recognized, e.Required)
}

// IsErrInsufficientQuorum returns true if err is related to not enough
// validators signing.
func IsErrInsufficientQuorum(err error) bool {
	var e ErrInsufficientQuorum
	return errors.As(err, &e)
}

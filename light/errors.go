package light

import (
	"errors"
	"fmt"

	"github.com/tendermint/relaylight/crypto"
)

// ErrInvalidMessage means the relay message was rejected. Reason is one of
// the errors below, or a quorum error from the types package.
type ErrInvalidMessage struct {
	Reason error
}

func (e ErrInvalidMessage) Error() string {
	return fmt.Sprintf("invalid relay message: %v", e.Reason)
}

// Unwrap returns underlying reason.
func (e ErrInvalidMessage) Unwrap() error {
	return e.Reason
}

// IsErrInvalidMessage reports whether err is a rejection of the message, as
// opposed to a failure to evaluate it.
func IsErrInvalidMessage(err error) bool {
	var e ErrInvalidMessage
	return errors.As(err, &e)
}

// ErrHeightMismatch means the message header is neither the trusted tip nor
// its direct successor.
type ErrHeightMismatch struct {
	Expected uint64
	Got      uint64
}

func (e ErrHeightMismatch) Error() string {
	return fmt.Sprintf("expected block at height %d, got %d", e.Expected, e.Got)
}

// ErrChainLinkageBroken means the header does not point at the trusted tip.
// Expected is nil when the trusted state is at genesis.
type ErrChainLinkageBroken struct {
	Expected *crypto.Digest
	Got      *crypto.Digest
}

func (e ErrChainLinkageBroken) Error() string {
	return fmt.Sprintf("previous block hash %v does not match trusted tip %v",
		digestOrNone(e.Got), digestOrNone(e.Expected))
}

// ErrEmptyBlockWithTransactions means transactions were claimed for a block
// without a merkle root.
var ErrEmptyBlockWithTransactions = errors.New("transactions claimed for a block without merkle root")

// ErrTransactionBlockMismatch means a transaction claims to belong to another
// block than the one being verified.
type ErrTransactionBlockMismatch struct {
	Index    int
	Expected crypto.Digest
	Got      crypto.Digest
}

func (e ErrTransactionBlockMismatch) Error() string {
	return fmt.Sprintf("transaction #%d: block hash %v does not match header hash %v",
		e.Index, e.Got, e.Expected)
}

// ErrEntrypointHashMismatch means the claimed merkle leaf is not the hash of
// the entrypoint it is sent with.
type ErrEntrypointHashMismatch struct {
	Index    int
	Claimed  crypto.Digest
	Computed crypto.Digest
}

func (e ErrEntrypointHashMismatch) Error() string {
	return fmt.Sprintf("transaction #%d: entrypoint hash %v, computed %v",
		e.Index, e.Claimed, e.Computed)
}

// ErrUnprovenTransaction means the inclusion proof of a transaction does not
// lead to the header merkle root, or is too deep.
type ErrUnprovenTransaction struct {
	Index          int
	EntrypointHash crypto.Digest
	Depth          int
}

func (e ErrUnprovenTransaction) Error() string {
	return fmt.Sprintf("transaction #%d (%v): inclusion proof of depth %d does not verify",
		e.Index, e.EntrypointHash, e.Depth)
}

func digestOrNone(d *crypto.Digest) string {
	if d == nil {
		return "none"
	}
	return d.String()
}

package light

import (
	"errors"
	"fmt"

	"github.com/tendermint/relaylight/crypto"
	"github.com/tendermint/relaylight/crypto/merkle"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/types"
)

// Status is the outcome of a successful verification.
type Status int

const (
	// StatusAccepted means the message extends the trusted chain by one block.
	StatusAccepted Status = iota + 1
	// StatusStale means the message is for the block already trusted. Nothing
	// changes.
	StatusStale
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusStale:
		return "stale"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is what Verify returns when the message is not rejected.
type Outcome struct {
	Status Status
	// Snapshot is the new trusted state when Status is StatusAccepted, and
	// a copy of the unchanged input snapshot when it is StatusStale.
	Snapshot *types.ChainSnapshot
	// Transactions proven included in the accepted block, in message order.
	Transactions []types.CommittedTransaction
}

// Option sets a parameter for the verifier.
type Option func(*Verifier)

// WithHasher sets the hash function headers and merkle trees are built
// with. Default: crypto.DefaultHasher.
func WithHasher(h crypto.Hasher) Option {
	return func(v *Verifier) {
		v.hasher = h
	}
}

// WithQuorumPolicy sets the number of signatures a header needs. Default:
// types.FloorThirdsQuorum.
func WithQuorumPolicy(p types.QuorumPolicy) Option {
	return func(v *Verifier) {
		v.policy = p
	}
}

// WithMaxProofDepth bounds the length of transaction inclusion proofs.
// Default: merkle.DefaultMaxDepth.
func WithMaxProofDepth(depth int) Option {
	return func(v *Verifier) {
		v.maxProofDepth = depth
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(v *Verifier) {
		v.logger = l
	}
}

// WithMetrics sets the metrics.
func WithMetrics(m *Metrics) Option {
	return func(v *Verifier) {
		v.metrics = m
	}
}

// Verifier decides whether a relay message can be trusted given a chain
// snapshot. It holds no state of its own and is safe for concurrent use.
type Verifier struct {
	hasher        crypto.Hasher
	policy        types.QuorumPolicy
	maxProofDepth int

	logger  log.Logger
	metrics *Metrics
}

// NewVerifier returns a verifier with the given options applied over the
// defaults.
func NewVerifier(options ...Option) *Verifier {
	v := &Verifier{
		hasher:        crypto.DefaultHasher,
		policy:        types.FloorThirdsQuorum,
		maxProofDepth: merkle.DefaultMaxDepth,
		logger:        log.NewNopLogger(),
		metrics:       NopMetrics(),
	}
	for _, o := range options {
		o(v)
	}
	return v
}

// Verify checks msg against the trusted snapshot. It ensures that:
//
//	a) the header is the direct successor of the trusted tip (the tip itself
//	   yields StatusStale)
//	b) the header points at the trusted tip
//	c) enough trusted validators signed the header
//	d) every claimed transaction belongs to the header and is proven under
//	   its merkle root
//
// Checks run in that order and the first failure is returned wrapped in
// ErrInvalidMessage. Any other error means the snapshot itself is unusable.
// snapshot is never modified.
func (v *Verifier) Verify(snapshot *types.ChainSnapshot, msg *types.RelayBlockMessage) (Outcome, error) {
	if err := snapshot.ValidateBasic(); err != nil {
		return Outcome{}, fmt.Errorf("trusted snapshot: %w", err)
	}
	if msg == nil {
		return Outcome{}, errors.New("nil message")
	}

	outcome, err := v.verify(snapshot, msg)
	switch {
	case err != nil:
		v.metrics.Outcomes.With("outcome", "rejected").Add(1)
		v.logger.Debug("rejected relay message", "height", msg.Header.Height, "err", err)
		return Outcome{}, ErrInvalidMessage{Reason: err}
	case outcome.Status == StatusStale:
		v.metrics.Outcomes.With("outcome", "stale").Add(1)
		v.logger.Debug("relay message is for the trusted tip", "height", msg.Header.Height)
	default:
		v.metrics.Outcomes.With("outcome", "accepted").Add(1)
		v.metrics.Height.Set(float64(msg.Header.Height))
		v.metrics.ProvenTransactions.Add(float64(len(outcome.Transactions)))
		v.metrics.Validators.Set(float64(snapshot.Validators.Size()))
		v.logger.Info("accepted block",
			"height", msg.Header.Height,
			"hash", outcome.Snapshot.Block.HashWith(v.hasher),
			"txs", len(outcome.Transactions))
	}
	return outcome, nil
}

func (v *Verifier) verify(snapshot *types.ChainSnapshot, msg *types.RelayBlockMessage) (Outcome, error) {
	header := &msg.Header

	expected := snapshot.Height()
	switch header.Height {
	case expected:
		return Outcome{Status: StatusStale, Snapshot: snapshot.Copy()}, nil
	case expected + 1:
	default:
		return Outcome{}, ErrHeightMismatch{Expected: expected + 1, Got: header.Height}
	}

	if err := msg.ValidateBasic(); err != nil {
		return Outcome{}, err
	}

	tip := snapshot.TipHash(v.hasher)
	if !types.DigestsEqual(tip, header.PrevBlockHash) {
		return Outcome{}, ErrChainLinkageBroken{Expected: tip, Got: header.PrevBlockHash}
	}

	headerHash := header.HashWith(v.hasher)
	if err := snapshot.Validators.VerifySignatures(headerHash, msg.Signatures, v.policy); err != nil {
		return Outcome{}, err
	}

	txs, err := v.verifyTransactions(header, headerHash, msg.InterestingTransactions)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Status:       StatusAccepted,
		Snapshot:     snapshot.WithBlock(header),
		Transactions: txs,
	}, nil
}

func (v *Verifier) verifyTransactions(
	header *types.BlockHeader,
	headerHash crypto.Digest,
	txs []types.CommittedTransaction,
) ([]types.CommittedTransaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}
	if header.MerkleRoot == nil {
		return nil, ErrEmptyBlockWithTransactions
	}

	verified := make([]types.CommittedTransaction, len(txs))
	for i, tx := range txs {
		if tx.BlockHash != headerHash {
			return nil, ErrTransactionBlockMismatch{Index: i, Expected: headerHash, Got: tx.BlockHash}
		}
		if computed := tx.Entrypoint.HashWith(v.hasher); computed != tx.EntrypointHash {
			return nil, ErrEntrypointHashMismatch{Index: i, Claimed: tx.EntrypointHash, Computed: computed}
		}
		if !merkle.Verify(v.hasher, tx.EntrypointHash, tx.EntrypointProof, *header.MerkleRoot, v.maxProofDepth) {
			return nil, ErrUnprovenTransaction{Index: i, EntrypointHash: tx.EntrypointHash, Depth: len(tx.EntrypointProof)}
		}
		verified[i] = tx
	}
	return verified, nil
}

package trigger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tendermint/relaylight/kv"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/light"
	"github.com/tendermint/relaylight/light/store"
	"github.com/tendermint/relaylight/light/store/db"
	"github.com/tendermint/relaylight/types"
)

// Status is the outcome of an invocation that did not fail.
type Status int

const (
	// ResultNoMessage means the relay has not written any message yet.
	ResultNoMessage Status = iota + 1
	// ResultStale means the message is for the block already trusted.
	ResultStale
	// ResultAccepted means a new block was verified and committed.
	ResultAccepted
	// ResultRejected means the message was invalid. Nothing was written.
	ResultRejected
)

func (s Status) String() string {
	switch s {
	case ResultNoMessage:
		return "no_message"
	case ResultStale:
		return "stale"
	case ResultAccepted:
		return "accepted"
	case ResultRejected:
		return "rejected"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result describes one invocation.
type Result struct {
	InvocationID string
	Status       Status
	// Height of the relay message, if there was one.
	Height uint64
	// Handled is the number of transactions given to handlers.
	Handled int
	// Reason is why the message was rejected. Only set with ResultRejected.
	Reason error
}

// DriverOption sets an optional parameter on the Driver.
type DriverOption func(*Driver)

// WithHandlers sets the handlers accepted transactions are dispatched to.
// Without it, accepted transactions are only logged.
func WithHandlers(r *HandlerRegistry) DriverOption {
	return func(d *Driver) { d.handlers = r }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) DriverOption {
	return func(d *Driver) { d.logger = l }
}

// WithMetrics sets the metrics.
func WithMetrics(m *Metrics) DriverOption {
	return func(d *Driver) { d.metrics = m }
}

// Driver runs one trigger invocation end to end: it reads the trigger
// configuration, loads the trusted snapshot and the pending relay message,
// verifies the message and commits the new snapshot.
//
// The driver holds no lock. Two invocations racing on the same chain key are
// resolved when saving: the loser gets store.ErrConcurrentUpdate.
type Driver struct {
	configs  ConfigProvider
	kv       kv.Store
	verifier *light.Verifier
	handlers *HandlerRegistry

	logger  log.Logger
	metrics *Metrics
}

// NewDriver returns a driver reading snapshots and relay messages from
// kvStore.
func NewDriver(configs ConfigProvider, kvStore kv.Store, verifier *light.Verifier, options ...DriverOption) *Driver {
	d := &Driver{
		configs:  configs,
		kv:       kvStore,
		verifier: verifier,
		handlers: NewHandlerRegistry(),
		logger:   log.NewNopLogger(),
		metrics:  NopMetrics(),
	}
	for _, o := range options {
		o(d)
	}
	return d
}

// Run handles one invocation.
//
// A rejected message is not an error: Run returns ResultRejected with the
// reason and leaves the snapshot untouched. Errors are reserved for
// invocations that could not be evaluated or committed: wrong event kind,
// missing or broken configuration, unusable snapshot, handler or persistence
// failures.
func (d *Driver) Run(ctx context.Context, ev Event) (res Result, err error) {
	res.InvocationID = uuid.NewString()
	logger := d.logger.With("trigger", ev.TriggerID, "invocation", res.InvocationID)
	start := time.Now()

	defer func() {
		d.metrics.InvocationSeconds.With("trigger_id", ev.TriggerID).Observe(time.Since(start).Seconds())
		if err != nil {
			d.metrics.Failures.With("trigger_id", ev.TriggerID).Add(1)
			logger.Error("invocation failed", "err", err)
			return
		}
		d.metrics.Invocations.With("trigger_id", ev.TriggerID, "result", res.Status.String()).Add(1)
	}()

	if ev.Kind != EventTime {
		return res, fmt.Errorf("%w: got %v event", ErrUnexpectedInvocationKind, ev.Kind)
	}

	cfg, err := d.configs.ReadConfig(ctx, ev.TriggerID)
	if err != nil {
		return res, err
	}
	logger = logger.With("chain", cfg.AdminStoreChainKey)

	snapshots := db.New(d.kv, cfg.AdminStore)
	snapshot, rev, err := snapshots.LoadRevision(ctx, cfg.AdminStoreChainKey)
	if err != nil {
		return res, err
	}

	msg, err := d.readMessage(ctx, cfg)
	switch {
	case light.IsErrInvalidMessage(err):
		logger.Info("rejected relay message", "reason", err)
		res.Status, res.Reason = ResultRejected, err
		return res, nil
	case err != nil:
		return res, err
	case msg == nil:
		logger.Debug("no relay message found")
		res.Status = ResultNoMessage
		return res, nil
	}
	res.Height = msg.Header.Height

	outcome, err := d.verifier.Verify(snapshot, msg)
	switch {
	case light.IsErrInvalidMessage(err):
		logger.Info("rejected relay message", "height", msg.Header.Height, "reason", err)
		res.Status, res.Reason = ResultRejected, err
		return res, nil
	case err != nil:
		return res, err
	case outcome.Status == light.StatusStale:
		logger.Debug("no updates detected", "height", msg.Header.Height)
		res.Status = ResultStale
		return res, nil
	}

	hctx := HandlerContext{
		TriggerID: ev.TriggerID,
		Mode:      cfg.Mode,
		Chains:    cfg.Chains,
		Header:    outcome.Snapshot.Block,
	}
	res.Handled, err = d.handlers.Dispatch(ctx, hctx, outcome.Transactions, logger)
	d.metrics.HandledTransactions.With("trigger_id", ev.TriggerID).Add(float64(res.Handled))
	if err != nil {
		return res, err
	}

	if err := snapshots.CompareAndSave(ctx, cfg.AdminStoreChainKey, rev, outcome.Snapshot); err != nil {
		return res, err
	}

	logger.Info("committed block",
		"height", msg.Header.Height,
		"txs", len(outcome.Transactions),
		"handled", res.Handled)
	res.Status = ResultAccepted
	return res, nil
}

// readMessage returns the pending relay message, or nil if there is none.
// A message that cannot be decoded is reported as a rejection.
func (d *Driver) readMessage(ctx context.Context, cfg *Config) (*types.RelayBlockMessage, error) {
	bz, err := d.kv.Get(ctx, cfg.RelayStore, cfg.RelayStoreMessageKey)
	if err != nil {
		return nil, store.ErrPersistence{ChainKey: cfg.AdminStoreChainKey, Reason: err}
	}
	if bz == nil {
		return nil, nil
	}

	msg := new(types.RelayBlockMessage)
	if err := json.Unmarshal(bz, msg); err != nil {
		return nil, light.ErrInvalidMessage{Reason: fmt.Errorf("cannot deserialize relay message: %w", err)}
	}
	return msg, nil
}

// StoreMessage validates msg and stores it as the pending relay message of
// the trigger configured by cfg, replacing any previous one. A message
// failing stateless validation is reported as light.ErrInvalidMessage.
func StoreMessage(ctx context.Context, kvStore kv.Store, cfg *Config, msg *types.RelayBlockMessage) error {
	if err := msg.ValidateBasic(); err != nil {
		return light.ErrInvalidMessage{Reason: err}
	}
	bz, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding relay message: %w", err)
	}
	if err := kvStore.Set(ctx, cfg.RelayStore, cfg.RelayStoreMessageKey, bz); err != nil {
		return store.ErrPersistence{ChainKey: cfg.AdminStoreChainKey, Reason: err}
	}
	return nil
}

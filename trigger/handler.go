package trigger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/types"
)

// HandlerContext is what a handler knows about the block it is applying a
// transaction from.
type HandlerContext struct {
	TriggerID string
	Mode      Mode
	Chains    map[string]ChainConfig
	// Header of the accepted block.
	Header *types.BlockHeader
}

// Handler applies a proven transaction to the local ledger.
//
// A handler may be called again for the same transaction if the snapshot
// could not be saved afterwards, so it must be idempotent.
type Handler interface {
	HandleTransaction(ctx context.Context, hctx HandlerContext, tx types.CommittedTransaction) error
}

// HandlerFunc is an adapter to use ordinary functions as handlers.
type HandlerFunc func(ctx context.Context, hctx HandlerContext, tx types.CommittedTransaction) error

// HandleTransaction calls f.
func (f HandlerFunc) HandleTransaction(ctx context.Context, hctx HandlerContext, tx types.CommittedTransaction) error {
	return f(ctx, hctx, tx)
}

// HandlerRegistry maps entrypoint kinds to handlers.
type HandlerRegistry struct {
	mtx      sync.RWMutex
	handlers map[string]Handler
}

// NewHandlerRegistry returns an empty registry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]Handler)}
}

// Register sets the handler of kind. Each kind has at most one handler.
func (r *HandlerRegistry) Register(kind string, h Handler) error {
	if kind == "" {
		return fmt.Errorf("empty entrypoint kind")
	}
	if h == nil {
		return fmt.Errorf("nil handler for %q", kind)
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.handlers[kind]; ok {
		return fmt.Errorf("handler for %q already registered", kind)
	}
	r.handlers[kind] = h
	return nil
}

// Kinds returns the kinds with a handler, sorted.
func (r *HandlerRegistry) Kinds() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	kinds := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func (r *HandlerRegistry) get(kind string) (Handler, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	h, ok := r.handlers[kind]
	return h, ok
}

// Dispatch hands every transaction to the handler of its kind, in order, and
// returns how many were handled. Transactions of unknown kinds are skipped.
// The first handler failure stops the dispatch.
func (r *HandlerRegistry) Dispatch(
	ctx context.Context,
	hctx HandlerContext,
	txs []types.CommittedTransaction,
	logger log.Logger,
) (int, error) {
	handled := 0
	for i, tx := range txs {
		h, ok := r.get(tx.Entrypoint.Kind)
		if !ok {
			logger.Info("no handler for transaction; skipping",
				"kind", tx.Entrypoint.Kind, "hash", tx.EntrypointHash)
			continue
		}
		if err := h.HandleTransaction(ctx, hctx, tx); err != nil {
			return handled, ErrHandler{Kind: tx.Entrypoint.Kind, Index: i, Reason: err}
		}
		handled++
	}
	return handled, nil
}

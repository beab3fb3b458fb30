package trigger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/relaylight/internal/test/factory"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/types"
)

type recordingHandler struct {
	txs  []types.CommittedTransaction
	hctx []HandlerContext
	err  error
}

func (h *recordingHandler) HandleTransaction(_ context.Context, hctx HandlerContext, tx types.CommittedTransaction) error {
	if h.err != nil {
		return h.err
	}
	h.txs = append(h.txs, tx)
	h.hctx = append(h.hctx, hctx)
	return nil
}

func TestHandlerRegistryRegister(t *testing.T) {
	r := NewHandlerRegistry()
	require.NoError(t, r.Register(types.EntrypointKindExternal, &recordingHandler{}))
	require.NoError(t, r.Register(types.EntrypointKindTime, HandlerFunc(
		func(context.Context, HandlerContext, types.CommittedTransaction) error { return nil })))

	assert.Error(t, r.Register(types.EntrypointKindExternal, &recordingHandler{}))
	assert.Error(t, r.Register("", &recordingHandler{}))
	assert.Error(t, r.Register("custom", nil))

	assert.Equal(t, []string{types.EntrypointKindExternal, types.EntrypointKindTime}, r.Kinds())
}

func TestHandlerRegistryDispatch(t *testing.T) {
	ctx := context.Background()
	external := &recordingHandler{}
	r := NewHandlerRegistry()
	require.NoError(t, r.Register(types.EntrypointKindExternal, external))

	entrypoints := append(
		factory.MakeEntrypoints(types.EntrypointKindExternal, 2),
		factory.MakeEntrypoints(types.EntrypointKindTime, 1)...)
	block := factory.MakeBlock(1, nil, entrypoints)
	txs := block.Committed(0, 2, 1)
	hctx := HandlerContext{TriggerID: "hub-a", Mode: Mode{Type: ModeHub}, Header: block.Header}

	handled, err := r.Dispatch(ctx, hctx, txs, log.TestingLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, handled)
	require.Len(t, external.txs, 2)
	assert.Equal(t, txs[0], external.txs[0])
	assert.Equal(t, txs[2], external.txs[1])
	assert.Equal(t, hctx, external.hctx[0])
}

func TestHandlerRegistryDispatchStopsOnError(t *testing.T) {
	boom := errors.New("ledger unavailable")
	r := NewHandlerRegistry()
	require.NoError(t, r.Register(types.EntrypointKindExternal, &recordingHandler{err: boom}))

	block := factory.MakeChain(1, 3)[0]
	handled, err := r.Dispatch(context.Background(), HandlerContext{}, block.Committed(0, 1, 2), log.TestingLogger())

	assert.Equal(t, 0, handled)
	var herr ErrHandler
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, 0, herr.Index)
	assert.ErrorIs(t, err, boom)
}

package trigger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/relaylight/internal/test/factory"
	"github.com/tendermint/relaylight/libs/log"
)

type countingRunner struct {
	mtx     sync.Mutex
	calls   map[string]int
	running map[string]bool
	overlap int32
	err     error
}

func newCountingRunner() *countingRunner {
	return &countingRunner{calls: make(map[string]int), running: make(map[string]bool)}
}

func (r *countingRunner) Run(ctx context.Context, ev Event) (Result, error) {
	r.mtx.Lock()
	if r.running[ev.TriggerID] {
		atomic.AddInt32(&r.overlap, 1)
	}
	r.running[ev.TriggerID] = true
	r.calls[ev.TriggerID]++
	r.mtx.Unlock()

	time.Sleep(time.Millisecond)

	r.mtx.Lock()
	r.running[ev.TriggerID] = false
	r.mtx.Unlock()
	return Result{Status: ResultNoMessage}, r.err
}

func (r *countingRunner) count(id string) int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.calls[id]
}

func TestSchedulerRunsEveryTrigger(t *testing.T) {
	defer leaktest.Check(t)()

	runner := newCountingRunner()
	s := NewScheduler(runner, 5*time.Millisecond, []string{"hub-a", "hub-b"}, log.TestingLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return runner.count("hub-a") >= 3 && runner.count("hub-b") >= 3
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Zero(t, atomic.LoadInt32(&runner.overlap))
}

func TestSchedulerKeepsGoingAfterFailures(t *testing.T) {
	defer leaktest.Check(t)()

	runner := newCountingRunner()
	runner.err = errors.New("snapshot not found")
	s := NewScheduler(runner, time.Millisecond, []string{"hub-a"}, log.TestingLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return runner.count("hub-a") >= 3 }, 5*time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestSchedulerInvalid(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, NewScheduler(newCountingRunner(), 0, []string{"hub-a"}, log.TestingLogger()).Run(ctx))
	assert.Error(t, NewScheduler(newCountingRunner(), time.Second, nil, log.TestingLogger()).Run(ctx))
}

func TestSchedulerDrivesChain(t *testing.T) {
	defer leaktest.Check(t)()

	f := newDriverFixture(t)
	block := factory.MakeChain(1, 1)[0]
	f.submit(t, factory.MakeMessage(t, f.pkz, block, 4, 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewScheduler(f.driver, 5*time.Millisecond, []string{testTriggerID}, log.TestingLogger()).Run(ctx)
	}()

	require.Eventually(t, func() bool {
		snapshot, err := f.snapshots.Load(context.Background(), f.cfg.AdminStoreChainKey)
		return err == nil && snapshot.Height() == 1
	}, 5*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	// later invocations see a stale message and do not handle it again
	assert.Len(t, f.handler.txs, 1)
}

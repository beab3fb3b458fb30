package trigger

import (
	"context"
	"errors"
	"time"

	"github.com/creachadair/taskgroup"

	"github.com/tendermint/relaylight/libs/log"
)

// Runner handles one invocation. *Driver is the production Runner.
type Runner interface {
	Run(ctx context.Context, ev Event) (Result, error)
}

// Scheduler fires a time event for each trigger every interval.
//
// Each trigger runs in its own goroutine, so a slow trigger never delays the
// others, while invocations of one trigger never overlap. A failed
// invocation is logged and retried on the next tick.
type Scheduler struct {
	runner     Runner
	interval   time.Duration
	triggerIDs []string
	logger     log.Logger
}

// NewScheduler returns a scheduler invoking runner for triggerIDs.
func NewScheduler(runner Runner, interval time.Duration, triggerIDs []string, logger log.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		triggerIDs: append([]string(nil), triggerIDs...),
		logger:     logger,
	}
}

// Run blocks until ctx is done. The first invocation of every trigger
// happens immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("scheduler interval must be positive")
	}
	if len(s.triggerIDs) == 0 {
		return errors.New("no triggers to schedule")
	}

	s.logger.Info("starting scheduler", "triggers", s.triggerIDs, "interval", s.interval)

	g := taskgroup.New(nil)
	for _, id := range s.triggerIDs {
		id := id
		g.Go(func() error {
			s.loop(ctx, id)
			return nil
		})
	}
	err := g.Wait()

	s.logger.Info("scheduler stopped")
	return err
}

func (s *Scheduler) loop(ctx context.Context, triggerID string) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger := s.logger.With("trigger", triggerID)
	now := time.Now()
	for {
		res, err := s.runner.Run(ctx, NewTimeEvent(triggerID, now))
		switch {
		case err != nil:
			// the driver logs and counts failures; nothing to retry until the
			// next tick
		case res.Status == ResultRejected:
			logger.Debug("invocation done", "status", res.Status, "reason", res.Reason)
		default:
			logger.Debug("invocation done", "status", res.Status, "height", res.Height)
		}

		select {
		case <-ctx.Done():
			return
		case now = <-ticker.C:
		}
	}
}

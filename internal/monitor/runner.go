package monitor

import (
	"context"
	"errors"
	"log"
	"time"
)

// Runner invokes one fully-synchronous cycle on a fixed interval. Cycles
// never overlap: a cycle completes, including persistence, before the next
// tick is consumed. Cancellation takes effect between cycles only.
type Runner struct {
	Cycle    Cycle
	Interval time.Duration
	Logger   *log.Logger
}

func (r Runner) Run(ctx context.Context) error {
	if r.Cycle.Store == nil {
		return errors.New("store is nil")
	}
	if r.Cycle.Fetcher == nil {
		return errors.New("fetcher is nil")
	}
	if r.Interval <= 0 {
		r.Interval = 5 * time.Minute
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	// one immediate pass
	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

// runOnce logs a failed cycle and returns: availability of the monitor is
// prioritized over any single cycle's correctness. A started cycle runs to
// completion even if the runner's context is canceled mid-cycle, so
// persistence is never cut short. The per-operation timeouts keep the
// detached cycle bounded.
func (r Runner) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	rec, err := r.Cycle.Run(context.WithoutCancel(ctx))
	if err != nil {
		if r.Logger != nil {
			r.Logger.Printf("cycle %s failed: %v", rec.CycleID, err)
		}
		return
	}

	if r.Logger != nil {
		r.Logger.Printf("cycle %s: checked=%d fetch_failures=%d transitions=%d notified=%d send_failures=%d in %s",
			rec.CycleID, rec.Checked, rec.FetchFailures, rec.Transitions, rec.Notified, rec.SendFailures,
			rec.Duration.Round(time.Millisecond))
	}
}

// Package monitor drives the fetch → detect → dispatch → persist cycle.
package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/needmomatcha/stockwatch/internal/catalog"
	"github.com/needmomatcha/stockwatch/internal/detect"
	"github.com/needmomatcha/stockwatch/internal/domain"
	"github.com/needmomatcha/stockwatch/internal/fetch"
	"github.com/needmomatcha/stockwatch/internal/notify"
	"github.com/needmomatcha/stockwatch/internal/state"
)

// Cycle executes one complete pass over the catalog. All dependencies are
// explicit fields so a cycle runs in tests without network or chat access.
type Cycle struct {
	Store        state.Store
	Catalog      catalog.Catalog
	Fetcher      fetch.Fetcher
	Dispatcher   notify.Dispatcher
	FetchTimeout time.Duration
	Logger       *log.Logger
}

// Run performs one cycle: fan-out fetch, detect transitions, dispatch
// notifications, then persist observed state. Persisting after dispatch
// keeps delivery at-least-once per detected transition: a crash between
// send and persist re-detects on the next cycle.
func (c Cycle) Run(ctx context.Context) (state.CycleRecord, error) {
	startedAt := time.Now().UTC()
	rec := state.CycleRecord{
		CycleID:   "cycle_" + uuid.NewString(),
		Status:    "failed",
		StartedAt: startedAt,
	}

	variants := c.Catalog.All()

	results := fetch.FetchAll(ctx, c.Fetcher, variants, c.FetchTimeout)

	out, err := detect.Process(results, func(variantID string) (domain.Availability, error) {
		stored, ok, err := c.Store.GetStockRecord(ctx, variantID)
		if err != nil {
			return domain.AvailabilityUnknown, err
		}
		if !ok {
			return domain.AvailabilityUnknown, nil
		}
		return stored.Available, nil
	})
	if err != nil {
		c.recordCycle(ctx, &rec, startedAt)
		return rec, fmt.Errorf("detect: %w", err)
	}

	rec.Checked = out.Summary.Checked
	rec.FetchFailures = out.Summary.FetchFailures
	rec.Transitions = out.Summary.Changed

	if c.Logger != nil && out.Summary.FetchFailures > 0 {
		for _, o := range out.Outcomes {
			if o.FetchErr != "" {
				c.Logger.Printf("fetch failed for %s: %s", o.VariantID, o.FetchErr)
			}
		}
	}

	dev := c.devMode(ctx)

	dispatched, err := c.Dispatcher.Dispatch(ctx, out.Transitions, dev)
	if err != nil {
		// Leave stored state untouched so the transition re-fires next cycle.
		c.recordCycle(ctx, &rec, startedAt)
		return rec, fmt.Errorf("dispatch: %w", err)
	}
	rec.Notified = dispatched.Sent
	rec.SendFailures = dispatched.SendFailures

	for _, res := range out.Observed {
		if err := c.Store.UpsertStockRecord(ctx, res.VariantID, res.Available, res.CheckedAt); err != nil {
			c.recordCycle(ctx, &rec, startedAt)
			return rec, fmt.Errorf("persist %s: %w", res.VariantID, err)
		}
	}

	rec.Status = "completed"
	c.recordCycle(ctx, &rec, startedAt)

	return rec, nil
}

// recordCycle stamps the duration and appends the record to cycle history.
// Both completed and failed cycles land there so /v1/cycles shows outages.
// A history write failure is logged, never escalated past the cycle.
func (c Cycle) recordCycle(ctx context.Context, rec *state.CycleRecord, startedAt time.Time) {
	rec.Duration = time.Since(startedAt)
	if err := c.Store.InsertCycle(ctx, *rec); err != nil && c.Logger != nil {
		c.Logger.Printf("cycle record write failed: %v", err)
	}
}

// devMode reads the persisted dev-mode record at cycle start, so an admin
// toggle takes effect on the next cycle without a restart. Read failures
// degrade to production routing.
func (c Cycle) devMode(ctx context.Context) domain.DevMode {
	dev, ok, err := c.Store.GetDevMode(ctx)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Printf("dev mode read failed: %v", err)
		}
		return domain.DevMode{}
	}
	if !ok {
		return domain.DevMode{}
	}
	return dev
}

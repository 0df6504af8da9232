// Package fetch retrieves current availability for catalog variants.
package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

// Fetcher is the network boundary. A returned error is a per-variant fetch
// failure; it is never coerced into an availability value.
type Fetcher interface {
	FetchStock(ctx context.Context, variant domain.ProductVariant) (bool, error)
}

// Result is one variant's outcome for a cycle.
type Result struct {
	VariantID string
	Available bool
	CheckedAt time.Time
	Err       error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// FetchAll collects a Result for every catalog variant, fanning out one
// goroutine per variant with a bounded per-fetch timeout. All results are
// gathered before returning; ordering between fetches is not significant.
func FetchAll(ctx context.Context, f Fetcher, variants []domain.ProductVariant, timeout time.Duration) []Result {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	out := make([]Result, len(variants))

	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		go func(idx int, variant domain.ProductVariant) {
			defer wg.Done()

			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			available, err := f.FetchStock(fctx, variant)
			out[idx] = Result{
				VariantID: variant.ID,
				Available: available,
				CheckedAt: time.Now().UTC(),
				Err:       err,
			}
		}(i, v)
	}
	wg.Wait()

	return out
}

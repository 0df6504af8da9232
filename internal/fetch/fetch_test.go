package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

type scriptedFetcher struct {
	stock map[string]bool
	fail  map[string]error
}

func (f scriptedFetcher) FetchStock(ctx context.Context, v domain.ProductVariant) (bool, error) {
	if err, ok := f.fail[v.ID]; ok {
		return false, err
	}
	return f.stock[v.ID], nil
}

func TestFetchAll_CollectsEveryVariant(t *testing.T) {
	variants := []domain.ProductVariant{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}
	f := scriptedFetcher{
		stock: map[string]bool{"a": true, "c": true},
		fail:  map[string]error{"b": errors.New("boom")},
	}

	results := FetchAll(context.Background(), f, variants, time.Second)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	byID := make(map[string]Result, len(results))
	for _, r := range results {
		byID[r.VariantID] = r
	}

	if !byID["a"].Available || byID["a"].Failed() {
		t.Fatalf("unexpected result for a: %#v", byID["a"])
	}
	if !byID["b"].Failed() {
		t.Fatalf("expected failure for b: %#v", byID["b"])
	}
	if byID["c"].CheckedAt.IsZero() {
		t.Fatalf("expected CheckedAt to be set: %#v", byID["c"])
	}
}

func TestFetchAll_EmptyCatalog(t *testing.T) {
	results := FetchAll(context.Background(), scriptedFetcher{}, nil, time.Second)
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

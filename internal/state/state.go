package state

import (
	"context"
	"time"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

// CycleRecord is the persisted summary of one completed polling cycle.
type CycleRecord struct {
	CycleID string `json:"cycle_id"`
	Status  string `json:"status"` // completed | failed

	Checked       int `json:"checked"`
	FetchFailures int `json:"fetch_failures"`
	Transitions   int `json:"transitions"`
	Notified      int `json:"notified"`
	SendFailures  int `json:"send_failures"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

type IdempotencyRecord struct {
	StatusCode int
	BodyJSON   []byte
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

type Store interface {
	// Stock status (one record per variant; absent means unknown)
	GetStockRecord(ctx context.Context, variantID string) (domain.StockRecord, bool, error)
	UpsertStockRecord(ctx context.Context, variantID string, available bool, observedAt time.Time) error
	ListStockRecords(ctx context.Context) ([]domain.StockRecord, error)

	// User subscriptions (per-user granularity, last write wins)
	RegisterUser(ctx context.Context, userID, name string, defaultVariantIDs []string, now time.Time) (created bool, err error)
	GetSubscription(ctx context.Context, userID string) (domain.Subscription, bool, error)
	SetSubscription(ctx context.Context, userID string, variantIDs []string, now time.Time) error
	Subscribers(ctx context.Context, variantID string) ([]string, error)
	AllRegistered(ctx context.Context) ([]string, error)

	// Dev mode (persisted independently of the polling loop)
	GetDevMode(ctx context.Context) (domain.DevMode, bool, error)
	SetDevMode(ctx context.Context, mode domain.DevMode) error

	// Lifecycle notice dedupe state
	GetNoticeState(ctx context.Context, userID string) (domain.NoticeState, error)
	SetNoticeState(ctx context.Context, userID string, st domain.NoticeState) error

	// Cycle history
	InsertCycle(ctx context.Context, rec CycleRecord) error
	ListCycles(ctx context.Context, limit int) ([]CycleRecord, error)

	// Idempotency cache for the command boundary, scoped per caller so one
	// user's replay can never surface another user's response
	GetIdempotency(ctx context.Context, userID, endpoint string, idemKeyHash string) (IdempotencyRecord, bool, error)
	PutIdempotency(ctx context.Context, userID, endpoint string, idemKeyHash string, rec IdempotencyRecord) error
}

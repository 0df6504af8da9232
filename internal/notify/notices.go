package notify

import (
	"context"
	"log"
	"time"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

// NoticeStore is the slice of the state store the notice service needs.
type NoticeStore interface {
	AllRegistered(ctx context.Context) ([]string, error)
	GetNoticeState(ctx context.Context, userID string) (domain.NoticeState, error)
	SetNoticeState(ctx context.Context, userID string, st domain.NoticeState) error
	GetSubscription(ctx context.Context, userID string) (domain.Subscription, bool, error)
}

// NoticeService sends monitor lifecycle notices (pausing for maintenance,
// back online). The persisted notice state deduplicates them: a user already
// told the monitor is paused is not told again on the next shutdown.
type NoticeService struct {
	Store       NoticeStore
	Sender      Sender
	SendTimeout time.Duration
	Logger      *log.Logger
}

// NotifyPaused tells recipients the monitor is going offline. In dev mode
// only the dev user is addressed.
func (n NoticeService) NotifyPaused(ctx context.Context, dev domain.DevMode) {
	n.broadcast(ctx, dev, domain.NoticeStatePaused, maintenanceNotice)
}

// NotifyResumed tells recipients the monitor is back. Only users whose
// persisted state is paused are addressed, so a clean restart stays silent.
func (n NoticeService) NotifyResumed(ctx context.Context, dev domain.DevMode) {
	n.broadcast(ctx, dev, domain.NoticeStateActive, resumeNotice)
}

func (n NoticeService) broadcast(ctx context.Context, dev domain.DevMode, target domain.NoticeState, text string) {
	userIDs, err := n.recipients(ctx, dev)
	if err != nil {
		if n.Logger != nil {
			n.Logger.Printf("notice recipients lookup failed: %v", err)
		}
		return
	}

	for _, userID := range userIDs {
		current, err := n.Store.GetNoticeState(ctx, userID)
		if err != nil {
			if n.Logger != nil {
				n.Logger.Printf("notice state read for %s failed: %v", userID, err)
			}
			continue
		}
		if current == target {
			continue
		}

		if err := n.Store.SetNoticeState(ctx, userID, target); err != nil {
			if n.Logger != nil {
				n.Logger.Printf("notice state write for %s failed: %v", userID, err)
			}
			continue
		}

		sctx := ctx
		cancel := func() {}
		if n.SendTimeout > 0 {
			sctx, cancel = context.WithTimeout(ctx, n.SendTimeout)
		}
		err = n.Sender.SendMessage(sctx, userID, text)
		cancel()
		if err != nil && n.Logger != nil {
			n.Logger.Printf("notice send to %s failed: %v", userID, err)
		}
	}
}

func (n NoticeService) recipients(ctx context.Context, dev domain.DevMode) ([]string, error) {
	if dev.Enabled {
		if dev.UserID == "" {
			return nil, nil
		}
		_, registered, err := n.Store.GetSubscription(ctx, dev.UserID)
		if err != nil {
			return nil, err
		}
		if !registered {
			return nil, nil
		}
		return []string{dev.UserID}, nil
	}
	return n.Store.AllRegistered(ctx)
}

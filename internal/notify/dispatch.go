package notify

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/needmomatcha/stockwatch/internal/catalog"
	"github.com/needmomatcha/stockwatch/internal/domain"
)

// SubscriberLookup is the slice of the state store the dispatcher reads.
type SubscriberLookup interface {
	Subscribers(ctx context.Context, variantID string) ([]string, error)
	GetSubscription(ctx context.Context, userID string) (domain.Subscription, bool, error)
}

type RecipientOutcome struct {
	UserID  string `json:"user_id"`
	Status  string `json:"status"` // sent | failed
	Message string `json:"message,omitempty"`
}

type DispatchResult struct {
	Recipients   int                `json:"recipients"`
	Sent         int                `json:"sent"`
	SendFailures int                `json:"send_failures"`
	Outcomes     []RecipientOutcome `json:"outcomes"`
}

// Dispatcher resolves transition events to recipients and sends one digest
// per recipient. Dependencies are explicit so cycles are testable without a
// real chat platform.
type Dispatcher struct {
	Prefs       SubscriberLookup
	Catalog     catalog.Catalog
	Sender      Sender
	SendTimeout time.Duration
	Logger      *log.Logger
}

// Dispatch resolves and sends. With dev mode enabled, the dev user is the
// sole recipient for every event regardless of subscriptions, so tests never
// page real users.
func (d Dispatcher) Dispatch(ctx context.Context, transitions []domain.Transition, dev domain.DevMode) (DispatchResult, error) {
	if len(transitions) == 0 {
		return DispatchResult{}, nil
	}

	perUser, err := d.resolve(ctx, transitions, dev)
	if err != nil {
		return DispatchResult{}, err
	}

	return d.send(ctx, perUser), nil
}

func (d Dispatcher) resolve(ctx context.Context, transitions []domain.Transition, dev domain.DevMode) (map[string][]domain.Transition, error) {
	perUser := make(map[string][]domain.Transition)

	if dev.Enabled {
		if dev.UserID == "" {
			return perUser, nil
		}
		_, registered, err := d.Prefs.GetSubscription(ctx, dev.UserID)
		if err != nil {
			return nil, err
		}
		if !registered {
			if d.Logger != nil {
				d.Logger.Printf("dev mode target %q is not registered; dropping %d event(s)", dev.UserID, len(transitions))
			}
			return perUser, nil
		}
		perUser[dev.UserID] = transitions
		return perUser, nil
	}

	for _, t := range transitions {
		subs, err := d.Prefs.Subscribers(ctx, t.VariantID)
		if err != nil {
			return nil, err
		}
		for _, userID := range subs {
			perUser[userID] = append(perUser[userID], t)
		}
	}
	return perUser, nil
}

// send fans out one digest per recipient. Failures are isolated: one
// recipient's error never blocks the rest.
func (d Dispatcher) send(ctx context.Context, perUser map[string][]domain.Transition) DispatchResult {
	res := DispatchResult{
		Recipients: len(perUser),
		Outcomes:   make([]RecipientOutcome, 0, len(perUser)),
	}
	if len(perUser) == 0 {
		return res
	}

	userIDs := make([]string, 0, len(perUser))
	for id := range perUser {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, userID := range userIDs {
		text := RenderDigest(d.Catalog, perUser[userID])

		wg.Add(1)
		go func(userID, text string) {
			defer wg.Done()

			sctx := ctx
			cancel := func() {}
			if d.SendTimeout > 0 {
				sctx, cancel = context.WithTimeout(ctx, d.SendTimeout)
			}
			defer cancel()

			err := d.Sender.SendMessage(sctx, userID, text)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.SendFailures++
				res.Outcomes = append(res.Outcomes, RecipientOutcome{
					UserID:  userID,
					Status:  "failed",
					Message: err.Error(),
				})
				if d.Logger != nil {
					d.Logger.Printf("send to %s failed: %v", userID, err)
				}
				return
			}
			res.Sent++
			res.Outcomes = append(res.Outcomes, RecipientOutcome{
				UserID: userID,
				Status: "sent",
			})
		}(userID, text)
	}

	wg.Wait()

	sort.Slice(res.Outcomes, func(i, j int) bool {
		return res.Outcomes[i].UserID < res.Outcomes[j].UserID
	})
	return res
}

package domain

import "time"

// Subscription is one registered user's monitored variant set.
type Subscription struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name,omitempty"`
	VariantIDs []string  `json:"variant_ids"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

func (s Subscription) Monitors(variantID string) bool {
	for _, id := range s.VariantIDs {
		if id == variantID {
			return true
		}
	}
	return false
}

package domain

// DevMode restricts all outbound notifications to a single designated user.
// Toggled through the admin boundary and persisted independently of the
// polling loop.
type DevMode struct {
	Enabled bool   `json:"enabled"`
	UserID  string `json:"user_id,omitempty"`
}

// NoticeState tracks whether a user was last told the monitor is paused or
// active, so lifecycle notices are not repeated.
type NoticeState string

const (
	NoticeStateActive NoticeState = "active"
	NoticeStatePaused NoticeState = "paused"
)

// internal/events/messages.go
package events

import "time"

// PremiumChanged is published whenever a user's premium state changes.
type PremiumChanged struct {
	UserID           string     `json:"user_id"`
	Source           string     `json:"source"`
	Event            string     `json:"event"`
	From             string     `json:"from"`
	To               string     `json:"to"`
	SubscriptionType *string    `json:"subscription_type,omitempty"`
	PremiumEndDate   *time.Time `json:"premium_end_date,omitempty"`
	OccurredAt       time.Time  `json:"occurred_at"`
}

// PremiumSweepCompleted is published after an expiry sweep that expired users.
type PremiumSweepCompleted struct {
	Expired int64     `json:"expired"`
	RanAt   time.Time `json:"ran_at"`
}

// internal/premium/state.go
package premium

import (
	"errors"
	"time"

	"github.com/motohanem/moto-backend/internal/models"
)

var (
	ErrAlreadyPremium = errors.New("user already has premium access")
	ErrInvalidPlan    = errors.New("subscription type must be monthly or yearly")
)

type State string

const (
	StateNone          State = "NONE"
	StateActive        State = "ACTIVE"
	StateCancelPending State = "CANCEL_PENDING"
	// StateExpired is a premium user whose end date has passed but who has not
	// been swept yet.
	StateExpired State = "EXPIRED"
)

// StateOf derives the stored state of u at now. A pending cancellation is not
// stored, so it reads as active.
func StateOf(u *models.User, now time.Time) State {
	if !u.IsPremium {
		return StateNone
	}
	if u.PremiumEndDate != nil && u.PremiumEndDate.Before(now) {
		return StateExpired
	}
	return StateActive
}

// Transition describes what applying an event did.
type Transition struct {
	Event   string
	From    State
	To      State
	Changed bool
}

// Apply mutates u according to ev and reports the transition. Changed is false
// when no stored field differs afterwards.
func Apply(u *models.User, ev Event, now time.Time) Transition {
	before := snapshotOf(u)
	t := Transition{Event: ev.Name(), From: StateOf(u, now)}

	switch e := ev.(type) {
	case GrantEvent:
		u.IsPremium = true
		if e.ProductID != nil {
			product := *e.ProductID
			u.SubscriptionType = &product
		}
		if e.ExpiresAt != nil {
			end := *e.ExpiresAt
			u.PremiumEndDate = &end
		}
		if u.PremiumStartDate == nil {
			start := now
			u.PremiumStartDate = &start
		}
		t.To = StateActive
	case CancelEvent:
		t.To = StateCancelPending
	case ExpireEvent:
		reset(u)
		t.To = StateNone
	default:
		t.To = t.From
	}

	t.Changed = !snapshotOf(u).equal(before)
	return t
}

// Upgrade grants a plan bought directly in the app, starting at now.
func Upgrade(u *models.User, plan models.SubscriptionPlan, now time.Time) error {
	if !plan.Valid() {
		return ErrInvalidPlan
	}
	if u.IsPremium {
		return ErrAlreadyPremium
	}

	start := now
	var end time.Time
	if plan == models.PlanYearly {
		end = now.AddDate(1, 0, 0)
	} else {
		end = now.AddDate(0, 1, 0)
	}
	subscription := string(plan)

	u.IsPremium = true
	u.SubscriptionType = &subscription
	u.PremiumStartDate = &start
	u.PremiumEndDate = &end
	return nil
}

// Expire resets u to the non-premium state. The sweep does the same in bulk.
func Expire(u *models.User) {
	reset(u)
}

func reset(u *models.User) {
	u.IsPremium = false
	u.SubscriptionType = nil
	u.PremiumStartDate = nil
	u.PremiumEndDate = nil
}

type snapshot struct {
	isPremium bool
	subType   *string
	start     *time.Time
	end       *time.Time
}

func snapshotOf(u *models.User) snapshot {
	return snapshot{
		isPremium: u.IsPremium,
		subType:   u.SubscriptionType,
		start:     u.PremiumStartDate,
		end:       u.PremiumEndDate,
	}
}

func (s snapshot) equal(o snapshot) bool {
	return s.isPremium == o.isPremium &&
		equalString(s.subType, o.subType) &&
		equalTime(s.start, o.start) &&
		equalTime(s.end, o.end)
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Status is the premium view returned to clients.
type Status struct {
	State            State      `json:"state"`
	IsPremium        bool       `json:"isPremium"`
	SubscriptionType *string    `json:"subscriptionType"`
	PremiumStartDate *time.Time `json:"premiumStartDate"`
	PremiumEndDate   *time.Time `json:"premiumEndDate"`
}

func StatusOf(u *models.User, now time.Time) Status {
	return Status{
		State:            StateOf(u, now),
		IsPremium:        u.IsPremium,
		SubscriptionType: u.SubscriptionType,
		PremiumStartDate: u.PremiumStartDate,
		PremiumEndDate:   u.PremiumEndDate,
	}
}

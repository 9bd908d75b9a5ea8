// internal/premium/event.go

// Package premium holds the subscription lifecycle rules. It decodes billing
// webhooks into typed events and applies them to a user's premium fields
// without touching storage.
package premium

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrMalformedPayload = errors.New("malformed webhook payload")
	ErrMissingEvent     = errors.New("webhook payload has no event")
	ErrMissingUserID    = errors.New("webhook event has no app_user_id")
)

// Event types sent by RevenueCat that change premium state.
const (
	TypeInitialPurchase = "INITIAL_PURCHASE"
	TypeRenewal         = "RENEWAL"
	TypeUncancellation  = "UNCANCELLATION"
	TypeProductChange   = "PRODUCT_CHANGE"
	TypeCancellation    = "CANCELLATION"
	TypeExpiration      = "EXPIRATION"
)

// Event is one of GrantEvent, CancelEvent, ExpireEvent or UnknownEvent.
type Event interface {
	Name() string
	AppUserID() string
	isEvent()
}

// Header is shared by every event variant.
type Header struct {
	Type   string
	UserID string
}

func (h Header) Name() string      { return h.Type }
func (h Header) AppUserID() string { return h.UserID }
func (Header) isEvent()            {}

// GrantEvent starts, renews or restores access. Nil fields leave the stored
// value unchanged.
type GrantEvent struct {
	Header
	ProductID *string
	ExpiresAt *time.Time
}

// CancelEvent turns off auto-renew; access lasts until the end date.
type CancelEvent struct {
	Header
}

// ExpireEvent revokes access immediately.
type ExpireEvent struct {
	Header
}

// UnknownEvent is any type this service does not act on. It is acknowledged.
type UnknownEvent struct {
	Header
}

type webhookBody struct {
	Event *webhookEvent `json:"event"`
}

type webhookEvent struct {
	Type           string       `json:"type"`
	AppUserID      string       `json:"app_user_id"`
	ExpirationAtMs *json.Number `json:"expiration_at_ms"`
	ProductID      *string      `json:"product_id"`
}

// DecodeWebhook parses a RevenueCat webhook body. Only a body that is not JSON,
// lacks the event object or lacks the user id is an error.
func DecodeWebhook(body []byte) (Event, error) {
	var payload webhookBody
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, ErrMalformedPayload
	}
	if payload.Event == nil {
		return nil, ErrMissingEvent
	}

	raw := payload.Event
	userID := strings.TrimSpace(raw.AppUserID)
	if userID == "" {
		return nil, ErrMissingUserID
	}
	header := Header{Type: raw.Type, UserID: userID}

	switch raw.Type {
	case TypeInitialPurchase, TypeRenewal, TypeUncancellation, TypeProductChange:
		ev := GrantEvent{Header: header}
		if raw.ProductID != nil && *raw.ProductID != "" {
			product := *raw.ProductID
			ev.ProductID = &product
		}
		if raw.ExpirationAtMs != nil {
			expiresAt, err := millisToTime(*raw.ExpirationAtMs)
			if err != nil {
				return nil, ErrMalformedPayload
			}
			ev.ExpiresAt = &expiresAt
		}
		return ev, nil
	case TypeCancellation:
		return CancelEvent{Header: header}, nil
	case TypeExpiration:
		return ExpireEvent{Header: header}, nil
	default:
		return UnknownEvent{Header: header}, nil
	}
}

func millisToTime(n json.Number) (time.Time, error) {
	if ms, err := n.Int64(); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	f, err := n.Float64()
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(int64(f)).UTC(), nil
}

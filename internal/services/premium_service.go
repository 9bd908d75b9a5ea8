// internal/services/premium_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/config"
	"github.com/motohanem/moto-backend/internal/events"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/metrics"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/premium"
)

// Webhook outcomes, also used as metric labels and stored on BillingEvent.
const (
	OutcomeApplied      = "applied"
	OutcomeUnchanged    = "unchanged"
	OutcomeIgnored      = "ignored"
	OutcomeUserNotFound = "user_not_found"
)

const (
	sourceWebhook = "webhook"
	sourceUpgrade = "upgrade"
	sourceSweep   = "sweep"
)

type WebhookResult struct {
	Outcome    string              `json:"outcome"`
	Transition *premium.Transition `json:"-"`
}

type UpgradeRequest struct {
	SubscriptionType string `json:"subscriptionType" validate:"required,subscription_plan"`
}

type PlanPrice struct {
	Plan     models.SubscriptionPlan `json:"plan"`
	Price    float64                 `json:"price"`
	Currency string                  `json:"currency"`
}

type SubscriptionPrices struct {
	Monthly PlanPrice `json:"monthly"`
	Yearly  PlanPrice `json:"yearly"`
}

type PremiumService struct {
	store     PremiumStore
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
	cfg       config.PremiumConfig
	now       func() time.Time
}

func NewPremiumService(store PremiumStore, publisher events.Publisher, m *metrics.Metrics, log logrus.FieldLogger, cfg config.PremiumConfig) *PremiumService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &PremiumService{
		store:     store,
		publisher: publisher,
		metrics:   m,
		log:       log,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// HandleWebhook applies a decoded billing event. Events for users that do not
// exist are acknowledged and only logged, so the billing provider stops retrying.
func (s *PremiumService) HandleWebhook(ctx context.Context, ev premium.Event, raw []byte) (*WebhookResult, error) {
	log := s.log.WithFields(logrus.Fields{"event": ev.Name(), "app_user_id": ev.AppUserID()})
	result := &WebhookResult{}

	userID, parseErr := uuid.Parse(ev.AppUserID())
	switch {
	case isUnknown(ev):
		result.Outcome = OutcomeIgnored
		log.Info("Ignoring billing event")
	case parseErr != nil:
		result.Outcome = OutcomeUserNotFound
		log.Warn("Billing event for an app user id that is not a user id")
	default:
		var transition premium.Transition
		user, err := s.store.MutateUser(ctx, userID, func(u *models.User) (bool, error) {
			transition = premium.Apply(u, ev, s.now())
			return transition.Changed, nil
		})
		if apperrors.IsNotFoundError(err) {
			result.Outcome = OutcomeUserNotFound
			log.Warn("Billing event for unknown user")
			break
		}
		if err != nil {
			s.metrics.WebhookEvents.WithLabelValues(ev.Name(), "error").Inc()
			return nil, err
		}

		result.Transition = &transition
		result.Outcome = OutcomeUnchanged
		if transition.Changed {
			result.Outcome = OutcomeApplied
			s.metrics.PremiumTransitions.WithLabelValues(string(transition.To), sourceWebhook).Inc()
		}
		if transition.Changed || transition.To == premium.StateCancelPending {
			s.publish(ctx, routingKeyFor(transition.To), user, sourceWebhook, transition)
		}
		log.WithFields(logrus.Fields{"from": transition.From, "to": transition.To, "outcome": result.Outcome}).Info("Billing event processed")
	}

	s.metrics.WebhookEvents.WithLabelValues(ev.Name(), result.Outcome).Inc()
	s.record(ctx, ev, result.Outcome, raw)
	return result, nil
}

// Upgrade grants premium bought in the app. Only the user themself may upgrade.
func (s *PremiumService) Upgrade(ctx context.Context, callerID, userID uuid.UUID, req *UpgradeRequest) (*premium.Status, error) {
	if callerID != userID {
		return nil, apperrors.NewUnauthorizedError(i18n.KeyUserNotFound)
	}
	plan := models.SubscriptionPlan(req.SubscriptionType)
	if !plan.Valid() {
		return nil, apperrors.NewValidationError(i18n.KeyPremiumInvalidPlan)
	}

	now := s.now()
	var from premium.State
	user, err := s.store.MutateUser(ctx, userID, func(u *models.User) (bool, error) {
		from = premium.StateOf(u, now)
		if err := premium.Upgrade(u, plan, now); err != nil {
			return false, err
		}
		return true, nil
	})
	switch {
	case errors.Is(err, premium.ErrAlreadyPremium):
		return nil, apperrors.NewValidationError(i18n.KeyPremiumAlreadyActive)
	case errors.Is(err, premium.ErrInvalidPlan):
		return nil, apperrors.NewValidationError(i18n.KeyPremiumInvalidPlan)
	case err != nil:
		return nil, err
	}

	transition := premium.Transition{Event: "UPGRADE", From: from, To: premium.StateActive, Changed: true}
	s.metrics.PremiumTransitions.WithLabelValues(string(premium.StateActive), sourceUpgrade).Inc()
	s.publish(ctx, events.PremiumUpgraded, user, sourceUpgrade, transition)

	status := premium.StatusOf(user, now)
	return &status, nil
}

// Status reports the stored premium state. An end date in the past reads as
// EXPIRED until the next sweep resets the user.
func (s *PremiumService) Status(ctx context.Context, userID uuid.UUID) (*premium.Status, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	status := premium.StatusOf(user, s.now())
	return &status, nil
}

func (s *PremiumService) Prices() SubscriptionPrices {
	return SubscriptionPrices{
		Monthly: PlanPrice{Plan: models.PlanMonthly, Price: s.cfg.MonthlyPrice, Currency: s.cfg.Currency},
		Yearly:  PlanPrice{Plan: models.PlanYearly, Price: s.cfg.YearlyPrice, Currency: s.cfg.Currency},
	}
}

func (s *PremiumService) publish(ctx context.Context, key string, u *models.User, source string, t premium.Transition) {
	msg := events.PremiumChanged{
		UserID:           u.ID.String(),
		Source:           source,
		Event:            t.Event,
		From:             string(t.From),
		To:               string(t.To),
		SubscriptionType: u.SubscriptionType,
		PremiumEndDate:   u.PremiumEndDate,
		OccurredAt:       s.now(),
	}
	if err := s.publisher.Publish(ctx, key, msg); err != nil {
		s.log.WithError(err).WithField("routing_key", key).Warn("Failed to publish premium event")
	}
}

func (s *PremiumService) record(ctx context.Context, ev premium.Event, outcome string, raw []byte) {
	if len(raw) == 0 {
		return
	}
	event := &models.BillingEvent{
		EventType: ev.Name(),
		AppUserID: ev.AppUserID(),
		Outcome:   outcome,
		Payload:   datatypes.JSON(raw),
	}
	if err := s.store.RecordBillingEvent(ctx, event); err != nil {
		s.log.WithError(err).Warn("Failed to record billing event")
	}
}

func isUnknown(ev premium.Event) bool {
	_, ok := ev.(premium.UnknownEvent)
	return ok
}

func routingKeyFor(to premium.State) string {
	switch to {
	case premium.StateCancelPending:
		return events.PremiumCancelPending
	case premium.StateNone:
		return events.PremiumExpired
	default:
		return events.PremiumActivated
	}
}

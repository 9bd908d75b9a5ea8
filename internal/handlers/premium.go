// internal/handlers/premium.go
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/motohanem/moto-backend/internal/config"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/premium"
	"github.com/motohanem/moto-backend/internal/services"
	"github.com/motohanem/moto-backend/internal/utils"
)

const maxWebhookBody = 1 << 20

type PremiumManager interface {
	HandleWebhook(ctx context.Context, ev premium.Event, raw []byte) (*services.WebhookResult, error)
	Upgrade(ctx context.Context, callerID, userID uuid.UUID, req *services.UpgradeRequest) (*premium.Status, error)
	Status(ctx context.Context, userID uuid.UUID) (*premium.Status, error)
	Prices() services.SubscriptionPrices
}

type PremiumHandler struct {
	premium PremiumManager
	webhook config.RevenueCatConfig
}

func NewPremiumHandler(manager PremiumManager, webhook config.RevenueCatConfig) *PremiumHandler {
	return &PremiumHandler{premium: manager, webhook: webhook}
}

type webhookAck struct {
	Message string `json:"message"`
	Outcome string `json:"outcome"`
}

// POST /revenuecat
//
// Structurally valid events are always acknowledged with 200 so the provider
// does not retry them, including unknown users and unknown event types.
func (h *PremiumHandler) Webhook(c *gin.Context) {
	if !h.authorized(c) {
		utils.UnauthorizedResponse(c, i18n.KeyWebhookUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.BadRequestResponse(c, i18n.KeyWebhookMalformed)
		return
	}

	ev, err := premium.DecodeWebhook(body)
	switch {
	case errors.Is(err, premium.ErrMissingEvent):
		utils.BadRequestResponse(c, i18n.KeyWebhookMissingEvent)
		return
	case errors.Is(err, premium.ErrMissingUserID):
		utils.BadRequestResponse(c, i18n.KeyWebhookMissingUser)
		return
	case err != nil:
		utils.BadRequestResponse(c, i18n.KeyWebhookMalformed)
		return
	}

	result, err := h.premium.HandleWebhook(c.Request.Context(), ev, body)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}

	key := i18n.KeyWebhookProcessed
	if result.Outcome == services.OutcomeUserNotFound {
		key = i18n.KeyWebhookUserNotFound
	}
	c.JSON(http.StatusOK, webhookAck{
		Message: i18n.T(utils.GetLangFromContext(c), key),
		Outcome: result.Outcome,
	})
}

// authorized checks the shared bearer secret. A mismatch only blocks the
// request when enforcement is on.
func (h *PremiumHandler) authorized(c *gin.Context) bool {
	if h.webhook.WebhookSecret == "" {
		return !h.webhook.EnforceAuth
	}
	given := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if utils.SecureCompare(given, h.webhook.WebhookSecret) {
		return true
	}
	logrus.WithFields(logrus.Fields{
		"ip":       c.ClientIP(),
		"enforced": h.webhook.EnforceAuth,
	}).Warn("Billing webhook with a wrong authorization header")
	return !h.webhook.EnforceAuth
}

// POST /users/:id/upgrade
func (h *PremiumHandler) Upgrade(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil || utils.ValidateStruct(&req) != nil {
		utils.BadRequestResponse(c, i18n.KeyPremiumInvalidPlan)
		return
	}

	status, err := h.premium.Upgrade(c.Request.Context(), caller, userID, &req)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, status)
}

// GET /users/:id/premium
func (h *PremiumHandler) Status(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if caller != userID && !isAdmin(c) {
		utils.NotFoundResponse(c, i18n.KeyUserNotFound)
		return
	}

	status, err := h.premium.Status(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, status)
}

// GET /users/subscription-prices
func (h *PremiumHandler) Prices(c *gin.Context) {
	utils.SuccessResponse(c, h.premium.Prices())
}

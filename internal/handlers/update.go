// internal/handlers/update.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/services"
	"github.com/motohanem/moto-backend/internal/utils"
)

type UpdateChecker interface {
	Check(ctx context.Context, currentVersion string) (*services.UpdateCheck, error)
	Create(ctx context.Context, req *services.CreateUpdateConfigRequest) (*models.UpdateConfig, error)
}

type UpdateHandler struct {
	updates UpdateChecker
}

func NewUpdateHandler(updates UpdateChecker) *UpdateHandler {
	return &UpdateHandler{updates: updates}
}

// GET /api/v1/update/check?currentVersion=
func (h *UpdateHandler) Check(c *gin.Context) {
	current := c.Query("currentVersion")
	if current != "" {
		logrus.WithField("current_version", current).Debug("Update check")
	}
	result, err := h.updates.Check(c.Request.Context(), current)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}

// POST /api/v1/update
func (h *UpdateHandler) Create(c *gin.Context) {
	var req services.CreateUpdateConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	cfg, err := h.updates.Create(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.CreatedResponse(c, cfg)
}

// internal/handlers/common.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/utils"
)

// bindJSON decodes and validates the body into req, writing the 400 itself.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.KeyValidationInvalid, "input")
		return false
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, i18n.KeyInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// callerID returns the authenticated user. Routes using it sit behind AuthRequired.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, i18n.KeyAuthRequired)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.UnauthorizedResponse(c, i18n.KeyAuthInvalidToken)
		return uuid.Nil, false
	}
	return id, true
}

func isAdmin(c *gin.Context) bool {
	role, _ := utils.GetRoleFromContext(c)
	return role == string(models.RoleAdmin)
}

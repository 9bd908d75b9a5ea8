// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/i18n"
)

// Successful responses carry the payload as-is; only failures are wrapped.
type APIResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code     string      `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Existing interface{} `json:"existing,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func MessageOK(c *gin.Context, key string) {
	c.JSON(http.StatusOK, MessageResponse{Message: i18n.T(GetLangFromContext(c), key)})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, key string, args ...interface{}) {
	lang := GetLangFromContext(c)
	if key == "" {
		key, args = i18n.KeyValidationInvalid, []interface{}{"request"}
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", i18n.T(lang, key, args...), nil)
}

func UnauthorizedResponse(c *gin.Context, key string) {
	if key == "" {
		key = i18n.KeyAuthRequired
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", i18n.T(GetLangFromContext(c), key), nil)
}

func ForbiddenResponse(c *gin.Context, key string) {
	if key == "" {
		key = i18n.KeyAuthAdminRequired
	}
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", i18n.T(GetLangFromContext(c), key), nil)
}

func NotFoundResponse(c *gin.Context, key string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(GetLangFromContext(c), key), nil)
}

func InternalErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", i18n.T(GetLangFromContext(c), i18n.KeyInternalError), nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	lang := GetLangFromContext(c)
	message := i18n.T(lang, i18n.KeyValidationInvalid, "input")
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", message, errors)
}

// ErrorFromService renders an error returned by a service using the shared
// taxonomy. Conflicts include the record that already exists.
func ErrorFromService(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"error":  err.Error(),
		}).Error("Request failed")
		InternalErrorResponse(c)
		return
	}

	body := &APIError{
		Code:    apperrors.Code(err),
		Message: i18n.T(GetLangFromContext(c), apperrors.MessageKey(err)),
	}
	if conflict, ok := apperrors.AsConflict(err); ok {
		body.Existing = conflict.Existing
	}
	c.JSON(status, APIResponse{Success: false, Error: body})
}

func PaginatedResponse[T any](c *gin.Context, page Page[T]) {
	SetPaginationHeaders(c, page)
	c.JSON(http.StatusOK, page)
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.DefaultLang
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}

func GetRoleFromContext(c *gin.Context) (string, bool) {
	if role, exists := c.Get("role"); exists {
		if roleStr, ok := role.(string); ok {
			return roleStr, true
		}
	}
	return "", false
}

// internal/middleware/i18n.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/motohanem/moto-backend/internal/i18n"
)

// I18nMiddleware stores the response language under "lang". Only an exact
// "en" selects English.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", i18n.Normalize(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// internal/handlers/translation.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/services"
	"github.com/motohanem/moto-backend/internal/utils"
)

type Translations interface {
	Map(ctx context.Context, lang, screen string) (map[string]string, error)
	Create(ctx context.Context, req *services.CreateTranslationRequest) (*models.Translation, error)
}

type TranslationHandler struct {
	translations Translations
}

func NewTranslationHandler(translations Translations) *TranslationHandler {
	return &TranslationHandler{translations: translations}
}

// GET /translations?screen=
func (h *TranslationHandler) GetTranslations(c *gin.Context) {
	out, err := h.translations.Map(c.Request.Context(), utils.GetLangFromContext(c), c.Query("screen"))
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, out)
}

// POST /translations
func (h *TranslationHandler) CreateTranslation(c *gin.Context) {
	var req services.CreateTranslationRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.translations.Create(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.CreatedResponse(c, t)
}

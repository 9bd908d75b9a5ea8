// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyInternalError     = "error.internal"
	KeyValidationInvalid = "validation.invalid"
	KeyInvalidID         = "validation.invalid_id"
	KeyRateLimited       = "error.rate_limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthAdminRequired      = "auth.admin_required"

	// Users
	KeyUserNotFound = "user.not_found"

	// Catalog
	KeyModelNotFound        = "model.not_found"
	KeyBrandNotFound        = "brand.not_found"
	KeyVehicleTypeExists    = "vehicle_type.exists"
	KeyCountryExists        = "country.exists"
	KeyMotorcycleTypeExists = "motorcycle_type.exists"
	KeyVehicleTypeNotFound  = "vehicle_type.not_found"
	KeyUploadInvalidFile    = "upload.invalid_file"
	KeyUploadFailed         = "upload.failed"

	// Comments & favorites
	KeyCommentNotFound  = "comment.not_found"
	KeyCommentExists    = "comment.exists"
	KeyCommentDeleted   = "comment.deleted"
	KeyFavoriteNotFound = "favorite.not_found"
	KeyFavoriteExists   = "favorite.exists"
	KeyFavoriteDeleted  = "favorite.deleted"

	// Premium
	KeyPremiumAlreadyActive = "premium.already_active"
	KeyPremiumInvalidPlan   = "premium.invalid_plan"
	KeyWebhookMalformed     = "webhook.malformed"
	KeyWebhookMissingEvent  = "webhook.missing_event"
	KeyWebhookMissingUser   = "webhook.missing_user"
	KeyWebhookProcessed     = "webhook.processed"
	KeyWebhookUserNotFound  = "webhook.user_not_found"
	KeyWebhookUnauthorized  = "webhook.unauthorized"

	// Translations
	KeyTranslationExists = "translation.exists"

	// Updates
	KeyUpdateNotFound = "update.not_found"
)

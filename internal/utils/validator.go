// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"

	"github.com/motohanem/moto-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("semver", validateSemver)
	validate.RegisterValidation("subscription_plan", validateSubscriptionPlan)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// CanonicalVersion turns an app version such as "1.4.2" into the "v1.4.2" form
// expected by the semver package. It returns "" when the version does not parse.
func CanonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return ""
	}
	return semver.Canonical(version)
}

func validateSemver(fl validator.FieldLevel) bool {
	return CanonicalVersion(fl.Field().String()) != ""
}

func validateSubscriptionPlan(fl validator.FieldLevel) bool {
	return models.SubscriptionPlan(fl.Field().String()).Valid()
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "semver":
		return e.Field() + " must be a version like 1.4.2"
	case "subscription_plan":
		return e.Field() + " must be monthly or yearly"
	default:
		return e.Field() + " is invalid"
	}
}

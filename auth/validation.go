package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/apperror"
)

// passwordSymbols is the punctuation set accepted by the strength rule.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration never fails for a non-nil func and a non-empty tag.
	_ = v.RegisterValidation("password_strength", validatePasswordStrength)
	return v
}

// validatePasswordStrength requires at least one uppercase letter, one
// lowercase letter, one digit, and one symbol from passwordSymbols.
// Minimum length is enforced separately by the min tag.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// checkRequest validates a DTO and converts the first violation into a
// client-facing validation error.
func checkRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return apperror.NewInternalError("validation failed", err)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperror.NewValidationError(fieldMessage(fe), nil).
			WithDetails(map[string]any{"field": strings.ToLower(fe.Field())})
	}
	return apperror.NewValidationError("invalid input", err)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return "email must be a valid email address"
	case "password_strength":
		return "password must contain at least one uppercase letter, one lowercase letter, one digit, and one special character"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

package tasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/apperror"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkRequest validates a DTO and converts the first violation into a
// client-facing validation error.
func checkRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", field)
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", field)
		}
		return apperror.NewValidationError(msg, nil).
			WithDetails(map[string]any{"field": field})
	}
	return apperror.NewValidationError("invalid input", err)
}

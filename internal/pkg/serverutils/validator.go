package serverutils

import (
	"fmt"
	"strings"

	"notedeck-be/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags on a request DTO and folds all failures
// into a single validation error.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return apperror.Validation(err.Error())
		}

		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed on '%s'",
				fieldErr.Field(),
				fieldErr.Tag(),
			))
		}
		return apperror.Validation(strings.Join(messages, "; "))
	}
	return nil
}

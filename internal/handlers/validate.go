package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validationMessage turns the first field error into something a frontend
// can show as-is.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			return fmt.Sprintf("validation failed on field '%s' (%s=%s)", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("validation failed on field '%s' (%s)", field, fe.Tag())
	}
	return "Invalid request body"
}

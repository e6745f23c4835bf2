package validator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/jamfest/guardian-consent/internal/submission/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateGuardianInfoRequest performs structural validation of the
// guardian-info payload. The first violation is returned as a per-field
// message.
func ValidateGuardianInfoRequest(req model.GuardianInfoRequest) error {
	if err := validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fieldError(errs[0])
		}
		return err
	}

	if digitCount(req.PhoneNumber) < 7 {
		return fmt.Errorf("phoneNumber must contain at least 7 digits")
	}

	return nil
}

func fieldError(fe validator.FieldError) error {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("%s must be a valid email address", field)
	case "min":
		return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

func digitCount(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

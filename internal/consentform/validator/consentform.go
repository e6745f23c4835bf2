package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jamfest/guardian-consent/internal/consentform/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSubmitConsentRequest performs structural validation of the
// consent-form payload. The first violation is returned as a per-field
// message.
func ValidateSubmitConsentRequest(req model.SubmitConsentRequest) error {
	if err := validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fieldError(errs[0])
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "ConsentGiven":
		return fmt.Errorf("consentGiven must be true to submit the form")
	case "SignatureURL":
		return fmt.Errorf("a signature is required to submit the form")
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}

package validator

import (
	"testing"

	"github.com/jamfest/guardian-consent/internal/submission/model"
)

func validRequest() model.GuardianInfoRequest {
	return model.GuardianInfoRequest{
		FirstName:             "Karim",
		LastName:              "Saleh",
		Email:                 "karim@example.com",
		PhoneKey:              "+20",
		PhoneNumber:           "1001234567",
		RelationshipToStudent: "father",
	}
}

func TestValidateGuardianInfoRequest_Valid(t *testing.T) {
	if err := ValidateGuardianInfoRequest(validRequest()); err != nil {
		t.Errorf("Expected valid request to pass, got: %v", err)
	}
}

func TestValidateGuardianInfoRequest_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.GuardianInfoRequest)
	}{
		{"missing firstName", func(r *model.GuardianInfoRequest) { r.FirstName = "" }},
		{"missing lastName", func(r *model.GuardianInfoRequest) { r.LastName = "" }},
		{"missing email", func(r *model.GuardianInfoRequest) { r.Email = "" }},
		{"missing phoneKey", func(r *model.GuardianInfoRequest) { r.PhoneKey = "" }},
		{"missing phoneNumber", func(r *model.GuardianInfoRequest) { r.PhoneNumber = "" }},
		{"missing relationship", func(r *model.GuardianInfoRequest) { r.RelationshipToStudent = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			if err := ValidateGuardianInfoRequest(req); err == nil {
				t.Errorf("Expected validation error for %s", tc.name)
			}
		})
	}
}

func TestValidateGuardianInfoRequest_InvalidEmail(t *testing.T) {
	req := validRequest()
	req.Email = "not-an-email"
	if err := ValidateGuardianInfoRequest(req); err == nil {
		t.Error("Expected validation error for invalid email")
	}
}

func TestValidateGuardianInfoRequest_ShortPhoneNumber(t *testing.T) {
	req := validRequest()
	req.PhoneNumber = "123-456"
	if err := ValidateGuardianInfoRequest(req); err == nil {
		t.Error("Expected validation error for phone number with fewer than 7 digits")
	}
}

package model

import (
	guardianmodel "github.com/jamfest/guardian-consent/internal/guardian/model"
)

// GuardianInfoRequest is the student-submitted guardian contact payload.
type GuardianInfoRequest struct {
	FirstName             string `json:"firstName" validate:"required"`
	LastName              string `json:"lastName" validate:"required"`
	Email                 string `json:"email" validate:"required,email"`
	PhoneKey              string `json:"phoneKey" validate:"required"`
	PhoneNumber           string `json:"phoneNumber" validate:"required,min=7"`
	RelationshipToStudent string `json:"relationshipToStudent" validate:"required"`
}

// SubmissionResponse is returned after a successful guardian-info submission.
// ConsentLink is only populated outside production: the guardian, not the
// student, is the intended recipient of the link.
type SubmissionResponse struct {
	GuardianID     string                       `json:"guardianId"`
	ApprovalStatus guardianmodel.ApprovalStatus `json:"approvalStatus"`
	ConsentLink    string                       `json:"consentLink,omitempty"`
}

// ResendResponse is returned after a successful consent-link resend.
type ResendResponse struct {
	GuardianID  string `json:"guardianId"`
	ConsentLink string `json:"consentLink,omitempty"`
}

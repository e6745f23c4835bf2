package model

import (
	guardianmodel "github.com/jamfest/guardian-consent/internal/guardian/model"
	studentmodel "github.com/jamfest/guardian-consent/internal/student/model"
)

// ConsentFormResponse is the token-resolved view rendered to the guardian.
// The form is reachable by token alone, so only guardian-owned fields and the
// student's public profile are exposed.
type ConsentFormResponse struct {
	GuardianFirstName string                       `json:"guardianFirstName"`
	GuardianLastName  string                       `json:"guardianLastName"`
	GuardianEmail     string                       `json:"guardianEmail"`
	GuardianPhoneKey  string                       `json:"guardianPhoneKey"`
	GuardianPhone     string                       `json:"guardianPhoneNumber"`
	Relationship      string                       `json:"relationshipToStudent"`
	ApprovalStatus    guardianmodel.ApprovalStatus `json:"approvalStatus"`
	RejectionReason   *string                      `json:"rejectionReason,omitempty"`
	ConsentGiven      bool                         `json:"consentGiven"`
	WillAttendEvent   bool                         `json:"willAttendEvent"`
	Student           studentmodel.PublicProfile   `json:"student"`
}

// SubmitConsentRequest captures the guardian's answers on the consent form.
type SubmitConsentRequest struct {
	ConsentGiven       bool    `json:"consentGiven" validate:"eq=true"`
	WillAttendEvent    bool    `json:"willAttendEvent"`
	NationalID         *string `json:"nationalId,omitempty"`
	ConsentDocumentURL *string `json:"consentDocumentUrl,omitempty"`
	NationalIDImageURL *string `json:"nationalIdImageUrl,omitempty"`
	SignatureURL       *string `json:"signatureUrl,omitempty" validate:"required,min=1"`
}

// SubmitConsentResponse acknowledges a recorded consent capture.
type SubmitConsentResponse struct {
	ApprovalStatus guardianmodel.ApprovalStatus `json:"approvalStatus"`
	ConsentGiven   bool                         `json:"consentGiven"`
	ConsentDate    int64                        `json:"consentDate"`
}

package model

import (
	guardianmodel "github.com/jamfest/guardian-consent/internal/guardian/model"
)

// Student represents the subset of the STUDENT table this service reads and
// mirrors status onto.
type Student struct {
	StudentID   string `db:"STUDENT_ID" json:"studentId"`
	FirstName   string `db:"FIRST_NAME" json:"firstName"`
	LastName    string `db:"LAST_NAME" json:"lastName"`
	Email       string `db:"EMAIL" json:"email"`
	PhoneNumber string `db:"PHONE_NUMBER" json:"phoneNumber"`
	School      string `db:"SCHOOL" json:"school"`
	Grade       string `db:"GRADE" json:"grade"`
	City        string `db:"CITY" json:"city"`

	IsMinor         bool `db:"IS_MINOR" json:"isMinor"`
	ProfileComplete bool `db:"PROFILE_COMPLETE" json:"profileComplete"`

	// GuardianApprovalStatus is a denormalized mirror of the owning
	// guardian's approvalStatus. Attached students may carry "approved"
	// without owning a guardian row of their own.
	GuardianApprovalStatus *guardianmodel.ApprovalStatus `db:"GUARDIAN_APPROVAL_STATUS" json:"guardianApprovalStatus,omitempty"`

	CreatedTime int64 `db:"CREATED_TIME" json:"createdTime"`
	UpdatedTime int64 `db:"UPDATED_TIME" json:"updatedTime"`
}

// Banner values for the participation projection.
const (
	BannerNone             = "none"
	BannerGuardianPending  = "guardian_pending"
	BannerGuardianRejected = "guardian_rejected"
)

// Participation is the read-side gating projection for a student. It is
// derived on every read and never stored.
type Participation struct {
	StudentID              string                        `json:"studentId"`
	CanParticipate         bool                          `json:"canParticipate"`
	NeedsGuardianForm      bool                          `json:"needsGuardianForm"`
	GuardianApprovalStatus *guardianmodel.ApprovalStatus `json:"guardianApprovalStatus,omitempty"`
	Banner                 string                        `json:"banner"`
}

// PublicProfile is the student info shown to the guardian on the consent form.
type PublicProfile struct {
	StudentID   string `json:"studentId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	School      string `json:"school"`
	Grade       string `json:"grade"`
	City        string `json:"city"`
}

// ToPublicProfile projects the guardian-visible profile fields.
func (s *Student) ToPublicProfile() PublicProfile {
	return PublicProfile{
		StudentID:   s.StudentID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		PhoneNumber: s.PhoneNumber,
		School:      s.School,
		Grade:       s.Grade,
		City:        s.City,
	}
}

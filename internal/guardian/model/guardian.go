package model

// ApprovalStatus is the guardian workflow state. A guardian record is only
// ever created in pending, so no unsubmitted state exists at this level.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// IsValid reports whether the value is a known workflow state.
func (s ApprovalStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// IsTerminal reports whether an admin decision has been recorded.
func (s ApprovalStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Guardian represents the GUARDIAN table.
type Guardian struct {
	GuardianID   string  `db:"GUARDIAN_ID" json:"guardianId"`
	UserID       string  `db:"USER_ID" json:"userId"`
	FirstName    string  `db:"FIRST_NAME" json:"firstName"`
	LastName     string  `db:"LAST_NAME" json:"lastName"`
	Email        string  `db:"EMAIL" json:"email"`
	PhoneKey     string  `db:"PHONE_KEY" json:"phoneKey"`
	PhoneNumber  string  `db:"PHONE_NUMBER" json:"phoneNumber"`
	NationalID   *string `db:"NATIONAL_ID" json:"nationalId,omitempty"`
	Relationship string  `db:"RELATIONSHIP" json:"relationshipToStudent"`

	// ConsentToken is the bearer capability for the guardian-facing form.
	// It never expires by time; rotation is the only invalidation.
	ConsentToken    string `db:"CONSENT_TOKEN" json:"-"`
	ConsentSentTime int64  `db:"CONSENT_SENT_TIME" json:"-"`

	ConsentGiven       bool    `db:"CONSENT_GIVEN" json:"consentGiven"`
	ConsentDate        *int64  `db:"CONSENT_DATE" json:"consentDate,omitempty"`
	WillAttendEvent    bool    `db:"WILL_ATTEND_EVENT" json:"willAttendEvent"`
	ConsentDocumentURL *string `db:"CONSENT_DOCUMENT_URL" json:"consentDocumentUrl,omitempty"`
	NationalIDImageURL *string `db:"NATIONAL_ID_IMAGE_URL" json:"nationalIdImageUrl,omitempty"`
	SignatureURL       *string `db:"SIGNATURE_URL" json:"signatureUrl,omitempty"`

	ApprovalStatus  ApprovalStatus `db:"APPROVAL_STATUS" json:"approvalStatus"`
	RejectionReason *string        `db:"REJECTION_REASON" json:"rejectionReason,omitempty"`
	// ApprovedBy/ApprovedAt record the last admin decision and when, for
	// both outcomes; the name is kept for compatibility with the admin UI.
	ApprovedBy *string `db:"APPROVED_BY" json:"approvedBy,omitempty"`
	ApprovedAt *int64  `db:"APPROVED_AT" json:"approvedAt,omitempty"`

	CreatedTime int64 `db:"CREATED_TIME" json:"createdTime"`
	UpdatedTime int64 `db:"UPDATED_TIME" json:"updatedTime"`

	// AdditionalStudents is the ordered list of secondarily-attached student
	// IDs, loaded from GUARDIAN_ADDITIONAL_STUDENT.
	AdditionalStudents []string `db:"-" json:"additionalStudents,omitempty"`
}

// GuardianListResponse is the paginated admin review-queue response.
type GuardianListResponse struct {
	Data     []Guardian         `json:"data"`
	Metadata GuardianListMetada `json:"metadata"`
}

// GuardianListMetada carries pagination info for list responses.
type GuardianListMetada struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

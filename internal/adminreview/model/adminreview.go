package model

// DecisionRequest carries an optional admin note attached to an approval. The
// note is persisted on the audit row only.
type DecisionRequest struct {
	Note string `json:"note,omitempty"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
	Note   string `json:"note,omitempty"`
}

// AttachStudentRequest names the student to attach to an approved guardian.
type AttachStudentRequest struct {
	StudentID string `json:"studentId"`
}

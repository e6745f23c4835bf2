package model

// GuardianStatusAudit represents the GUARDIAN_STATUS_AUDIT table. A row is
// written in the same transaction as every status transition, including
// reversed admin decisions.
type GuardianStatusAudit struct {
	AuditID        string  `db:"AUDIT_ID" json:"auditId"`
	GuardianID     string  `db:"GUARDIAN_ID" json:"guardianId"`
	CurrentStatus  string  `db:"CURRENT_STATUS" json:"currentStatus"`
	PreviousStatus *string `db:"PREVIOUS_STATUS" json:"previousStatus,omitempty"`
	ActionBy       *string `db:"ACTION_BY" json:"actionBy,omitempty"`
	Reason         *string `db:"REASON" json:"reason,omitempty"`
	ActionTime     int64   `db:"ACTION_TIME" json:"actionTime"`
}

// GuardianStatusAuditListResponse is the audit history response.
type GuardianStatusAuditListResponse struct {
	Data []GuardianStatusAudit `json:"data"`
}

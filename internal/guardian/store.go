package guardian

import (
	"context"
	"strconv"

	"github.com/jamfest/guardian-consent/internal/guardian/model"
	dbmodel "github.com/jamfest/guardian-consent/internal/system/database/model"
	"github.com/jamfest/guardian-consent/internal/system/database/provider"
)

// DBQuery objects for guardian operations
var (
	guardianColumns = "GUARDIAN_ID, USER_ID, FIRST_NAME, LAST_NAME, EMAIL, PHONE_KEY, PHONE_NUMBER, NATIONAL_ID, RELATIONSHIP, CONSENT_TOKEN, CONSENT_SENT_TIME, CONSENT_GIVEN, CONSENT_DATE, WILL_ATTEND_EVENT, CONSENT_DOCUMENT_URL, NATIONAL_ID_IMAGE_URL, SIGNATURE_URL, APPROVAL_STATUS, REJECTION_REASON, APPROVED_BY, APPROVED_AT, CREATED_TIME, UPDATED_TIME"

	QueryCreateGuardian = dbmodel.DBQuery{
		ID:    "CREATE_GUARDIAN",
		Query: "INSERT INTO GUARDIAN (" + guardianColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetGuardianByID = dbmodel.DBQuery{
		ID:    "GET_GUARDIAN_BY_ID",
		Query: "SELECT " + guardianColumns + " FROM GUARDIAN WHERE GUARDIAN_ID = ?",
	}

	QueryGetGuardianByUserID = dbmodel.DBQuery{
		ID:    "GET_GUARDIAN_BY_USER_ID",
		Query: "SELECT " + guardianColumns + " FROM GUARDIAN WHERE USER_ID = ?",
	}

	QueryGetGuardianByConsentToken = dbmodel.DBQuery{
		ID:    "GET_GUARDIAN_BY_CONSENT_TOKEN",
		Query: "SELECT " + guardianColumns + " FROM GUARDIAN WHERE CONSENT_TOKEN = ?",
	}

	QueryListGuardians = dbmodel.DBQuery{
		ID:    "LIST_GUARDIANS",
		Query: "SELECT " + guardianColumns + " FROM GUARDIAN ORDER BY CREATED_TIME DESC LIMIT ? OFFSET ?",
	}

	QueryListGuardiansByStatus = dbmodel.DBQuery{
		ID:    "LIST_GUARDIANS_BY_STATUS",
		Query: "SELECT " + guardianColumns + " FROM GUARDIAN WHERE APPROVAL_STATUS = ? ORDER BY CREATED_TIME DESC LIMIT ? OFFSET ?",
	}

	QueryCountGuardians = dbmodel.DBQuery{
		ID:    "COUNT_GUARDIANS",
		Query: "SELECT COUNT(*) as count FROM GUARDIAN",
	}

	QueryCountGuardiansByStatus = dbmodel.DBQuery{
		ID:    "COUNT_GUARDIANS_BY_STATUS",
		Query: "SELECT COUNT(*) as count FROM GUARDIAN WHERE APPROVAL_STATUS = ?",
	}

	QueryResubmitGuardian = dbmodel.DBQuery{
		ID:    "RESUBMIT_GUARDIAN",
		Query: "UPDATE GUARDIAN SET FIRST_NAME = ?, LAST_NAME = ?, EMAIL = ?, PHONE_KEY = ?, PHONE_NUMBER = ?, RELATIONSHIP = ?, CONSENT_TOKEN = ?, CONSENT_SENT_TIME = ?, CONSENT_GIVEN = ?, CONSENT_DATE = ?, WILL_ATTEND_EVENT = ?, CONSENT_DOCUMENT_URL = ?, NATIONAL_ID_IMAGE_URL = ?, SIGNATURE_URL = ?, APPROVAL_STATUS = ?, REJECTION_REASON = ?, UPDATED_TIME = ? WHERE GUARDIAN_ID = ?",
	}

	QueryRotateConsentToken = dbmodel.DBQuery{
		ID:    "ROTATE_CONSENT_TOKEN",
		Query: "UPDATE GUARDIAN SET CONSENT_TOKEN = ?, CONSENT_SENT_TIME = ?, UPDATED_TIME = ? WHERE GUARDIAN_ID = ?",
	}

	QueryUpdateConsentCapture = dbmodel.DBQuery{
		ID:    "UPDATE_CONSENT_CAPTURE",
		Query: "UPDATE GUARDIAN SET NATIONAL_ID = ?, CONSENT_GIVEN = ?, CONSENT_DATE = ?, WILL_ATTEND_EVENT = ?, CONSENT_DOCUMENT_URL = ?, NATIONAL_ID_IMAGE_URL = ?, SIGNATURE_URL = ?, UPDATED_TIME = ? WHERE GUARDIAN_ID = ?",
	}

	QueryUpdateDecision = dbmodel.DBQuery{
		ID:    "UPDATE_GUARDIAN_DECISION",
		Query: "UPDATE GUARDIAN SET APPROVAL_STATUS = ?, REJECTION_REASON = ?, APPROVED_BY = ?, APPROVED_AT = ?, UPDATED_TIME = ? WHERE GUARDIAN_ID = ?",
	}

	// Additional-student queries
	QueryGetAdditionalStudents = dbmodel.DBQuery{
		ID:    "GET_ADDITIONAL_STUDENTS",
		Query: "SELECT STUDENT_ID FROM GUARDIAN_ADDITIONAL_STUDENT WHERE GUARDIAN_ID = ? ORDER BY POSITION ASC",
	}

	QueryAppendAdditionalStudent = dbmodel.DBQuery{
		ID:    "APPEND_ADDITIONAL_STUDENT",
		Query: "INSERT INTO GUARDIAN_ADDITIONAL_STUDENT (GUARDIAN_ID, STUDENT_ID, POSITION, ATTACHED_TIME) VALUES (?, ?, ?, ?)",
	}

	// Status audit queries
	QueryCreateStatusAudit = dbmodel.DBQuery{
		ID:    "CREATE_GUARDIAN_STATUS_AUDIT",
		Query: "INSERT INTO GUARDIAN_STATUS_AUDIT (AUDIT_ID, GUARDIAN_ID, CURRENT_STATUS, PREVIOUS_STATUS, ACTION_BY, REASON, ACTION_TIME) VALUES (?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetStatusAuditByGuardianID = dbmodel.DBQuery{
		ID:    "GET_STATUS_AUDIT_BY_GUARDIAN_ID",
		Query: "SELECT AUDIT_ID, GUARDIAN_ID, CURRENT_STATUS, PREVIOUS_STATUS, ACTION_BY, REASON, ACTION_TIME FROM GUARDIAN_STATUS_AUDIT WHERE GUARDIAN_ID = ? ORDER BY ACTION_TIME DESC",
	}
)

// GuardianStore defines the interface for guardian data operations.
type GuardianStore interface {
	GetByID(ctx context.Context, guardianID string) (*model.Guardian, error)
	GetByUserID(ctx context.Context, userID string) (*model.Guardian, error)
	GetByConsentToken(ctx context.Context, token string) (*model.Guardian, error)
	List(ctx context.Context, status model.ApprovalStatus, limit, offset int) ([]model.Guardian, int, error)
	GetAdditionalStudents(ctx context.Context, guardianID string) ([]string, error)
	GetStatusAuditByGuardianID(ctx context.Context, guardianID string) ([]model.GuardianStatusAudit, error)

	Create(tx dbmodel.TxInterface, guardian *model.Guardian) error
	Resubmit(tx dbmodel.TxInterface, guardian *model.Guardian) error
	RotateConsentToken(tx dbmodel.TxInterface, guardianID, token string, sentTime, updatedTime int64) error
	UpdateConsentCapture(tx dbmodel.TxInterface, guardian *model.Guardian) error
	UpdateDecision(tx dbmodel.TxInterface, guardianID string, status model.ApprovalStatus, rejectionReason *string, decidedBy string, decidedAt int64) error
	AppendAdditionalStudent(tx dbmodel.TxInterface, guardianID, studentID string, position int, attachedTime int64) error
	CreateStatusAudit(tx dbmodel.TxInterface, audit *model.GuardianStatusAudit) error
}

// store implements the GuardianStore interface
type store struct {
	dbClient provider.DBClientInterface
}

// NewStore creates a new guardian store.
func NewStore(dbClient provider.DBClientInterface) GuardianStore {
	return &store{
		dbClient: dbClient,
	}
}

// GetByID retrieves a guardian by ID
func (s *store) GetByID(ctx context.Context, guardianID string) (*model.Guardian, error) {
	rows, err := s.dbClient.Query(QueryGetGuardianByID, guardianID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToGuardian(rows[0]), nil
}

// GetByUserID retrieves the guardian owned by a student, if any
func (s *store) GetByUserID(ctx context.Context, userID string) (*model.Guardian, error) {
	rows, err := s.dbClient.Query(QueryGetGuardianByUserID, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToGuardian(rows[0]), nil
}

// GetByConsentToken retrieves a guardian by exact consent-token match
func (s *store) GetByConsentToken(ctx context.Context, token string) (*model.Guardian, error) {
	rows, err := s.dbClient.Query(QueryGetGuardianByConsentToken, token)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToGuardian(rows[0]), nil
}

// List retrieves paginated guardians, optionally filtered by status
func (s *store) List(ctx context.Context, status model.ApprovalStatus, limit, offset int) ([]model.Guardian, int, error) {
	var countRows []map[string]interface{}
	var rows []map[string]interface{}
	var err error

	if status != "" {
		countRows, err = s.dbClient.Query(QueryCountGuardiansByStatus, string(status))
	} else {
		countRows, err = s.dbClient.Query(QueryCountGuardians)
	}
	if err != nil {
		return nil, 0, err
	}

	totalCount := 0
	if len(countRows) > 0 {
		totalCount = mapToCount(countRows[0]["count"])
	}

	if status != "" {
		rows, err = s.dbClient.Query(QueryListGuardiansByStatus, string(status), limit, offset)
	} else {
		rows, err = s.dbClient.Query(QueryListGuardians, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}

	guardians := make([]model.Guardian, 0, len(rows))
	for _, row := range rows {
		guardian := mapToGuardian(row)
		if guardian != nil {
			guardians = append(guardians, *guardian)
		}
	}

	return guardians, totalCount, nil
}

// GetAdditionalStudents retrieves attached student IDs in attachment order
func (s *store) GetAdditionalStudents(ctx context.Context, guardianID string) ([]string, error) {
	rows, err := s.dbClient.Query(QueryGetAdditionalStudents, guardianID)
	if err != nil {
		return nil, err
	}

	studentIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		if id, ok := row["STUDENT_ID"].(string); ok {
			studentIDs = append(studentIDs, id)
		}
	}
	return studentIDs, nil
}

// GetStatusAuditByGuardianID retrieves status audit history for a guardian
func (s *store) GetStatusAuditByGuardianID(ctx context.Context, guardianID string) ([]model.GuardianStatusAudit, error) {
	rows, err := s.dbClient.Query(QueryGetStatusAuditByGuardianID, guardianID)
	if err != nil {
		return nil, err
	}

	audits := make([]model.GuardianStatusAudit, 0, len(rows))
	for _, row := range rows {
		audit := mapToStatusAudit(row)
		if audit != nil {
			audits = append(audits, *audit)
		}
	}
	return audits, nil
}

// Create creates a new guardian within a transaction
func (s *store) Create(tx dbmodel.TxInterface, guardian *model.Guardian) error {
	_, err := tx.Exec(QueryCreateGuardian.Query,
		guardian.GuardianID, guardian.UserID, guardian.FirstName, guardian.LastName,
		guardian.Email, guardian.PhoneKey, guardian.PhoneNumber, guardian.NationalID,
		guardian.Relationship, guardian.ConsentToken, guardian.ConsentSentTime,
		guardian.ConsentGiven, guardian.ConsentDate, guardian.WillAttendEvent,
		guardian.ConsentDocumentURL, guardian.NationalIDImageURL, guardian.SignatureURL,
		string(guardian.ApprovalStatus), guardian.RejectionReason,
		guardian.ApprovedBy, guardian.ApprovedAt,
		guardian.CreatedTime, guardian.UpdatedTime)
	return err
}

// Resubmit overwrites contact fields, rotates the token and resets the
// workflow to pending within a transaction. Consent-capture fields are
// cleared so the new cycle starts clean.
func (s *store) Resubmit(tx dbmodel.TxInterface, guardian *model.Guardian) error {
	_, err := tx.Exec(QueryResubmitGuardian.Query,
		guardian.FirstName, guardian.LastName, guardian.Email,
		guardian.PhoneKey, guardian.PhoneNumber, guardian.Relationship,
		guardian.ConsentToken, guardian.ConsentSentTime,
		guardian.ConsentGiven, guardian.ConsentDate, guardian.WillAttendEvent,
		guardian.ConsentDocumentURL, guardian.NationalIDImageURL, guardian.SignatureURL,
		string(guardian.ApprovalStatus), guardian.RejectionReason,
		guardian.UpdatedTime, guardian.GuardianID)
	return err
}

// RotateConsentToken replaces the consent token within a transaction
func (s *store) RotateConsentToken(tx dbmodel.TxInterface, guardianID, token string, sentTime, updatedTime int64) error {
	_, err := tx.Exec(QueryRotateConsentToken.Query, token, sentTime, updatedTime, guardianID)
	return err
}

// UpdateConsentCapture stores the guardian's form submission within a transaction
func (s *store) UpdateConsentCapture(tx dbmodel.TxInterface, guardian *model.Guardian) error {
	_, err := tx.Exec(QueryUpdateConsentCapture.Query,
		guardian.NationalID, guardian.ConsentGiven, guardian.ConsentDate,
		guardian.WillAttendEvent, guardian.ConsentDocumentURL,
		guardian.NationalIDImageURL, guardian.SignatureURL,
		guardian.UpdatedTime, guardian.GuardianID)
	return err
}

// UpdateDecision records an admin decision within a transaction
func (s *store) UpdateDecision(tx dbmodel.TxInterface, guardianID string, status model.ApprovalStatus, rejectionReason *string, decidedBy string, decidedAt int64) error {
	_, err := tx.Exec(QueryUpdateDecision.Query,
		string(status), rejectionReason, decidedBy, decidedAt, decidedAt, guardianID)
	return err
}

// AppendAdditionalStudent attaches a student to a guardian within a transaction
func (s *store) AppendAdditionalStudent(tx dbmodel.TxInterface, guardianID, studentID string, position int, attachedTime int64) error {
	_, err := tx.Exec(QueryAppendAdditionalStudent.Query, guardianID, studentID, position, attachedTime)
	return err
}

// CreateStatusAudit creates a status audit entry within a transaction
func (s *store) CreateStatusAudit(tx dbmodel.TxInterface, audit *model.GuardianStatusAudit) error {
	_, err := tx.Exec(QueryCreateStatusAudit.Query,
		audit.AuditID, audit.GuardianID, audit.CurrentStatus,
		audit.PreviousStatus, audit.ActionBy, audit.Reason, audit.ActionTime)
	return err
}

// Mapper functions

func mapToGuardian(row map[string]interface{}) *model.Guardian {
	if row == nil {
		return nil
	}

	guardian := &model.Guardian{}

	if id, ok := row["GUARDIAN_ID"].(string); ok {
		guardian.GuardianID = id
	}
	if userID, ok := row["USER_ID"].(string); ok {
		guardian.UserID = userID
	}
	if first, ok := row["FIRST_NAME"].(string); ok {
		guardian.FirstName = first
	}
	if last, ok := row["LAST_NAME"].(string); ok {
		guardian.LastName = last
	}
	if email, ok := row["EMAIL"].(string); ok {
		guardian.Email = email
	}
	if key, ok := row["PHONE_KEY"].(string); ok {
		guardian.PhoneKey = key
	}
	if phone, ok := row["PHONE_NUMBER"].(string); ok {
		guardian.PhoneNumber = phone
	}
	if nationalID, ok := row["NATIONAL_ID"].(string); ok {
		guardian.NationalID = &nationalID
	}
	if rel, ok := row["RELATIONSHIP"].(string); ok {
		guardian.Relationship = rel
	}
	if token, ok := row["CONSENT_TOKEN"].(string); ok {
		guardian.ConsentToken = token
	}
	if sent, ok := row["CONSENT_SENT_TIME"].(int64); ok {
		guardian.ConsentSentTime = sent
	}
	guardian.ConsentGiven = mapToBool(row["CONSENT_GIVEN"])
	if date, ok := row["CONSENT_DATE"].(int64); ok {
		guardian.ConsentDate = &date
	}
	guardian.WillAttendEvent = mapToBool(row["WILL_ATTEND_EVENT"])
	if docURL, ok := row["CONSENT_DOCUMENT_URL"].(string); ok {
		guardian.ConsentDocumentURL = &docURL
	}
	if idImgURL, ok := row["NATIONAL_ID_IMAGE_URL"].(string); ok {
		guardian.NationalIDImageURL = &idImgURL
	}
	if sigURL, ok := row["SIGNATURE_URL"].(string); ok {
		guardian.SignatureURL = &sigURL
	}
	if status, ok := row["APPROVAL_STATUS"].(string); ok {
		guardian.ApprovalStatus = model.ApprovalStatus(status)
	}
	if reason, ok := row["REJECTION_REASON"].(string); ok {
		guardian.RejectionReason = &reason
	}
	if by, ok := row["APPROVED_BY"].(string); ok {
		guardian.ApprovedBy = &by
	}
	if at, ok := row["APPROVED_AT"].(int64); ok {
		guardian.ApprovedAt = &at
	}
	if created, ok := row["CREATED_TIME"].(int64); ok {
		guardian.CreatedTime = created
	}
	if updated, ok := row["UPDATED_TIME"].(int64); ok {
		guardian.UpdatedTime = updated
	}

	return guardian
}

func mapToStatusAudit(row map[string]interface{}) *model.GuardianStatusAudit {
	if row == nil {
		return nil
	}

	audit := &model.GuardianStatusAudit{}

	if id, ok := row["AUDIT_ID"].(string); ok {
		audit.AuditID = id
	}
	if guardianID, ok := row["GUARDIAN_ID"].(string); ok {
		audit.GuardianID = guardianID
	}
	if status, ok := row["CURRENT_STATUS"].(string); ok {
		audit.CurrentStatus = status
	}
	if prev, ok := row["PREVIOUS_STATUS"].(string); ok {
		audit.PreviousStatus = &prev
	}
	if by, ok := row["ACTION_BY"].(string); ok {
		audit.ActionBy = &by
	}
	if reason, ok := row["REASON"].(string); ok {
		audit.Reason = &reason
	}
	if t, ok := row["ACTION_TIME"].(int64); ok {
		audit.ActionTime = t
	}

	return audit
}

// mapToCount tolerates the driver returning COUNT(*) as int64 over the
// binary protocol or as text over the text protocol.
func mapToCount(value interface{}) int {
	switch v := value.(type) {
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	case []byte:
		if n, err := strconv.Atoi(string(v)); err == nil {
			return n
		}
	}
	return 0
}

// mapToBool tolerates the driver returning MySQL TINYINT(1) as int64.
func mapToBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	default:
		return false
	}
}

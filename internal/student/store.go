package student

import (
	"context"

	guardianmodel "github.com/jamfest/guardian-consent/internal/guardian/model"
	"github.com/jamfest/guardian-consent/internal/student/model"
	dbmodel "github.com/jamfest/guardian-consent/internal/system/database/model"
	"github.com/jamfest/guardian-consent/internal/system/database/provider"
)

// DBQuery objects for student operations
var (
	studentColumns = "STUDENT_ID, FIRST_NAME, LAST_NAME, EMAIL, PHONE_NUMBER, SCHOOL, GRADE, CITY, IS_MINOR, PROFILE_COMPLETE, GUARDIAN_APPROVAL_STATUS, CREATED_TIME, UPDATED_TIME"

	QueryGetStudentByID = dbmodel.DBQuery{
		ID:    "GET_STUDENT_BY_ID",
		Query: "SELECT " + studentColumns + " FROM STUDENT WHERE STUDENT_ID = ?",
	}

	QueryUpdateGuardianApprovalStatus = dbmodel.DBQuery{
		ID:    "UPDATE_STUDENT_GUARDIAN_APPROVAL_STATUS",
		Query: "UPDATE STUDENT SET GUARDIAN_APPROVAL_STATUS = ?, UPDATED_TIME = ? WHERE STUDENT_ID = ?",
	}
)

// StudentStore defines the interface for student data operations.
type StudentStore interface {
	GetByID(ctx context.Context, studentID string) (*model.Student, error)
	UpdateGuardianApprovalStatus(tx dbmodel.TxInterface, studentID string, status *guardianmodel.ApprovalStatus, updatedTime int64) error
}

// store implements the StudentStore interface
type store struct {
	dbClient provider.DBClientInterface
}

// NewStore creates a new student store.
func NewStore(dbClient provider.DBClientInterface) StudentStore {
	return &store{
		dbClient: dbClient,
	}
}

// GetByID retrieves a student by ID
func (s *store) GetByID(ctx context.Context, studentID string) (*model.Student, error) {
	rows, err := s.dbClient.Query(QueryGetStudentByID, studentID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToStudent(rows[0]), nil
}

// UpdateGuardianApprovalStatus writes the denormalized mirror field within a
// transaction. Callers must pair this with the guardian write in the same
// transaction; the mirror is never written on its own.
func (s *store) UpdateGuardianApprovalStatus(tx dbmodel.TxInterface, studentID string, status *guardianmodel.ApprovalStatus, updatedTime int64) error {
	var value *string
	if status != nil {
		str := string(*status)
		value = &str
	}
	_, err := tx.Exec(QueryUpdateGuardianApprovalStatus.Query, value, updatedTime, studentID)
	return err
}

// Mapper functions

func mapToStudent(row map[string]interface{}) *model.Student {
	if row == nil {
		return nil
	}

	student := &model.Student{}

	if id, ok := row["STUDENT_ID"].(string); ok {
		student.StudentID = id
	}
	if first, ok := row["FIRST_NAME"].(string); ok {
		student.FirstName = first
	}
	if last, ok := row["LAST_NAME"].(string); ok {
		student.LastName = last
	}
	if email, ok := row["EMAIL"].(string); ok {
		student.Email = email
	}
	if phone, ok := row["PHONE_NUMBER"].(string); ok {
		student.PhoneNumber = phone
	}
	if school, ok := row["SCHOOL"].(string); ok {
		student.School = school
	}
	if grade, ok := row["GRADE"].(string); ok {
		student.Grade = grade
	}
	if city, ok := row["CITY"].(string); ok {
		student.City = city
	}
	student.IsMinor = mapToBool(row["IS_MINOR"])
	student.ProfileComplete = mapToBool(row["PROFILE_COMPLETE"])
	if status, ok := row["GUARDIAN_APPROVAL_STATUS"].(string); ok && status != "" {
		s := guardianmodel.ApprovalStatus(status)
		student.GuardianApprovalStatus = &s
	}
	if created, ok := row["CREATED_TIME"].(int64); ok {
		student.CreatedTime = created
	}
	if updated, ok := row["UPDATED_TIME"].(int64); ok {
		student.UpdatedTime = updated
	}

	return student
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

package adminreview

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	guardianmodel "github.com/jamfest/guardian-consent/internal/guardian/model"
	studentmodel "github.com/jamfest/guardian-consent/internal/student/model"
	"github.com/jamfest/guardian-consent/internal/system/constants"
	dbmodel "github.com/jamfest/guardian-consent/internal/system/database/model"
	"github.com/jamfest/guardian-consent/internal/system/stores"
)

// Test fakes

type fakeTx struct{}

func (t *fakeTx) Exec(query string, args ...interface{}) (sql.Result, error) { return nil, nil }
func (t *fakeTx) Query(query string, args ...interface{}) (*sql.Rows, error) { return nil, nil }
func (t *fakeTx) Commit() error                                              { return nil }
func (t *fakeTx) Rollback() error                                            { return nil }

type fakeDBClient struct{}

func (c *fakeDBClient) Query(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	return nil, nil
}
func (c *fakeDBClient) Execute(query dbmodel.DBQuery, args ...interface{}) (int64, error) {
	return 0, nil
}
func (c *fakeDBClient) BeginTx() (dbmodel.TxInterface, error) { return &fakeTx{}, nil }
func (c *fakeDBClient) DBType() string                        { return "mysql" }

type decisionCall struct {
	guardianID      string
	status          guardianmodel.ApprovalStatus
	rejectionReason *string
	decidedBy       string
}

type attachmentCall struct {
	guardianID string
	studentID  string
	position   int
}

type fakeGuardianStore struct {
	byID       map[string]*guardianmodel.Guardian
	additional map[string][]string
	auditRows  []guardianmodel.GuardianStatusAudit

	decision   *decisionCall
	attachment *attachmentCall
	audits     []*guardianmodel.GuardianStatusAudit
}

func (f *fakeGuardianStore) GetByID(ctx context.Context, guardianID string) (*guardianmodel.Guardian, error) {
	return f.byID[guardianID], nil
}

func (f *fakeGuardianStore) GetByUserID(ctx context.Context, userID string) (*guardianmodel.Guardian, error) {
	return nil, nil
}

func (f *fakeGuardianStore) GetByConsentToken(ctx context.Context, token string) (*guardianmodel.Guardian, error) {
	return nil, nil
}

func (f *fakeGuardianStore) List(ctx context.Context, status guardianmodel.ApprovalStatus, limit, offset int) ([]guardianmodel.Guardian, int, error) {
	guardians := make([]guardianmodel.Guardian, 0)
	for _, g := range f.byID {
		if status == "" || g.ApprovalStatus == status {
			guardians = append(guardians, *g)
		}
	}
	return guardians, len(guardians), nil
}

func (f *fakeGuardianStore) GetAdditionalStudents(ctx context.Context, guardianID string) ([]string, error) {
	return f.additional[guardianID], nil
}

func (f *fakeGuardianStore) GetStatusAuditByGuardianID(ctx context.Context, guardianID string) ([]guardianmodel.GuardianStatusAudit, error) {
	return f.auditRows, nil
}

func (f *fakeGuardianStore) Create(tx dbmodel.TxInterface, guardian *guardianmodel.Guardian) error {
	return nil
}

func (f *fakeGuardianStore) Resubmit(tx dbmodel.TxInterface, guardian *guardianmodel.Guardian) error {
	return nil
}

func (f *fakeGuardianStore) RotateConsentToken(tx dbmodel.TxInterface, guardianID, token string, sentTime, updatedTime int64) error {
	return nil
}

func (f *fakeGuardianStore) UpdateConsentCapture(tx dbmodel.TxInterface, guardian *guardianmodel.Guardian) error {
	return nil
}

func (f *fakeGuardianStore) UpdateDecision(tx dbmodel.TxInterface, guardianID string, status guardianmodel.ApprovalStatus, rejectionReason *string, decidedBy string, decidedAt int64) error {
	f.decision = &decisionCall{
		guardianID:      guardianID,
		status:          status,
		rejectionReason: rejectionReason,
		decidedBy:       decidedBy,
	}
	return nil
}

func (f *fakeGuardianStore) AppendAdditionalStudent(tx dbmodel.TxInterface, guardianID, studentID string, position int, attachedTime int64) error {
	f.attachment = &attachmentCall{guardianID: guardianID, studentID: studentID, position: position}
	return nil
}

func (f *fakeGuardianStore) CreateStatusAudit(tx dbmodel.TxInterface, audit *guardianmodel.GuardianStatusAudit) error {
	f.audits = append(f.audits, audit)
	return nil
}

type fakeStudentStore struct {
	students map[string]*studentmodel.Student

	mirrorStudentID string
	mirrorStatus    *guardianmodel.ApprovalStatus
}

func (f *fakeStudentStore) GetByID(ctx context.Context, studentID string) (*studentmodel.Student, error) {
	return f.students[studentID], nil
}

func (f *fakeStudentStore) UpdateGuardianApprovalStatus(tx dbmodel.TxInterface, studentID string, status *guardianmodel.ApprovalStatus, updatedTime int64) error {
	f.mirrorStudentID = studentID
	f.mirrorStatus = status
	return nil
}

func newTestService(guardianStore *fakeGuardianStore, studentStore *fakeStudentStore) AdminReviewService {
	registry := stores.NewStoreRegistry(&fakeDBClient{}, guardianStore, studentStore)
	return newAdminReviewService(registry)
}

func pendingGuardian() *guardianmodel.Guardian {
	return &guardianmodel.Guardian{
		GuardianID:     "guardian-1",
		UserID:         "student-1",
		FirstName:      "Karim",
		LastName:       "Saleh",
		ApprovalStatus: guardianmodel.StatusPending,
	}
}

func minor(id string) *studentmodel.Student {
	return &studentmodel.Student{
		StudentID:       id,
		IsMinor:         true,
		ProfileComplete: true,
	}
}

func TestApprove_MirrorsOwningStudent(t *testing.T) {
	guardianStore := &fakeGuardianStore{
		byID:       map[string]*guardianmodel.Guardian{"guardian-1": pendingGuardian()},
		additional: map[string][]string{},
	}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{
		"student-1": minor("student-1"),
	}}
	service := newTestService(guardianStore, studentStore)

	_, svcErr := service.Approve(context.Background(), "admin-1", "guardian-1", "documents verified")

	require.Nil(t, svcErr)
	require.NotNil(t, guardianStore.decision)
	assert.Equal(t, guardianmodel.StatusApproved, guardianStore.decision.status)
	assert.Nil(t, guardianStore.decision.rejectionReason)
	assert.Equal(t, "admin-1", guardianStore.decision.decidedBy)

	assert.Equal(t, "student-1", studentStore.mirrorStudentID)
	require.NotNil(t, studentStore.mirrorStatus)
	assert.Equal(t, guardianmodel.StatusApproved, *studentStore.mirrorStatus)

	require.Len(t, guardianStore.audits, 1)
	audit := guardianStore.audits[0]
	assert.Equal(t, string(guardianmodel.StatusApproved), audit.CurrentStatus)
	require.NotNil(t, audit.PreviousStatus)
	assert.Equal(t, string(guardianmodel.StatusPending), *audit.PreviousStatus)
	require.NotNil(t, audit.Reason)
	assert.Equal(t, "documents verified", *audit.Reason)
}

func TestApprove_GuardianNotFound(t *testing.T) {
	guardianStore := &fakeGuardianStore{byID: map[string]*guardianmodel.Guardian{}}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{}}
	service := newTestService(guardianStore, studentStore)

	_, svcErr := service.Approve(context.Background(), "admin-1", "missing", "")

	require.NotNil(t, svcErr)
	assert.Equal(t, "GCE-4004", svcErr.Code)
}

func TestApprove_ReversesEarlierRejection(t *testing.T) {
	rejected := pendingGuardian()
	rejected.ApprovalStatus = guardianmodel.StatusRejected

	guardianStore := &fakeGuardianStore{
		byID:       map[string]*guardianmodel.Guardian{"guardian-1": rejected},
		additional: map[string][]string{},
	}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{
		"student-1": minor("student-1"),
	}}
	service := newTestService(guardianStore, studentStore)

	_, svcErr := service.Approve(context.Background(), "admin-1", "guardian-1", "")

	require.Nil(t, svcErr)
	require.Len(t, guardianStore.audits, 1)
	require.NotNil(t, guardianStore.audits[0].PreviousStatus)
	assert.Equal(t, string(guardianmodel.StatusRejected), *guardianStore.audits[0].PreviousStatus)
}

func TestReject_RequiresMeaningfulReason(t *testing.T) {
	guardianStore := &fakeGuardianStore{
		byID: map[string]*guardianmodel.Guardian{"guardian-1": pendingGuardian()},
	}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{}}
	service := newTestService(guardianStore, studentStore)

	_, svcErr := service.Reject(context.Background(), "admin-1", "guardian-1", "too short")

	require.NotNil(t, svcErr)
	assert.Equal(t, "GCE-4001", svcErr.Code)
	assert.Nil(t, guardianStore.decision, "record untouched on validation failure")
}

func TestReject_MirrorsRejectedStatus(t *testing.T) {
	guardianStore := &fakeGuardianStore{
		byID:       map[string]*guardianmodel.Guardian{"guardian-1": pendingGuardian()},
		additional: map[string][]string{},
	}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{
		"student-1": minor("student-1"),
	}}
	service := newTestService(guardianStore, studentStore)

	reason := "national ID does not match the guardian name"
	_, svcErr := service.Reject(context.Background(), "admin-1", "guardian-1", reason)

	require.Nil(t, svcErr)
	require.NotNil(t, guardianStore.decision)
	assert.Equal(t, guardianmodel.StatusRejected, guardianStore.decision.status)
	require.NotNil(t, guardianStore.decision.rejectionReason)
	assert.Equal(t, reason, *guardianStore.decision.rejectionReason)

	require.NotNil(t, studentStore.mirrorStatus)
	assert.Equal(t, guardianmodel.StatusRejected, *studentStore.mirrorStatus)
}

func TestAttachStudent_ForcesApprovedMirror(t *testing.T) {
	approved := pendingGuardian()
	approved.ApprovalStatus = guardianmodel.StatusApproved

	guardianStore := &fakeGuardianStore{
		byID:       map[string]*guardianmodel.Guardian{"guardian-1": approved},
		additional: map[string][]string{"guardian-1": {"student-2"}},
	}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{
		"student-1": minor("student-1"),
		"student-3": minor("student-3"),
	}}
	service := newTestService(guardianStore, studentStore)

	_, svcErr := service.AttachStudent(context.Background(), "admin-1", "guardian-1", "student-3")

	require.Nil(t, svcErr)
	require.NotNil(t, guardianStore.attachment)
	assert.Equal(t, "student-3", guardianStore.attachment.studentID)
	assert.Equal(t, 1, guardianStore.attachment.position, "appended after existing attachment")

	assert.Equal(t, "student-3", studentStore.mirrorStudentID)
	require.NotNil(t, studentStore.mirrorStatus)
	assert.Equal(t, guardianmodel.StatusApproved, *studentStore.mirrorStatus)

	require.Len(t, guardianStore.audits, 1)
}

func TestAttachStudent_GuardianNotApproved(t *testing.T) {
	guardianStore := &fakeGuardianStore{
		byID: map[string]*guardianmodel.Guardian{"guardian-1": pendingGuardian()},
	}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{
		"student-3": minor("student-3"),
	}}
	service := newTestService(guardianStore, studentStore)

	_, svcErr := service.AttachStudent(context.Background(), "admin-1", "guardian-1", "student-3")

	require.NotNil(t, svcErr)
	assert.Equal(t, "GCE-4010", svcErr.Code)
	assert.Nil(t, guardianStore.attachment)
}

func TestAttachStudent_RejectsPrimaryStudent(t *testing.T) {
	approved := pendingGuardian()
	approved.ApprovalStatus = guardianmodel.StatusApproved

	guardianStore := &fakeGuardianStore{
		byID: map[string]*guardianmodel.Guardian{"guardian-1": approved},
	}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{
		"student-1": minor("student-1"),
	}}
	service := newTestService(guardianStore, studentStore)

	_, svcErr := service.AttachStudent(context.Background(), "admin-1", "guardian-1", "student-1")

	require.NotNil(t, svcErr)
	assert.Equal(t, "GCE-4001", svcErr.Code)
}

func TestAttachStudent_RejectsAdult(t *testing.T) {
	approved := pendingGuardian()
	approved.ApprovalStatus = guardianmodel.StatusApproved

	adult := minor("student-3")
	adult.IsMinor = false

	guardianStore := &fakeGuardianStore{
		byID:       map[string]*guardianmodel.Guardian{"guardian-1": approved},
		additional: map[string][]string{},
	}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{
		"student-3": adult,
	}}
	service := newTestService(guardianStore, studentStore)

	_, svcErr := service.AttachStudent(context.Background(), "admin-1", "guardian-1", "student-3")

	require.NotNil(t, svcErr)
	assert.Equal(t, "GCE-4001", svcErr.Code)
}

func TestAttachStudent_DuplicateAttachment(t *testing.T) {
	approved := pendingGuardian()
	approved.ApprovalStatus = guardianmodel.StatusApproved

	guardianStore := &fakeGuardianStore{
		byID:       map[string]*guardianmodel.Guardian{"guardian-1": approved},
		additional: map[string][]string{"guardian-1": {"student-3"}},
	}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{
		"student-3": minor("student-3"),
	}}
	service := newTestService(guardianStore, studentStore)

	_, svcErr := service.AttachStudent(context.Background(), "admin-1", "guardian-1", "student-3")

	require.NotNil(t, svcErr)
	assert.Equal(t, "GCE-4009", svcErr.Code)
	assert.Nil(t, guardianStore.attachment, "list untouched on conflict")
}

func TestListGuardians_UnknownStatus(t *testing.T) {
	guardianStore := &fakeGuardianStore{byID: map[string]*guardianmodel.Guardian{}}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{}}
	service := newTestService(guardianStore, studentStore)

	_, svcErr := service.ListGuardians(context.Background(), "archived", 10, 0)

	require.NotNil(t, svcErr)
	assert.Equal(t, "GCE-4001", svcErr.Code)
}

func TestListGuardians_DefaultsPagination(t *testing.T) {
	guardianStore := &fakeGuardianStore{
		byID: map[string]*guardianmodel.Guardian{"guardian-1": pendingGuardian()},
	}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{}}
	service := newTestService(guardianStore, studentStore)

	response, svcErr := service.ListGuardians(context.Background(), guardianmodel.StatusPending, 0, -5)

	require.Nil(t, svcErr)
	assert.Equal(t, constants.DefaultPageSize, response.Metadata.Limit)
	assert.Equal(t, 0, response.Metadata.Offset)
	assert.Equal(t, 1, response.Metadata.Count)
}

func TestGetGuardian_LoadsAttachedStudents(t *testing.T) {
	approved := pendingGuardian()
	approved.ApprovalStatus = guardianmodel.StatusApproved

	guardianStore := &fakeGuardianStore{
		byID:       map[string]*guardianmodel.Guardian{"guardian-1": approved},
		additional: map[string][]string{"guardian-1": {"student-2", "student-3"}},
	}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{}}
	service := newTestService(guardianStore, studentStore)

	guardian, svcErr := service.GetGuardian(context.Background(), "guardian-1")

	require.Nil(t, svcErr)
	assert.Equal(t, []string{"student-2", "student-3"}, guardian.AdditionalStudents)
}

func TestGetStatusAudit_GuardianNotFound(t *testing.T) {
	guardianStore := &fakeGuardianStore{byID: map[string]*guardianmodel.Guardian{}}
	studentStore := &fakeStudentStore{students: map[string]*studentmodel.Student{}}
	service := newTestService(guardianStore, studentStore)

	_, svcErr := service.GetStatusAudit(context.Background(), "missing")

	require.NotNil(t, svcErr)
	assert.Equal(t, "GCE-4004", svcErr.Code)
}

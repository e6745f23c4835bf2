package adminreview

import (
	"context"
	"fmt"
	"strings"

	"github.com/jamfest/guardian-consent/internal/guardian"
	guardianmodel "github.com/jamfest/guardian-consent/internal/guardian/model"
	"github.com/jamfest/guardian-consent/internal/student"
	"github.com/jamfest/guardian-consent/internal/system/constants"
	dbmodel "github.com/jamfest/guardian-consent/internal/system/database/model"
	"github.com/jamfest/guardian-consent/internal/system/error/serviceerror"
	"github.com/jamfest/guardian-consent/internal/system/stores"
	"github.com/jamfest/guardian-consent/internal/system/utils"
)

// AdminReviewService defines the exported service interface
type AdminReviewService interface {
	Approve(ctx context.Context, adminID, guardianID, note string) (*guardianmodel.Guardian, *serviceerror.ServiceError)
	Reject(ctx context.Context, adminID, guardianID, reason string) (*guardianmodel.Guardian, *serviceerror.ServiceError)
	AttachStudent(ctx context.Context, adminID, guardianID, studentID string) (*guardianmodel.Guardian, *serviceerror.ServiceError)
	GetGuardian(ctx context.Context, guardianID string) (*guardianmodel.Guardian, *serviceerror.ServiceError)
	ListGuardians(ctx context.Context, status guardianmodel.ApprovalStatus, limit, offset int) (*guardianmodel.GuardianListResponse, *serviceerror.ServiceError)
	GetStatusAudit(ctx context.Context, guardianID string) (*guardianmodel.GuardianStatusAuditListResponse, *serviceerror.ServiceError)
}

// adminReviewService implements the AdminReviewService interface
type adminReviewService struct {
	stores *stores.StoreRegistry
}

// newAdminReviewService creates a new admin review service
func newAdminReviewService(registry *stores.StoreRegistry) AdminReviewService {
	return &adminReviewService{stores: registry}
}

// Approve records an approval decision and mirrors approved onto the owning
// student. Decisions are not state-guarded: an admin may reverse an earlier
// decision, and every decision lands in the audit trail.
func (svc *adminReviewService) Approve(ctx context.Context, adminID, guardianID, note string) (*guardianmodel.Guardian, *serviceerror.ServiceError) {
	reason := "Approved by admin"
	if strings.TrimSpace(note) != "" {
		reason = note
	}
	return svc.decide(ctx, adminID, guardianID, guardianmodel.StatusApproved, nil, reason)
}

// Reject records a rejection decision with a mandatory reason and mirrors
// rejected onto the owning student.
func (svc *adminReviewService) Reject(ctx context.Context, adminID, guardianID, reason string) (*guardianmodel.Guardian, *serviceerror.ServiceError) {
	trimmed := strings.TrimSpace(reason)
	if len(trimmed) < constants.MinRejectionReasonLength {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("rejection reason must be at least %d characters", constants.MinRejectionReasonLength))
	}
	return svc.decide(ctx, adminID, guardianID, guardianmodel.StatusRejected, &trimmed, trimmed)
}

func (svc *adminReviewService) decide(ctx context.Context, adminID, guardianID string,
	status guardianmodel.ApprovalStatus, rejectionReason *string, auditReason string) (*guardianmodel.Guardian, *serviceerror.ServiceError) {
	guardianStore := svc.stores.Guardian.(guardian.GuardianStore)
	studentStore := svc.stores.Student.(student.StudentStore)

	guardianRecord, err := guardianStore.GetByID(ctx, guardianID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if guardianRecord == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("Guardian with ID '%s' not found", guardianID))
	}

	currentTime := utils.GetCurrentTimeMillis()
	previousStatus := string(guardianRecord.ApprovalStatus)
	mirrored := status

	audit := &guardianmodel.GuardianStatusAudit{
		AuditID:        utils.GenerateUUID(),
		GuardianID:     guardianID,
		CurrentStatus:  string(status),
		PreviousStatus: &previousStatus,
		ActionBy:       &adminID,
		Reason:         &auditReason,
		ActionTime:     currentTime,
	}

	// Guardian decision, student mirror and audit row are one transaction.
	// Only the owning student is mirrored here; attached students keep the
	// status they were force-set to at attachment time.
	if err := svc.stores.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return guardianStore.UpdateDecision(tx, guardianID, status, rejectionReason, adminID, currentTime)
		},
		func(tx dbmodel.TxInterface) error {
			return studentStore.UpdateGuardianApprovalStatus(tx, guardianRecord.UserID, &mirrored, currentTime)
		},
		func(tx dbmodel.TxInterface) error {
			return guardianStore.CreateStatusAudit(tx, audit)
		},
	}); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}

	return svc.GetGuardian(ctx, guardianID)
}

// AttachStudent appends an additional minor student to an already-approved
// guardian and force-sets the attached student's mirror to approved. The
// attached student never goes through the consent form.
func (svc *adminReviewService) AttachStudent(ctx context.Context, adminID, guardianID, studentID string) (*guardianmodel.Guardian, *serviceerror.ServiceError) {
	guardianStore := svc.stores.Guardian.(guardian.GuardianStore)
	studentStore := svc.stores.Student.(student.StudentStore)

	guardianRecord, err := guardianStore.GetByID(ctx, guardianID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if guardianRecord == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("Guardian with ID '%s' not found", guardianID))
	}
	if guardianRecord.ApprovalStatus != guardianmodel.StatusApproved {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidStateError,
			"students can only be attached to an approved guardian")
	}
	if studentID == guardianRecord.UserID {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
			"student is already the primary student of this guardian")
	}

	studentRecord, err := studentStore.GetByID(ctx, studentID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if studentRecord == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("Student with ID '%s' not found", studentID))
	}
	if !studentRecord.IsMinor {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
			"only minor students require guardian attachment")
	}

	attached, err := guardianStore.GetAdditionalStudents(ctx, guardianID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	for _, id := range attached {
		if id == studentID {
			return nil, serviceerror.CustomServiceError(serviceerror.ConflictError,
				"student is already attached to this guardian")
		}
	}

	currentTime := utils.GetCurrentTimeMillis()
	approved := guardianmodel.StatusApproved
	position := len(attached)
	auditReason := fmt.Sprintf("Additional student '%s' attached", studentID)
	currentStatus := string(guardianRecord.ApprovalStatus)

	audit := &guardianmodel.GuardianStatusAudit{
		AuditID:        utils.GenerateUUID(),
		GuardianID:     guardianID,
		CurrentStatus:  currentStatus,
		PreviousStatus: &currentStatus,
		ActionBy:       &adminID,
		Reason:         &auditReason,
		ActionTime:     currentTime,
	}

	if err := svc.stores.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return guardianStore.AppendAdditionalStudent(tx, guardianID, studentID, position, currentTime)
		},
		func(tx dbmodel.TxInterface) error {
			return studentStore.UpdateGuardianApprovalStatus(tx, studentID, &approved, currentTime)
		},
		func(tx dbmodel.TxInterface) error {
			return guardianStore.CreateStatusAudit(tx, audit)
		},
	}); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}

	return svc.GetGuardian(ctx, guardianID)
}

// GetGuardian returns a guardian with its attached-student list loaded.
func (svc *adminReviewService) GetGuardian(ctx context.Context, guardianID string) (*guardianmodel.Guardian, *serviceerror.ServiceError) {
	guardianStore := svc.stores.Guardian.(guardian.GuardianStore)

	guardianRecord, err := guardianStore.GetByID(ctx, guardianID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if guardianRecord == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("Guardian with ID '%s' not found", guardianID))
	}

	attached, err := guardianStore.GetAdditionalStudents(ctx, guardianID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	guardianRecord.AdditionalStudents = attached

	return guardianRecord, nil
}

// ListGuardians returns the paginated review queue, optionally filtered by
// approval status.
func (svc *adminReviewService) ListGuardians(ctx context.Context, status guardianmodel.ApprovalStatus, limit, offset int) (*guardianmodel.GuardianListResponse, *serviceerror.ServiceError) {
	guardianStore := svc.stores.Guardian.(guardian.GuardianStore)

	if status != "" && !status.IsValid() {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("unknown approval status '%s'", status))
	}
	if limit <= 0 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	guardians, total, err := guardianStore.List(ctx, status, limit, offset)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}

	return &guardianmodel.GuardianListResponse{
		Data: guardians,
		Metadata: guardianmodel.GuardianListMetada{
			Total:  total,
			Limit:  limit,
			Offset: offset,
			Count:  len(guardians),
		},
	}, nil
}

// GetStatusAudit returns the full decision history for a guardian, newest
// first.
func (svc *adminReviewService) GetStatusAudit(ctx context.Context, guardianID string) (*guardianmodel.GuardianStatusAuditListResponse, *serviceerror.ServiceError) {
	guardianStore := svc.stores.Guardian.(guardian.GuardianStore)

	guardianRecord, err := guardianStore.GetByID(ctx, guardianID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if guardianRecord == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("Guardian with ID '%s' not found", guardianID))
	}

	audits, err := guardianStore.GetStatusAuditByGuardianID(ctx, guardianID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}

	return &guardianmodel.GuardianStatusAuditListResponse{Data: audits}, nil
}

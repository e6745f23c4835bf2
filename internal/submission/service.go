package submission

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jamfest/guardian-consent/internal/guardian"
	guardianmodel "github.com/jamfest/guardian-consent/internal/guardian/model"
	"github.com/jamfest/guardian-consent/internal/notification"
	"github.com/jamfest/guardian-consent/internal/student"
	"github.com/jamfest/guardian-consent/internal/submission/model"
	"github.com/jamfest/guardian-consent/internal/submission/validator"
	"github.com/jamfest/guardian-consent/internal/system/config"
	"github.com/jamfest/guardian-consent/internal/system/constants"
	dbmodel "github.com/jamfest/guardian-consent/internal/system/database/model"
	"github.com/jamfest/guardian-consent/internal/system/error/serviceerror"
	"github.com/jamfest/guardian-consent/internal/system/stores"
	"github.com/jamfest/guardian-consent/internal/system/utils"
)

// SubmissionService defines the exported service interface
type SubmissionService interface {
	SubmitGuardianInfo(ctx context.Context, studentID string, req model.GuardianInfoRequest) (*model.SubmissionResponse, *serviceerror.ServiceError)
	ResendConsent(ctx context.Context, studentID string) (*model.ResendResponse, *serviceerror.ServiceError)
}

// submissionService implements the SubmissionService interface
type submissionService struct {
	stores   *stores.StoreRegistry
	notifier notification.Notifier
}

// newSubmissionService creates a new submission service
func newSubmissionService(registry *stores.StoreRegistry, notifier notification.Notifier) SubmissionService {
	return &submissionService{
		stores:   registry,
		notifier: notifier,
	}
}

// SubmitGuardianInfo creates or overwrites the student's guardian record and
// issues a fresh consent token. A guardian record is only ever created in
// pending; resubmission resets it to pending and starts a clean cycle.
func (svc *submissionService) SubmitGuardianInfo(ctx context.Context, studentID string, req model.GuardianInfoRequest) (*model.SubmissionResponse, *serviceerror.ServiceError) {
	guardianStore := svc.stores.Guardian.(guardian.GuardianStore)
	studentStore := svc.stores.Student.(student.StudentStore)

	studentRecord, err := studentStore.GetByID(ctx, studentID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if studentRecord == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("Student with ID '%s' not found", studentID))
	}
	if !studentRecord.IsMinor {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidStateError,
			"guardian information not required for adults")
	}
	if !studentRecord.ProfileComplete {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidStateError,
			"student profile must be completed before requesting guardian consent")
	}

	if err := validator.ValidateGuardianInfoRequest(req); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	token, err := utils.GenerateConsentToken()
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, err.Error())
	}

	existing, err := guardianStore.GetByUserID(ctx, studentID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}

	currentTime := utils.GetCurrentTimeMillis()
	pending := guardianmodel.StatusPending

	var guardianID string
	var notifyContext string
	var queries []func(tx dbmodel.TxInterface) error

	if existing == nil {
		guardianID = utils.GenerateUUID()
		notifyContext = "created"

		record := &guardianmodel.Guardian{
			GuardianID:      guardianID,
			UserID:          studentID,
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			PhoneKey:        req.PhoneKey,
			PhoneNumber:     req.PhoneNumber,
			Relationship:    req.RelationshipToStudent,
			ConsentToken:    token,
			ConsentSentTime: currentTime,
			ApprovalStatus:  guardianmodel.StatusPending,
			CreatedTime:     currentTime,
			UpdatedTime:     currentTime,
		}

		queries = append(queries, func(tx dbmodel.TxInterface) error {
			return guardianStore.Create(tx, record)
		})
	} else {
		guardianID = existing.GuardianID
		notifyContext = "resubmitted"

		// Overwrite contact fields, rotate the token and reset the workflow
		// to pending. Consent-capture fields are cleared so the record never
		// shows stale "consent given" data alongside a fresh pending status.
		record := &guardianmodel.Guardian{
			GuardianID:      guardianID,
			UserID:          studentID,
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			PhoneKey:        req.PhoneKey,
			PhoneNumber:     req.PhoneNumber,
			Relationship:    req.RelationshipToStudent,
			ConsentToken:    token,
			ConsentSentTime: currentTime,
			ApprovalStatus:  guardianmodel.StatusPending,
			UpdatedTime:     currentTime,
		}

		queries = append(queries, func(tx dbmodel.TxInterface) error {
			return guardianStore.Resubmit(tx, record)
		})
	}

	// Mirror pending onto the student in the same transaction.
	queries = append(queries, func(tx dbmodel.TxInterface) error {
		return studentStore.UpdateGuardianApprovalStatus(tx, studentID, &pending, currentTime)
	})

	audit := svc.buildAudit(guardianID, guardianmodel.StatusPending, existing, studentID, auditReason(existing), currentTime)
	queries = append(queries, func(tx dbmodel.TxInterface) error {
		return guardianStore.CreateStatusAudit(tx, audit)
	})

	if err := svc.stores.ExecuteTransaction(queries); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError,
			fmt.Sprintf("failed to save guardian information: %v", err))
	}

	link := buildConsentLink(token)
	svc.notifier.SendConsentLink(ctx, notification.ConsentRequest{
		RecipientName:  req.FirstName + " " + req.LastName,
		RecipientEmail: req.Email,
		RecipientPhone: req.PhoneKey + req.PhoneNumber,
		StudentName:    studentRecord.FirstName + " " + studentRecord.LastName,
		ConsentLink:    link,
		Context:        notifyContext,
	})

	response := &model.SubmissionResponse{
		GuardianID:     guardianID,
		ApprovalStatus: guardianmodel.StatusPending,
	}
	if !config.Get().Server.IsProduction() {
		response.ConsentLink = link
	}

	return response, nil
}

// ResendConsent rotates the consent token and re-delivers the link without
// touching any other guardian field.
func (svc *submissionService) ResendConsent(ctx context.Context, studentID string) (*model.ResendResponse, *serviceerror.ServiceError) {
	guardianStore := svc.stores.Guardian.(guardian.GuardianStore)
	studentStore := svc.stores.Student.(student.StudentStore)

	existing, err := guardianStore.GetByUserID(ctx, studentID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if existing == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			"no guardian information on file for this student")
	}
	if existing.ApprovalStatus == guardianmodel.StatusApproved {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidStateError,
			"guardian consent has already been approved")
	}

	currentTime := utils.GetCurrentTimeMillis()
	cooldown := config.Get().Consent.GetResendCooldown().Milliseconds()
	if existing.ConsentSentTime > 0 && currentTime-existing.ConsentSentTime < cooldown {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidStateError,
			"a consent link was sent recently, please try again later")
	}

	token, err := utils.GenerateConsentToken()
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, err.Error())
	}

	if err := svc.stores.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return guardianStore.RotateConsentToken(tx, existing.GuardianID, token, currentTime, currentTime)
		},
	}); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}

	studentRecord, _ := studentStore.GetByID(ctx, studentID)
	studentName := ""
	if studentRecord != nil {
		studentName = studentRecord.FirstName + " " + studentRecord.LastName
	}

	link := buildConsentLink(token)
	svc.notifier.SendConsentLink(ctx, notification.ConsentRequest{
		RecipientName:  existing.FirstName + " " + existing.LastName,
		RecipientEmail: existing.Email,
		RecipientPhone: existing.PhoneKey + existing.PhoneNumber,
		StudentName:    studentName,
		ConsentLink:    link,
		Context:        "resent",
	})

	response := &model.ResendResponse{
		GuardianID: existing.GuardianID,
	}
	if !config.Get().Server.IsProduction() {
		response.ConsentLink = link
	}

	return response, nil
}

func (svc *submissionService) buildAudit(guardianID string, status guardianmodel.ApprovalStatus, existing *guardianmodel.Guardian, actionBy, reason string, actionTime int64) *guardianmodel.GuardianStatusAudit {
	audit := &guardianmodel.GuardianStatusAudit{
		AuditID:       utils.GenerateUUID(),
		GuardianID:    guardianID,
		CurrentStatus: string(status),
		ActionBy:      &actionBy,
		Reason:        &reason,
		ActionTime:    actionTime,
	}
	if existing != nil {
		previous := string(existing.ApprovalStatus)
		audit.PreviousStatus = &previous
	}
	return audit
}

func auditReason(existing *guardianmodel.Guardian) string {
	if existing == nil {
		return "Guardian consent requested"
	}
	return "Guardian information resubmitted"
}

// buildConsentLink embeds the token in the public consent-form URL. The token
// is path-escaped; the form service decodes it symmetrically.
func buildConsentLink(token string) string {
	return config.Get().Server.BaseURL + constants.ConsentFormPath + url.PathEscape(token)
}

package consentform

import (
	"context"
	"fmt"

	"github.com/jamfest/guardian-consent/internal/consentform/model"
	"github.com/jamfest/guardian-consent/internal/consentform/validator"
	"github.com/jamfest/guardian-consent/internal/guardian"
	guardianmodel "github.com/jamfest/guardian-consent/internal/guardian/model"
	"github.com/jamfest/guardian-consent/internal/student"
	studentmodel "github.com/jamfest/guardian-consent/internal/student/model"
	dbmodel "github.com/jamfest/guardian-consent/internal/system/database/model"
	"github.com/jamfest/guardian-consent/internal/system/error/serviceerror"
	"github.com/jamfest/guardian-consent/internal/system/stores"
	"github.com/jamfest/guardian-consent/internal/system/utils"
)

// invalidLinkMessage does not distinguish a never-issued token from a
// rotated one.
const invalidLinkMessage = "invalid or expired consent link"

// ConsentFormService defines the exported service interface
type ConsentFormService interface {
	GetConsentForm(ctx context.Context, token string) (*model.ConsentFormResponse, *serviceerror.ServiceError)
	SubmitConsent(ctx context.Context, token string, req model.SubmitConsentRequest) (*model.SubmitConsentResponse, *serviceerror.ServiceError)
}

// consentFormService implements the ConsentFormService interface
type consentFormService struct {
	stores *stores.StoreRegistry
}

// newConsentFormService creates a new consent form service
func newConsentFormService(registry *stores.StoreRegistry) ConsentFormService {
	return &consentFormService{stores: registry}
}

// GetConsentForm resolves a consent token to the form projection shown to the
// guardian. The token is the sole credential for this view.
func (svc *consentFormService) GetConsentForm(ctx context.Context, token string) (*model.ConsentFormResponse, *serviceerror.ServiceError) {
	guardianRecord, studentRecord, svcErr := svc.resolveToken(ctx, token)
	if svcErr != nil {
		return nil, svcErr
	}

	return &model.ConsentFormResponse{
		GuardianFirstName: guardianRecord.FirstName,
		GuardianLastName:  guardianRecord.LastName,
		GuardianEmail:     guardianRecord.Email,
		GuardianPhoneKey:  guardianRecord.PhoneKey,
		GuardianPhone:     guardianRecord.PhoneNumber,
		Relationship:      guardianRecord.Relationship,
		ApprovalStatus:    guardianRecord.ApprovalStatus,
		RejectionReason:   guardianRecord.RejectionReason,
		ConsentGiven:      guardianRecord.ConsentGiven,
		WillAttendEvent:   guardianRecord.WillAttendEvent,
		Student:           studentRecord.ToPublicProfile(),
	}, nil
}

// SubmitConsent records the guardian's signed consent against the token's
// guardian record. The approval status is untouched; the admin decision is a
// separate step.
func (svc *consentFormService) SubmitConsent(ctx context.Context, token string, req model.SubmitConsentRequest) (*model.SubmitConsentResponse, *serviceerror.ServiceError) {
	guardianStore := svc.stores.Guardian.(guardian.GuardianStore)

	guardianRecord, _, svcErr := svc.resolveToken(ctx, token)
	if svcErr != nil {
		return nil, svcErr
	}

	if guardianRecord.ApprovalStatus.IsTerminal() {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidStateError,
			fmt.Sprintf("a decision has already been recorded for this consent request (%s)",
				guardianRecord.ApprovalStatus))
	}

	if err := validator.ValidateSubmitConsentRequest(req); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	currentTime := utils.GetCurrentTimeMillis()
	consentDate := currentTime

	updated := *guardianRecord
	updated.ConsentGiven = true
	updated.ConsentDate = &consentDate
	updated.WillAttendEvent = req.WillAttendEvent
	updated.NationalID = req.NationalID
	updated.ConsentDocumentURL = req.ConsentDocumentURL
	updated.NationalIDImageURL = req.NationalIDImageURL
	updated.SignatureURL = req.SignatureURL
	updated.UpdatedTime = currentTime

	if err := svc.stores.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return guardianStore.UpdateConsentCapture(tx, &updated)
		},
	}); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}

	return &model.SubmitConsentResponse{
		ApprovalStatus: updated.ApprovalStatus,
		ConsentGiven:   true,
		ConsentDate:    consentDate,
	}, nil
}

// resolveToken loads the guardian and owning student for a consent token.
func (svc *consentFormService) resolveToken(ctx context.Context, token string) (*guardianmodel.Guardian, *studentmodel.Student, *serviceerror.ServiceError) {
	guardianStore := svc.stores.Guardian.(guardian.GuardianStore)
	studentStore := svc.stores.Student.(student.StudentStore)

	if token == "" {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, invalidLinkMessage)
	}

	guardianRecord, err := guardianStore.GetByConsentToken(ctx, token)
	if err != nil {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if guardianRecord == nil {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, invalidLinkMessage)
	}

	studentRecord, err := studentStore.GetByID(ctx, guardianRecord.UserID)
	if err != nil {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if studentRecord == nil {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, invalidLinkMessage)
	}

	return guardianRecord, studentRecord, nil
}

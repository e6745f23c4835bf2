package student

import (
	"context"
	"fmt"

	"github.com/jamfest/guardian-consent/internal/student/model"
	"github.com/jamfest/guardian-consent/internal/system/error/serviceerror"
	"github.com/jamfest/guardian-consent/internal/system/stores"
)

// ParticipationService defines the exported service interface
type ParticipationService interface {
	GetParticipation(ctx context.Context, studentID string) (*model.Participation, *serviceerror.ServiceError)
}

// participationService implements the ParticipationService interface
type participationService struct {
	stores *stores.StoreRegistry
}

// newParticipationService creates a new participation service
func newParticipationService(registry *stores.StoreRegistry) ParticipationService {
	return &participationService{
		stores: registry,
	}
}

// GetParticipation loads a student and derives the gating projection
func (svc *participationService) GetParticipation(ctx context.Context, studentID string) (*model.Participation, *serviceerror.ServiceError) {
	studentStore := svc.stores.Student.(StudentStore)

	student, err := studentStore.GetByID(ctx, studentID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if student == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("Student with ID '%s' not found", studentID))
	}

	projection := ProjectParticipation(student)
	return &projection, nil
}

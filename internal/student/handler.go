package student

import (
	"net/http"

	"github.com/jamfest/guardian-consent/internal/system/error/serviceerror"
	"github.com/jamfest/guardian-consent/internal/system/middleware"
	"github.com/jamfest/guardian-consent/internal/system/utils"
)

type participationHandler struct {
	service ParticipationService
}

func newParticipationHandler(service ParticipationService) *participationHandler {
	return &participationHandler{
		service: service,
	}
}

// getParticipation handles GET /students/{studentId}/participation
func (h *participationHandler) getParticipation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	studentID := r.PathValue("studentId")

	// Students may only read their own projection; admins may read any.
	if middleware.Role(ctx) != middleware.RoleAdmin && middleware.UserID(ctx) != studentID {
		utils.SendError(w, serviceerror.CustomServiceError(serviceerror.UnauthorizedError,
			"not permitted to view this student's participation"))
		return
	}

	projection, serviceErr := h.service.GetParticipation(ctx, studentID)
	if serviceErr != nil {
		utils.SendError(w, serviceErr)
		return
	}

	utils.JSONResponse(w, http.StatusOK, projection)
}

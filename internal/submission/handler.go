package submission

import (
	"net/http"

	"github.com/jamfest/guardian-consent/internal/submission/model"
	"github.com/jamfest/guardian-consent/internal/system/error/serviceerror"
	"github.com/jamfest/guardian-consent/internal/system/log"
	"github.com/jamfest/guardian-consent/internal/system/middleware"
	"github.com/jamfest/guardian-consent/internal/system/utils"
)

type submissionHandler struct {
	service SubmissionService
}

func newSubmissionHandler(service SubmissionService) *submissionHandler {
	return &submissionHandler{service: service}
}

// submitGuardianInfo handles POST /students/me/guardian.
func (h *submissionHandler) submitGuardianInfo(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "SubmissionHandler"))

	studentID := middleware.UserID(r.Context())
	if studentID == "" {
		utils.SendError(w, &serviceerror.UnauthorizedError)
		return
	}

	var request model.GuardianInfoRequest
	if err := utils.DecodeJSONBody(r, &request); err != nil {
		utils.SendError(w, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	response, svcErr := h.service.SubmitGuardianInfo(r.Context(), studentID, request)
	if svcErr != nil {
		utils.SendError(w, svcErr)
		return
	}

	logger.Info("Guardian information submitted", log.String("guardianId", response.GuardianID),
		log.String("studentId", studentID))
	utils.JSONResponse(w, http.StatusOK, response)
}

// resendConsent handles POST /students/me/guardian/resend.
func (h *submissionHandler) resendConsent(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "SubmissionHandler"))

	studentID := middleware.UserID(r.Context())
	if studentID == "" {
		utils.SendError(w, &serviceerror.UnauthorizedError)
		return
	}

	response, svcErr := h.service.ResendConsent(r.Context(), studentID)
	if svcErr != nil {
		utils.SendError(w, svcErr)
		return
	}

	logger.Info("Consent link resent", log.String("guardianId", response.GuardianID),
		log.String("studentId", studentID))
	utils.JSONResponse(w, http.StatusOK, response)
}

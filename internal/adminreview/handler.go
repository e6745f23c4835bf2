package adminreview

import (
	"net/http"
	"strconv"

	"github.com/jamfest/guardian-consent/internal/adminreview/model"
	guardianmodel "github.com/jamfest/guardian-consent/internal/guardian/model"
	"github.com/jamfest/guardian-consent/internal/system/error/serviceerror"
	"github.com/jamfest/guardian-consent/internal/system/log"
	"github.com/jamfest/guardian-consent/internal/system/middleware"
	"github.com/jamfest/guardian-consent/internal/system/utils"
)

type adminReviewHandler struct {
	service AdminReviewService
}

func newAdminReviewHandler(service AdminReviewService) *adminReviewHandler {
	return &adminReviewHandler{service: service}
}

// approveGuardian handles POST /admin/guardians/{guardianId}/approve.
func (h *adminReviewHandler) approveGuardian(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AdminReviewHandler"))

	guardianID := r.PathValue("guardianId")
	adminID := middleware.UserID(r.Context())

	// The note is optional, so an empty body is accepted.
	var request model.DecisionRequest
	if r.ContentLength > 0 {
		if err := utils.DecodeJSONBody(r, &request); err != nil {
			utils.SendError(w, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
			return
		}
	}

	response, svcErr := h.service.Approve(r.Context(), adminID, guardianID, request.Note)
	if svcErr != nil {
		utils.SendError(w, svcErr)
		return
	}

	logger.Info("Guardian approved", log.String("guardianId", guardianID), log.String("adminId", adminID))
	utils.JSONResponse(w, http.StatusOK, response)
}

// rejectGuardian handles POST /admin/guardians/{guardianId}/reject.
func (h *adminReviewHandler) rejectGuardian(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AdminReviewHandler"))

	guardianID := r.PathValue("guardianId")
	adminID := middleware.UserID(r.Context())

	var request model.RejectRequest
	if err := utils.DecodeJSONBody(r, &request); err != nil {
		utils.SendError(w, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	response, svcErr := h.service.Reject(r.Context(), adminID, guardianID, request.Reason)
	if svcErr != nil {
		utils.SendError(w, svcErr)
		return
	}

	logger.Info("Guardian rejected", log.String("guardianId", guardianID), log.String("adminId", adminID))
	utils.JSONResponse(w, http.StatusOK, response)
}

// attachStudent handles POST /admin/guardians/{guardianId}/students.
func (h *adminReviewHandler) attachStudent(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AdminReviewHandler"))

	guardianID := r.PathValue("guardianId")
	adminID := middleware.UserID(r.Context())

	var request model.AttachStudentRequest
	if err := utils.DecodeJSONBody(r, &request); err != nil {
		utils.SendError(w, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}
	if request.StudentID == "" {
		utils.SendError(w, serviceerror.CustomServiceError(serviceerror.ValidationError, "studentId is required"))
		return
	}

	response, svcErr := h.service.AttachStudent(r.Context(), adminID, guardianID, request.StudentID)
	if svcErr != nil {
		utils.SendError(w, svcErr)
		return
	}

	logger.Info("Additional student attached", log.String("guardianId", guardianID),
		log.String("studentId", request.StudentID), log.String("adminId", adminID))
	utils.JSONResponse(w, http.StatusOK, response)
}

// getGuardian handles GET /admin/guardians/{guardianId}.
func (h *adminReviewHandler) getGuardian(w http.ResponseWriter, r *http.Request) {
	response, svcErr := h.service.GetGuardian(r.Context(), r.PathValue("guardianId"))
	if svcErr != nil {
		utils.SendError(w, svcErr)
		return
	}

	utils.JSONResponse(w, http.StatusOK, response)
}

// listGuardians handles GET /admin/guardians.
func (h *adminReviewHandler) listGuardians(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	status := guardianmodel.ApprovalStatus(query.Get("status"))
	limit := parseIntParam(query.Get("limit"))
	offset := parseIntParam(query.Get("offset"))

	response, svcErr := h.service.ListGuardians(r.Context(), status, limit, offset)
	if svcErr != nil {
		utils.SendError(w, svcErr)
		return
	}

	utils.JSONResponse(w, http.StatusOK, response)
}

// getStatusAudit handles GET /admin/guardians/{guardianId}/audit.
func (h *adminReviewHandler) getStatusAudit(w http.ResponseWriter, r *http.Request) {
	response, svcErr := h.service.GetStatusAudit(r.Context(), r.PathValue("guardianId"))
	if svcErr != nil {
		utils.SendError(w, svcErr)
		return
	}

	utils.JSONResponse(w, http.StatusOK, response)
}

func parseIntParam(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

package consentform

import (
	"net/http"
	"net/url"

	"github.com/jamfest/guardian-consent/internal/consentform/model"
	"github.com/jamfest/guardian-consent/internal/system/error/serviceerror"
	"github.com/jamfest/guardian-consent/internal/system/log"
	"github.com/jamfest/guardian-consent/internal/system/utils"
)

type consentFormHandler struct {
	service ConsentFormService
}

func newConsentFormHandler(service ConsentFormService) *consentFormHandler {
	return &consentFormHandler{service: service}
}

// getConsentForm handles GET /guardian/consent/{token}.
func (h *consentFormHandler) getConsentForm(w http.ResponseWriter, r *http.Request) {
	token := pathToken(r)

	response, svcErr := h.service.GetConsentForm(r.Context(), token)
	if svcErr != nil {
		utils.SendError(w, svcErr)
		return
	}

	utils.JSONResponse(w, http.StatusOK, response)
}

// submitConsent handles POST /guardian/consent/{token}.
func (h *consentFormHandler) submitConsent(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ConsentFormHandler"))

	token := pathToken(r)

	var request model.SubmitConsentRequest
	if err := utils.DecodeJSONBody(r, &request); err != nil {
		utils.SendError(w, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	response, svcErr := h.service.SubmitConsent(r.Context(), token, request)
	if svcErr != nil {
		utils.SendError(w, svcErr)
		return
	}

	// The token never appears in logs.
	logger.Info("Guardian consent recorded", log.String("approvalStatus", string(response.ApprovalStatus)))
	utils.JSONResponse(w, http.StatusOK, response)
}

// pathToken extracts and unescapes the consent token path segment. The link
// builder escapes symmetrically.
func pathToken(r *http.Request) string {
	raw := r.PathValue("token")
	token, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return token
}

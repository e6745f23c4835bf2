package submission

import (
	"net/http"

	"github.com/jamfest/guardian-consent/internal/notification"
	"github.com/jamfest/guardian-consent/internal/system/constants"
	"github.com/jamfest/guardian-consent/internal/system/middleware"
	"github.com/jamfest/guardian-consent/internal/system/stores"
)

// Initialize sets up the submission module and registers routes
func Initialize(mux *http.ServeMux, registry *stores.StoreRegistry, notifier notification.Notifier) SubmissionService {
	service := newSubmissionService(registry, notifier)
	handler := newSubmissionHandler(service)

	registerRoutes(mux, handler)

	return service
}

// registerRoutes registers all submission routes
func registerRoutes(mux *http.ServeMux, handler *submissionHandler) {
	corsOpts := middleware.CORSOptions{
		AllowOrigin:      "*",
		AllowMethods:     []string{"POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Correlation-ID"},
		AllowCredentials: true,
	}

	// POST /api/v1/students/me/guardian - Submit or resubmit guardian info
	mux.HandleFunc(middleware.WithCORS("POST "+constants.APIBasePath+"/students/me/guardian",
		middleware.RequireRole(middleware.RoleStudent, handler.submitGuardianInfo), corsOpts))

	// POST /api/v1/students/me/guardian/resend - Resend the consent link
	mux.HandleFunc(middleware.WithCORS("POST "+constants.APIBasePath+"/students/me/guardian/resend",
		middleware.RequireRole(middleware.RoleStudent, handler.resendConsent), corsOpts))

	mux.HandleFunc("OPTIONS "+constants.APIBasePath+"/students/me/guardian",
		middleware.PreflightHandler(corsOpts))
	mux.HandleFunc("OPTIONS "+constants.APIBasePath+"/students/me/guardian/resend",
		middleware.PreflightHandler(corsOpts))
}

package consentform

import (
	"net/http"

	"github.com/jamfest/guardian-consent/internal/system/constants"
	"github.com/jamfest/guardian-consent/internal/system/middleware"
	"github.com/jamfest/guardian-consent/internal/system/stores"
)

// Initialize sets up the consent form module and registers routes
func Initialize(mux *http.ServeMux, registry *stores.StoreRegistry) ConsentFormService {
	service := newConsentFormService(registry)
	handler := newConsentFormHandler(service)

	registerRoutes(mux, handler)

	return service
}

// registerRoutes registers all consent form routes. No session is required;
// the token in the path is the credential.
func registerRoutes(mux *http.ServeMux, handler *consentFormHandler) {
	corsOpts := middleware.CORSOptions{
		AllowOrigin:      "*",
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Correlation-ID"},
		AllowCredentials: false,
	}

	// GET /api/v1/guardian/consent/{token} - Token-resolved form view
	mux.HandleFunc(middleware.WithCORS("GET "+constants.APIBasePath+"/guardian/consent/{token}",
		handler.getConsentForm, corsOpts))

	// POST /api/v1/guardian/consent/{token} - Signed consent submission
	mux.HandleFunc(middleware.WithCORS("POST "+constants.APIBasePath+"/guardian/consent/{token}",
		handler.submitConsent, corsOpts))

	mux.HandleFunc("OPTIONS "+constants.APIBasePath+"/guardian/consent/{token}",
		middleware.PreflightHandler(corsOpts))
}

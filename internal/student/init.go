package student

import (
	"net/http"

	"github.com/jamfest/guardian-consent/internal/system/constants"
	"github.com/jamfest/guardian-consent/internal/system/database/provider"
	"github.com/jamfest/guardian-consent/internal/system/middleware"
	"github.com/jamfest/guardian-consent/internal/system/stores"
)

// NewStore creates and returns a new student store (exported for registry)
func NewStoreForRegistry(dbClient provider.DBClientInterface) interface{} {
	return NewStore(dbClient)
}

// Initialize sets up the student module and registers routes
func Initialize(mux *http.ServeMux, registry *stores.StoreRegistry) ParticipationService {
	service := newParticipationService(registry)
	handler := newParticipationHandler(service)

	registerRoutes(mux, handler)

	return service
}

// registerRoutes registers all student routes
func registerRoutes(mux *http.ServeMux, handler *participationHandler) {
	corsOpts := middleware.CORSOptions{
		AllowOrigin:      "*",
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Correlation-ID"},
		AllowCredentials: true,
	}

	// GET /api/v1/students/{studentId}/participation - Participation projection
	mux.HandleFunc(middleware.WithCORS("GET "+constants.APIBasePath+"/students/{studentId}/participation",
		middleware.RequireSession(handler.getParticipation), corsOpts))

	mux.HandleFunc("OPTIONS "+constants.APIBasePath+"/students/{studentId}/participation",
		middleware.PreflightHandler(corsOpts))
}

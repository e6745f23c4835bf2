package adminreview

import (
	"net/http"

	"github.com/jamfest/guardian-consent/internal/system/constants"
	"github.com/jamfest/guardian-consent/internal/system/middleware"
	"github.com/jamfest/guardian-consent/internal/system/stores"
)

// Initialize sets up the admin review module and registers routes
func Initialize(mux *http.ServeMux, registry *stores.StoreRegistry) AdminReviewService {
	service := newAdminReviewService(registry)
	handler := newAdminReviewHandler(service)

	registerRoutes(mux, handler)

	return service
}

// registerRoutes registers all admin review routes. Every route requires an
// admin session.
func registerRoutes(mux *http.ServeMux, handler *adminReviewHandler) {
	corsOpts := middleware.CORSOptions{
		AllowOrigin:      "*",
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Correlation-ID"},
		AllowCredentials: true,
	}

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireRole(middleware.RoleAdmin, h)
	}

	// GET /api/v1/admin/guardians - Paginated review queue
	mux.HandleFunc(middleware.WithCORS("GET "+constants.APIBasePath+"/admin/guardians",
		admin(handler.listGuardians), corsOpts))

	// GET /api/v1/admin/guardians/{guardianId} - Guardian detail
	mux.HandleFunc(middleware.WithCORS("GET "+constants.APIBasePath+"/admin/guardians/{guardianId}",
		admin(handler.getGuardian), corsOpts))

	// GET /api/v1/admin/guardians/{guardianId}/audit - Decision history
	mux.HandleFunc(middleware.WithCORS("GET "+constants.APIBasePath+"/admin/guardians/{guardianId}/audit",
		admin(handler.getStatusAudit), corsOpts))

	// POST /api/v1/admin/guardians/{guardianId}/approve - Approve decision
	mux.HandleFunc(middleware.WithCORS("POST "+constants.APIBasePath+"/admin/guardians/{guardianId}/approve",
		admin(handler.approveGuardian), corsOpts))

	// POST /api/v1/admin/guardians/{guardianId}/reject - Reject decision
	mux.HandleFunc(middleware.WithCORS("POST "+constants.APIBasePath+"/admin/guardians/{guardianId}/reject",
		admin(handler.rejectGuardian), corsOpts))

	// POST /api/v1/admin/guardians/{guardianId}/students - Attach student
	mux.HandleFunc(middleware.WithCORS("POST "+constants.APIBasePath+"/admin/guardians/{guardianId}/students",
		admin(handler.attachStudent), corsOpts))

	for _, path := range []string{
		"/admin/guardians",
		"/admin/guardians/{guardianId}",
		"/admin/guardians/{guardianId}/audit",
		"/admin/guardians/{guardianId}/approve",
		"/admin/guardians/{guardianId}/reject",
		"/admin/guardians/{guardianId}/students",
	} {
		mux.HandleFunc("OPTIONS "+constants.APIBasePath+path, middleware.PreflightHandler(corsOpts))
	}
}

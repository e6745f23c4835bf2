package main

import (
	"net/http"

	"github.com/jamfest/guardian-consent/internal/adminreview"
	"github.com/jamfest/guardian-consent/internal/consentform"
	"github.com/jamfest/guardian-consent/internal/guardian"
	"github.com/jamfest/guardian-consent/internal/notification"
	"github.com/jamfest/guardian-consent/internal/student"
	"github.com/jamfest/guardian-consent/internal/submission"
	"github.com/jamfest/guardian-consent/internal/system/config"
	"github.com/jamfest/guardian-consent/internal/system/database/provider"
	"github.com/jamfest/guardian-consent/internal/system/log"
	"github.com/jamfest/guardian-consent/internal/system/stores"
)

// initializeServices wires the stores into the registry and lets each module
// register its routes on the mux.
func initializeServices(mux *http.ServeMux, dbClient provider.DBClientInterface, cfg *config.Config) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ServiceManager"))

	registry := stores.NewStoreRegistry(
		dbClient,
		guardian.NewStore(dbClient),
		student.NewStoreForRegistry(dbClient),
	)

	notifier := notification.NewService(&cfg.Notification)
	logger.Info("Notification service initialized", log.Bool("enabled", cfg.Notification.Enabled))

	_ = submission.Initialize(mux, registry, notifier)
	logger.Info("Submission module initialized")

	_ = consentform.Initialize(mux, registry)
	logger.Info("Consent form module initialized")

	_ = adminreview.Initialize(mux, registry)
	logger.Info("Admin review module initialized")

	_ = student.Initialize(mux, registry)
	logger.Info("Student participation module initialized")
}

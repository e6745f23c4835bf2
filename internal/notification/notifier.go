// Package notification delivers consent links to guardians. Delivery is
// fire-and-forget: a failed send never fails the business operation that
// triggered it.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jamfest/guardian-consent/internal/system/config"
	"github.com/jamfest/guardian-consent/internal/system/log"
	"github.com/jamfest/guardian-consent/internal/system/middleware"
)

// ConsentRequest is the payload handed to the delivery collaborator.
type ConsentRequest struct {
	RecipientName  string `json:"recipientName"`
	RecipientEmail string `json:"recipientEmail"`
	RecipientPhone string `json:"recipientPhone"`
	Channel        string `json:"channel"`
	StudentName    string `json:"studentName"`
	ConsentLink    string `json:"consentLink"`
	Context        string `json:"context"`
}

// Notifier sends consent links to guardians.
type Notifier interface {
	SendConsentLink(ctx context.Context, req ConsentRequest)
}

// Service is the default Notifier. When delivery is disabled it logs the
// send instead, which is the behavior local and test environments rely on.
type Service struct {
	cfg        *config.NotificationConfig
	httpClient *http.Client
	logger     *log.Logger
}

// NewService creates a new notification service.
func NewService(cfg *config.NotificationConfig) *Service {
	timeout := 10 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &Service{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Notification")),
	}
}

// SendConsentLink delivers a consent link to the guardian. Errors are logged
// and swallowed.
func (s *Service) SendConsentLink(ctx context.Context, req ConsentRequest) {
	if req.Channel == "" {
		req.Channel = s.cfg.Channel
	}

	if !s.cfg.Enabled {
		s.logger.Info("Consent link issued (delivery disabled)",
			log.String("recipient_email", req.RecipientEmail),
			log.String("channel", req.Channel),
			log.String("context", req.Context),
			log.String("consent_link", req.ConsentLink),
		)
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		s.logger.Error("Failed to marshal notification payload", log.Error(err))
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewBuffer(payload))
	if err != nil {
		s.logger.Error("Failed to create notification request", log.Error(err))
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if correlationID := middleware.CorrelationID(ctx); correlationID != "" {
		httpReq.Header.Set("X-Correlation-ID", correlationID)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.Warn("Consent link delivery failed",
			log.String("recipient_email", req.RecipientEmail),
			log.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.logger.Warn("Consent link delivery rejected",
			log.String("recipient_email", req.RecipientEmail),
			log.Error(fmt.Errorf("webhook returned status %d", resp.StatusCode)))
		return
	}

	s.logger.Debug("Consent link delivered",
		log.String("recipient_email", req.RecipientEmail),
		log.String("context", req.Context))
}

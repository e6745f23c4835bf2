package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// consentTokenBytes gives 256 bits of entropy; the token is the sole
// credential for the guardian-facing consent form.
const consentTokenBytes = 32

// GenerateConsentToken returns a new URL-safe consent token.
func GenerateConsentToken() (string, error) {
	buf := make([]byte, consentTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate consent token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

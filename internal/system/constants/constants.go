package constants

const (
	AuthorizationHeaderName = "Authorization"
	ContentTypeHeaderName   = "Content-Type"
	CorrelationIDHeaderName = "X-Correlation-ID"
	ContentTypeJSON         = "application/json"
	TokenTypeBearer         = "Bearer"

	APIBasePath = "/api/v1"

	DefaultPageSize = 30
	MaxPageSize     = 100

	// MinRejectionReasonLength is the minimum length of an admin rejection reason.
	MinRejectionReasonLength = 10

	// ConsentFormPath is the public path of the guardian-facing consent form.
	// The token is URL-path-embedded; callers must escape it symmetrically.
	ConsentFormPath = "/guardian/consent/"

	// Aliases for convenience
	HeaderContentType = ContentTypeHeaderName
)

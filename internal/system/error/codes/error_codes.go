// Package codes defines the stable error codes of the Guardian Consent Service.
package codes

const (
	InternalServerError = "GSE-5000"
	DatabaseError       = "GSE-5001"
	InvalidRequest      = "GCE-4000"
	ValidationError     = "GCE-4001"
	ResourceNotFound    = "GCE-4004"
	Conflict            = "GCE-4009"
	InvalidState        = "GCE-4010"
	Unauthorized        = "GCE-4011"
)

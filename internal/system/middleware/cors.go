package middleware

import (
	"net/http"
	"strings"
)

// CORSOptions configures the CORS headers applied to a route group.
type CORSOptions struct {
	AllowOrigin      string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
}

// WithCORS wraps a route pattern and handler so CORS headers are applied to
// every response. The pattern is returned unchanged for mux registration.
func WithCORS(pattern string, handler http.HandlerFunc, opts CORSOptions) (string, http.HandlerFunc) {
	return pattern, func(w http.ResponseWriter, r *http.Request) {
		applyCORSHeaders(w, opts)
		handler(w, r)
	}
}

// PreflightHandler answers OPTIONS requests for a path with the configured
// CORS headers and no body.
func PreflightHandler(opts CORSOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyCORSHeaders(w, opts)
		w.WriteHeader(http.StatusNoContent)
	}
}

func applyCORSHeaders(w http.ResponseWriter, opts CORSOptions) {
	if opts.AllowOrigin != "" {
		w.Header().Set("Access-Control-Allow-Origin", opts.AllowOrigin)
	}
	if len(opts.AllowMethods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(opts.AllowMethods, ", "))
	}
	if len(opts.AllowHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(opts.AllowHeaders, ", "))
	}
	if opts.AllowCredentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jamfest/guardian-consent/internal/system/config"
	"github.com/jamfest/guardian-consent/internal/system/constants"
	"github.com/jamfest/guardian-consent/internal/system/error/serviceerror"
	"github.com/jamfest/guardian-consent/internal/system/utils"
)

const (
	// RoleStudent is the session role of an authenticated participant.
	RoleStudent = "student"
	// RoleAdmin is the session role of a back-office reviewer.
	RoleAdmin = "admin"
)

const (
	userIDContextKey contextKey = "user_id"
	roleContextKey   contextKey = "user_role"
)

// sessionClaims are the claims carried by the platform's session tokens.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RequireRole guards a handler behind an authenticated session carrying the
// given role. The authenticated subject ID is stored in the request context.
func RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := validateSession(r)
		if err != nil {
			utils.SendError(w, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, err.Error()))
			return
		}

		if claims.Role != role {
			utils.SendError(w, serviceerror.CustomServiceError(serviceerror.UnauthorizedError,
				fmt.Sprintf("%s session required", role)))
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, claims.Subject)
		ctx = context.WithValue(ctx, roleContextKey, claims.Role)
		next(w, r.WithContext(ctx))
	}
}

// RequireSession guards a handler behind any authenticated session, leaving
// role checks to the handler.
func RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := validateSession(r)
		if err != nil {
			utils.SendError(w, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, err.Error()))
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, claims.Subject)
		ctx = context.WithValue(ctx, roleContextKey, claims.Role)
		next(w, r.WithContext(ctx))
	}
}

// UserID returns the authenticated subject ID stored in the context.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDContextKey).(string); ok {
		return id
	}
	return ""
}

// Role returns the authenticated role stored in the context.
func Role(ctx context.Context) string {
	if role, ok := ctx.Value(roleContextKey).(string); ok {
		return role
	}
	return ""
}

func validateSession(r *http.Request) (*sessionClaims, error) {
	authHeader := r.Header.Get(constants.AuthorizationHeaderName)
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header missing")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.TokenTypeBearer) {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	jwtConfig := config.Get().Security.JWT

	parseOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if jwtConfig.Issuer != "" {
		parseOpts = append(parseOpts, jwt.WithIssuer(jwtConfig.Issuer))
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(jwtConfig.Secret), nil
	}, parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired session token")
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid session token")
	}

	return claims, nil
}

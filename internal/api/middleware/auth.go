package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/service/auth"
)

// errMalformedHeader is returned when the Authorization header is not "Bearer <token>".
var errMalformedHeader = errors.New("invalid authorization format")

// IdentityHandlerFunc is a handler that receives the caller's identity
// explicitly rather than digging it out of the request context.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, identity auth.Identity)

// Policy declares how a route treats the Authorization header.
type Policy int

const (
	// PolicyNone ignores the header; the handler always sees an anonymous caller.
	PolicyNone Policy = iota
	// PolicyOptional verifies a token when present and falls back to anonymous.
	PolicyOptional
	// PolicyRequired rejects the request with 401 unless a valid token is present.
	PolicyRequired
)

// String returns the policy name used in logs and API documentation.
func (p Policy) String() string {
	switch p {
	case PolicyNone:
		return "none"
	case PolicyOptional:
		return "optional"
	case PolicyRequired:
		return "required"
	default:
		return "unknown"
	}
}

// AuthMiddleware turns bearer tokens into auth.Identity values.
type AuthMiddleware struct {
	tokenService auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokenService auth.TokenService) *AuthMiddleware {
	if tokenService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tokenService cannot be nil")
	}
	return &AuthMiddleware{tokenService: tokenService}
}

// Wrap applies policy to h.
func (m *AuthMiddleware) Wrap(policy Policy, h IdentityHandlerFunc) http.Handler {
	switch policy {
	case PolicyRequired:
		return m.Required(h)
	case PolicyOptional:
		return m.Optional(h)
	default:
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h(w, r, auth.Anonymous())
		})
	}
}

// Required invokes h only for callers with a valid token. Everyone else
// receives a 401 JSON error and h is never called.
func (m *AuthMiddleware) Required(h IdentityHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.authenticate(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			case errors.Is(err, errMalformedHeader):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Token expired", err, shared.WithElevatedLogLevel())
			case errors.Is(err, auth.ErrInvalidToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid token", err, shared.WithElevatedLogLevel())
			default:
				w.Header().Del("WWW-Authenticate")
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		h(w, r, identity)
	})
}

// Optional never rejects. Callers without a usable token are treated as anonymous.
func (m *AuthMiddleware) Optional(h IdentityHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.authenticate(r)
		if err != nil {
			if !errors.Is(err, auth.ErrMissingToken) {
				logger.FromContextOrDefault(r.Context(), nil).
					Debug("ignoring unusable token on optional route", "reason", err.Error())
			}
			identity = auth.Anonymous()
		}

		h(w, r, identity)
	})
}

// authenticate extracts and verifies the bearer token of r.
func (m *AuthMiddleware) authenticate(r *http.Request) (auth.Identity, error) {
	token, err := bearerToken(r)
	if err != nil {
		return auth.Anonymous(), err
	}

	claims, err := m.tokenService.ValidateToken(r.Context(), token)
	if err != nil {
		return auth.Anonymous(), err
	}

	return auth.Authenticated(claims.UserID), nil
}

// bearerToken returns the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", auth.ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
		return "", errMalformedHeader
	}

	return token, nil
}

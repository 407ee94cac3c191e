package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/users-api/internal/mocks"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	called   bool
	identity auth.Identity
}

func (c *capture) handler() IdentityHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
		c.called = true
		c.identity = identity
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthMiddleware_Required(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		expectedStatus int
		expectedUserID int64
		expectedError  string
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: 7},
			expectedStatus: http.StatusOK,
			expectedUserID: 7,
		},
		{
			name:           "lowercase scheme",
			authHeader:     "bearer valid-token",
			claims:         &auth.Claims{UserID: 7},
			expectedStatus: http.StatusOK,
			expectedUserID: 7,
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Authorization header required",
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid authorization format",
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid authorization format",
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Token expired",
		},
		{
			name:           "bad signature",
			authHeader:     "Bearer forged-token",
			validateErr:    auth.ErrInvalidSignature,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token",
		},
		{
			name:           "unexpected failure",
			authHeader:     "Bearer token",
			validateErr:    errors.New("keystore unavailable"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Authentication error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens := &mocks.MockTokenService{
				ValidateErr: tt.validateErr,
				Claims:      tt.claims,
			}
			mw := NewAuthMiddleware(tokens)

			var c capture
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.Required(c.handler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				require.True(t, c.called)
				id, ok := c.identity.UserID()
				assert.True(t, ok)
				assert.Equal(t, tt.expectedUserID, id)
				return
			}

			assert.False(t, c.called, "handler must not run when authentication fails")
			assert.Contains(t, rec.Body.String(), tt.expectedError)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthMiddleware_Required_LogLevel(t *testing.T) {
	tests := []struct {
		name        string
		authHeader  string
		validateErr error
		level       string
	}{
		{name: "expired token", authHeader: "Bearer old", validateErr: auth.ErrExpiredToken, level: "WARN"},
		{name: "bad signature", authHeader: "Bearer forged", validateErr: auth.ErrInvalidToken, level: "WARN"},
		{name: "unexpected failure", authHeader: "Bearer token", validateErr: errors.New("keystore unavailable"), level: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logBuf := logger.GetTestLogger(t)
			mw := NewAuthMiddleware(&mocks.MockTokenService{ValidateErr: tt.validateErr})

			var c capture
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req = req.WithContext(logger.WithLogger(req.Context(), log))
			req.Header.Set("Authorization", tt.authHeader)
			rec := httptest.NewRecorder()

			mw.Required(c.handler()).ServeHTTP(rec, req)

			entries, err := logBuf.GetLogEntries()
			require.NoError(t, err)

			var found bool
			for _, entry := range entries {
				if entry["msg"] == "API error response" {
					found = true
					assert.Equal(t, tt.level, entry["level"])
				}
			}
			assert.True(t, found, "rejection must be logged")
		})
	}
}

func TestAuthMiddleware_Optional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		authHeader    string
		validateErr   error
		claims        *auth.Claims
		authenticated bool
	}{
		{name: "valid token", authHeader: "Bearer good", claims: &auth.Claims{UserID: 3}, authenticated: true},
		{name: "no header", authenticated: false},
		{name: "malformed header", authHeader: "Token abc", authenticated: false},
		{name: "expired token", authHeader: "Bearer old", validateErr: auth.ErrExpiredToken, authenticated: false},
		{name: "garbage token", authHeader: "Bearer ???", validateErr: auth.ErrMalformedToken, authenticated: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mw := NewAuthMiddleware(&mocks.MockTokenService{
				ValidateErr: tt.validateErr,
				Claims:      tt.claims,
			})

			var c capture
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.Optional(c.handler()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, "optional routes never reject")
			require.True(t, c.called)
			assert.Equal(t, tt.authenticated, c.identity.IsAuthenticated())
		})
	}
}

func TestAuthMiddleware_Wrap(t *testing.T) {
	validated := false
	tokens := &mocks.MockTokenService{
		ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			validated = true
			return &auth.Claims{UserID: 1}, nil
		},
	}
	mw := NewAuthMiddleware(tokens)

	t.Run("none ignores the header", func(t *testing.T) {
		validated = false
		var c capture
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		req.Header.Set("Authorization", "Bearer good")

		mw.Wrap(PolicyNone, c.handler()).ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, c.called)
		assert.False(t, c.identity.IsAuthenticated())
		assert.False(t, validated)
	})

	t.Run("optional", func(t *testing.T) {
		var c capture
		mw.Wrap(PolicyOptional, c.handler()).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))
		assert.True(t, c.called)
	})

	t.Run("required", func(t *testing.T) {
		var c capture
		rec := httptest.NewRecorder()
		mw.Wrap(PolicyRequired, c.handler()).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/users/me", nil))
		assert.False(t, c.called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "none", PolicyNone.String())
	assert.Equal(t, "optional", PolicyOptional.String())
	assert.Equal(t, "required", PolicyRequired.String())
	assert.Equal(t, "unknown", Policy(42).String())
}

func TestNewAuthMiddlewarePanicsWithoutTokenService(t *testing.T) {
	assert.Panics(t, func() { NewAuthMiddleware(nil) })
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		token   string
		wantErr error
	}{
		{header: "Bearer abc", token: "abc"},
		{header: "BEARER abc", token: "abc"},
		{header: "  Bearer   abc  ", token: "abc"},
		{header: "", wantErr: auth.ErrMissingToken},
		{header: "Bearer", wantErr: errMalformedHeader},
		{header: "Bearer ", wantErr: errMalformedHeader},
		{header: "Bearer a b", wantErr: errMalformedHeader},
		{header: "abc", wantErr: errMalformedHeader},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, err := bearerToken(req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}

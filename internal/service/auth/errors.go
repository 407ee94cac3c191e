package auth

import (
	"errors"
	"fmt"
)

// Common authentication service errors
var (
	// ErrInvalidToken is the parent of every verification failure.
	// Callers that only care whether a token was accepted should test for it with errors.Is.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMalformedToken indicates the token cannot be parsed or its subject is not a user id
	ErrMalformedToken = fmt.Errorf("%w: malformed token", ErrInvalidToken)

	// ErrInvalidSignature indicates the signature does not match or an unexpected algorithm was used
	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrInvalidToken)

	// ErrInvalidIssuer indicates the iss claim does not match the configured issuer
	ErrInvalidIssuer = fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)

	// ErrTokenNotYetValid indicates the token was issued in the future
	ErrTokenNotYetValid = fmt.Errorf("%w: token not yet valid", ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidUserID is returned when asked to issue a token for a non-positive id
	ErrInvalidUserID = errors.New("user id must be positive")
)

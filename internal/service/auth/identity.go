package auth

// Identity is the outcome of an authentication policy: either a verified
// user id or anonymous. The zero value is anonymous.
type Identity struct {
	userID        int64
	authenticated bool
}

// Anonymous returns the identity of a caller with no valid token.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated returns the identity of a caller whose token named userID.
func Authenticated(userID int64) Identity {
	return Identity{userID: userID, authenticated: true}
}

// UserID returns the authenticated user id. ok is false for anonymous callers.
func (i Identity) UserID() (id int64, ok bool) {
	return i.userID, i.authenticated
}

// IsAuthenticated reports whether the caller presented a valid token.
func (i Identity) IsAuthenticated() bool {
	return i.authenticated
}

// Is reports whether the caller is authenticated as userID.
func (i Identity) Is(userID int64) bool {
	return i.authenticated && i.userID == userID
}

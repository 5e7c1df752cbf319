// Package identity carries the authenticated caller through the application.
//
// Handlers resolve the caller once, from the request's session token, and pass the
// resulting value explicitly into every usecase call.
package identity

// Identity is an authenticated caller bound to one session.
type Identity struct {
	UserID    uint
	Username  string
	SessionID string
}

// Anonymous reports whether id carries no authenticated user.
func (id Identity) Anonymous() bool {
	return id.UserID == 0
}

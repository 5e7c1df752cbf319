package entity

import "time"

// Session represents a logged-in browser or API client.
// Its ID is embedded in the signed session token handed to the client.
type Session struct {
	ID        string     // Random session identifier (uuid)
	UserID    uint       // Associated user ID
	UserAgent string     // Client's User-Agent header
	IPAddress string     // Client's IP address
	CreatedAt time.Time  // Session creation time
	ExpiresAt time.Time  // Session expiration time
	RevokedAt *time.Time // Revocation time (nil if active)
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsRevoked returns true if the session has been revoked.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid returns true if the session is neither expired nor revoked.
func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}

// BelongsTo reports whether the session was issued to userID.
func (s *Session) BelongsTo(userID uint) bool {
	return s.UserID == userID
}

// Remaining returns how long the session stays valid, or zero once it expired.
func (s *Session) Remaining() time.Duration {
	if d := time.Until(s.ExpiresAt); d > 0 {
		return d
	}
	return 0
}

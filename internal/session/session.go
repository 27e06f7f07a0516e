package session

import "time"

// CookieName is the name of the session cookie issued on login.
const CookieName = "qisma_session"

// Duration is how long a session stays valid after creation.
const Duration = 7 * 24 * time.Hour

// Session represents an authenticated browser session
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

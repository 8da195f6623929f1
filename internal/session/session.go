package session

import (
	"errors"
	"time"
)

// RefreshThreshold is how close to expiry a session may get before the
// guard asks for a refresh.
const RefreshThreshold = 600 * time.Second

var (
	// ErrNotFound means no session exists for the given id.
	ErrNotFound = errors.New("session not found")
	// ErrRefreshDenied means the session cannot be extended further.
	ErrRefreshDenied = errors.New("session refresh denied")
)

// Session represents an authenticated staff member's validity window.
type Session struct {
	ID           string    `json:"id"`
	Subject      string    `json:"subject"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Deadline     time.Time `json:"deadline"`
	RefreshToken string    `json:"refresh_token"`
}

// ValidAt reports whether the session is still valid at now.
func (s *Session) ValidAt(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}

// NearExpiry reports whether the remaining validity at now is under the
// refresh threshold.
func (s *Session) NearExpiry(now time.Time) bool {
	return s != nil && s.ExpiresAt.Sub(now) < RefreshThreshold
}

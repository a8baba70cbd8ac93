package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one chat thread. Sessions are created on request and never
// mutated or deleted by the client.
type Session struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Label is the short display name used in the session list.
func (s Session) Label() string {
	return "Chat " + s.ID.String()[:8]
}

// AuthSession is what the identity provider hands back on sign-in or token refresh.
type AuthSession struct {
	AccessToken          string
	AccessTokenExpiresIn time.Duration
	RefreshToken         string
	User                 User
}

// Package models defines the client-side data models of the chat client.
// Every entity is owned by an external collaborator; these are transient copies.
package models

import "github.com/google/uuid"

// User is the identity-provider record of the signed-in account.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	DisplayName   string    `json:"displayName,omitempty"`
}

// AuthStatus mirrors the provider's session-resolution signal.
type AuthStatus struct {
	IsLoading       bool
	IsAuthenticated bool
}

// AuthState is the single reactive snapshot of authentication: status and
// user travel together so observers never see one without the other.
type AuthState struct {
	Status AuthStatus
	User   *User
}

// Loading is the state before the stored session has been resolved.
func Loading() AuthState {
	return AuthState{Status: AuthStatus{IsLoading: true}}
}

// SignedOut is the resolved, unauthenticated state.
func SignedOut() AuthState {
	return AuthState{}
}

// SignedIn is the resolved, authenticated state for u.
func SignedIn(u User) AuthState {
	return AuthState{Status: AuthStatus{IsAuthenticated: true}, User: &u}
}

// Email returns the user's email, or "" while the user is absent.
func (s AuthState) Email() string {
	if s.User == nil {
		return ""
	}
	return s.User.Email
}

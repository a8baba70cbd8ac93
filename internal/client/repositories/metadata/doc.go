// Package metadata persists small pieces of session state (the refresh token
// and the identity of the signed-in user) in the local sqlite file so a
// restarted client can hydrate its session without asking for credentials.
package metadata

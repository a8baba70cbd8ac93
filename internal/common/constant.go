// Package common contains shared constants and sentinel errors used across
// nexuschat components.
package common

// AuthorizationHeaderName is the HTTP header (and websocket connection_init
// header) that carries the bearer access token to the data collaborator.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// RefreshTokenKey is the metadata key under which the identity refresh token
// is persisted between runs.
const RefreshTokenKey = "refresh_token"

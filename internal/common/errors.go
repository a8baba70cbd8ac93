// Package common defines shared constants and sentinel errors used across
// client layers of nexuschat. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrNotAuthenticated = errors.New("not authenticated")
)

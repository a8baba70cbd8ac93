package views

import (
	"errors"

	"github.com/dmitrijs2005/nexuschat/internal/client/client"
)

var (
	// ErrBusy is returned when an action is submitted while the same action
	// is still in flight.
	ErrBusy = errors.New("request already in progress")
	// ErrDisabled is returned when an action is invoked while its control is disabled.
	ErrDisabled = errors.New("action is disabled")
)

// AuthError is a failed identity action: bad credentials, duplicate account,
// provider unavailable.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// DataError is a failed session list, create or subscribe.
type DataError struct {
	Message string
	Err     error
}

func (e *DataError) Error() string { return e.Message }
func (e *DataError) Unwrap() error { return e.Err }

// SendError is a failed message insert or bot trigger.
type SendError struct {
	Message string
	Err     error
}

func (e *SendError) Error() string { return e.Message }
func (e *SendError) Unwrap() error { return e.Err }

// describe turns a collaborator error into a single human-readable line.
func describe(err error, fallback string) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "Service is unavailable, please try again later"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, client.ErrUnauthorized):
		return "Your session has expired, please sign in again"
	default:
		return fallback
	}
}

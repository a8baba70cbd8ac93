package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("service unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is the error document returned by the identity provider:
//
//	{"status": 401, "error": "invalid-email-password", "message": "Incorrect email or password"}
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("identity request failed with status %d", e.Status)
}

// Unwrap lets errors.Is match ErrUnauthorized for 401 answers and
// ErrUnavailable for server-side failures.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status >= http.StatusInternalServerError:
		return ErrUnavailable
	default:
		return nil
	}
}

// GraphQLError collects the errors[] entries of a GraphQL response.
type GraphQLError struct {
	Messages []string
	Code     string
}

func (e *GraphQLError) Error() string {
	if len(e.Messages) == 0 {
		return "graphql error"
	}
	return strings.Join(e.Messages, "; ")
}

// Unwrap maps Hasura's invalid-jwt code to ErrUnauthorized.
func (e *GraphQLError) Unwrap() error {
	if e.Code == "invalid-jwt" {
		return ErrUnauthorized
	}
	return nil
}

type gqlErrorDTO struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

func newGraphQLError(errs []gqlErrorDTO) *GraphQLError {
	e := &GraphQLError{}
	for _, x := range errs {
		e.Messages = append(e.Messages, x.Message)
		if e.Code == "" {
			e.Code = x.Extensions.Code
		}
	}
	return e
}

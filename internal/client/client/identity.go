package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/dmitrijs2005/nexuschat/internal/netx"
	"github.com/google/uuid"
)

// IdentityClient is a thin client for the Nhost auth REST API.
type IdentityClient struct {
	baseURL string
	hc      *http.Client
}

// NewIdentityClient returns a client for the auth service at baseURL
// (for example https://local.auth.nhost.run/v1). A nil hc uses http.DefaultClient.
func NewIdentityClient(baseURL string, hc *http.Client) *IdentityClient {
	return &IdentityClient{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userDTO struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	DisplayName   string `json:"displayName"`
}

type sessionDTO struct {
	AccessToken          string   `json:"accessToken"`
	AccessTokenExpiresIn int64    `json:"accessTokenExpiresIn"`
	RefreshToken         string   `json:"refreshToken"`
	User                 *userDTO `json:"user"`
}

type sessionEnvelope struct {
	Session *sessionDTO `json:"session"`
}

// SignIn exchanges email and password for a session.
func (c *IdentityClient) SignIn(ctx context.Context, email, password string) (models.AuthSession, error) {
	var resp sessionEnvelope
	if err := c.post(ctx, "/signin/email-password", credentialsRequest{Email: email, Password: password}, &resp); err != nil {
		return models.AuthSession{}, err
	}
	if resp.Session == nil {
		return models.AuthSession{}, &APIError{Status: http.StatusUnauthorized, Code: "no-session", Message: "Sign in did not return a session"}
	}
	return resp.Session.toModel()
}

// SignUp registers a new account. The returned session is nil when the
// provider requires email verification before the first sign-in.
func (c *IdentityClient) SignUp(ctx context.Context, email, password string) (*models.AuthSession, error) {
	var resp sessionEnvelope
	if err := c.post(ctx, "/signup/email-password", credentialsRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Session == nil {
		return nil, nil
	}
	s, err := resp.Session.toModel()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SendVerificationEmail asks the provider to send (another) verification link.
func (c *IdentityClient) SendVerificationEmail(ctx context.Context, email string) error {
	return c.post(ctx, "/user/email/send-verification-email", emailRequest{Email: email}, nil)
}

// SignOut revokes refreshToken on the provider.
func (c *IdentityClient) SignOut(ctx context.Context, refreshToken string) error {
	return c.post(ctx, "/signout", refreshTokenRequest{RefreshToken: refreshToken}, nil)
}

// RefreshToken exchanges a refresh token for a fresh session. The provider
// rotates the refresh token, so callers must persist the returned one.
func (c *IdentityClient) RefreshToken(ctx context.Context, refreshToken string) (models.AuthSession, error) {
	var resp sessionDTO
	if err := c.post(ctx, "/token", refreshTokenRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return models.AuthSession{}, err
	}
	return resp.toModel()
}

func (c *IdentityClient) post(ctx context.Context, path string, in, out any) error {
	err := netx.PostJSON(ctx, c.hc, c.baseURL+path, nil, in, out)
	if err != nil {
		return mapHTTPError(err)
	}
	return nil
}

// mapHTTPError turns netx failures into this package's error vocabulary.
func mapHTTPError(err error) error {
	if netx.IsTransport(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		return err
	}

	apiErr := &APIError{}
	if json.Unmarshal(se.Body, apiErr) != nil || (apiErr.Code == "" && apiErr.Message == "") {
		apiErr = &APIError{Message: http.StatusText(se.StatusCode)}
	}
	apiErr.Status = se.StatusCode
	return apiErr
}

func (s *sessionDTO) toModel() (models.AuthSession, error) {
	out := models.AuthSession{
		AccessToken:          s.AccessToken,
		AccessTokenExpiresIn: time.Duration(s.AccessTokenExpiresIn) * time.Second,
		RefreshToken:         s.RefreshToken,
	}
	if s.User != nil {
		u, err := s.User.toModel()
		if err != nil {
			return models.AuthSession{}, err
		}
		out.User = u
	}
	return out, nil
}

func (u *userDTO) toModel() (models.User, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid user id %q: %w", u.ID, err)
	}
	return models.User{
		ID:            id,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		DisplayName:   u.DisplayName,
	}, nil
}

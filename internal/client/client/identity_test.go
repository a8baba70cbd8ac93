package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "5b0c7a8e-3f2a-4c1e-9d7b-000000000001"

func sessionJSON(verified bool) map[string]any {
	return map[string]any{
		"accessToken":          "access-1",
		"accessTokenExpiresIn": 900,
		"refreshToken":         "refresh-1",
		"user": map[string]any{
			"id":            testUserID,
			"email":         "alice@example.org",
			"emailVerified": verified,
			"displayName":   "alice",
		},
	}
}

func newAuthServer(t *testing.T, handler func(w http.ResponseWriter, path string, body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		handler(w, r.URL.Path, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestIdentityClient_SignIn_OK(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, path string, body map[string]any) {
		assert.Equal(t, "/v1/signin/email-password", path)
		assert.Equal(t, "alice@example.org", body["email"])
		assert.Equal(t, "pw", body["password"])
		writeJSON(w, http.StatusOK, map[string]any{"session": sessionJSON(true), "mfa": nil})
	})

	c := NewIdentityClient(srv.URL+"/v1/", srv.Client())
	s, err := c.SignIn(context.Background(), "alice@example.org", "pw")
	require.NoError(t, err)

	assert.Equal(t, "access-1", s.AccessToken)
	assert.Equal(t, "refresh-1", s.RefreshToken)
	assert.Equal(t, 900*time.Second, s.AccessTokenExpiresIn)
	assert.Equal(t, testUserID, s.User.ID.String())
	assert.True(t, s.User.EmailVerified)
}

func TestIdentityClient_SignIn_ProviderError(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, path string, body map[string]any) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"status": 401, "error": "invalid-email-password", "message": "Incorrect email or password",
		})
	})

	c := NewIdentityClient(srv.URL, srv.Client())
	_, err := c.SignIn(context.Background(), "alice@example.org", "bad")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid-email-password", apiErr.Code)
	assert.Equal(t, "Incorrect email or password", err.Error())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestIdentityClient_SignIn_NoSession(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, path string, body map[string]any) {
		writeJSON(w, http.StatusOK, map[string]any{"session": nil})
	})

	_, err := NewIdentityClient(srv.URL, nil).SignIn(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestIdentityClient_SignUp(t *testing.T) {
	t.Run("verification required returns nil session", func(t *testing.T) {
		srv := newAuthServer(t, func(w http.ResponseWriter, path string, body map[string]any) {
			assert.Equal(t, "/signup/email-password", path)
			writeJSON(w, http.StatusOK, map[string]any{"session": nil})
		})
		s, err := NewIdentityClient(srv.URL, srv.Client()).SignUp(context.Background(), "a@b.c", "pw")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("session returned", func(t *testing.T) {
		srv := newAuthServer(t, func(w http.ResponseWriter, path string, body map[string]any) {
			writeJSON(w, http.StatusOK, map[string]any{"session": sessionJSON(false)})
		})
		s, err := NewIdentityClient(srv.URL, srv.Client()).SignUp(context.Background(), "a@b.c", "pw")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.False(t, s.User.EmailVerified)
	})

	t.Run("email already in use", func(t *testing.T) {
		srv := newAuthServer(t, func(w http.ResponseWriter, path string, body map[string]any) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"status": 409, "error": "email-already-in-use", "message": "Email already in use",
			})
		})
		_, err := NewIdentityClient(srv.URL, srv.Client()).SignUp(context.Background(), "a@b.c", "pw")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.Status)
		assert.NotErrorIs(t, err, ErrUnauthorized)
		assert.NotErrorIs(t, err, ErrUnavailable)
	})
}

func TestIdentityClient_SendVerificationEmail_And_SignOut(t *testing.T) {
	var paths []string
	srv := newAuthServer(t, func(w http.ResponseWriter, path string, body map[string]any) {
		paths = append(paths, path)
		switch path {
		case "/user/email/send-verification-email":
			assert.Equal(t, "alice@example.org", body["email"])
		case "/signout":
			assert.Equal(t, "refresh-1", body["refreshToken"])
		}
		writeJSON(w, http.StatusOK, "OK")
	})

	c := NewIdentityClient(srv.URL, srv.Client())
	require.NoError(t, c.SendVerificationEmail(context.Background(), "alice@example.org"))
	require.NoError(t, c.SignOut(context.Background(), "refresh-1"))
	assert.Equal(t, []string{"/user/email/send-verification-email", "/signout"}, paths)
}

func TestIdentityClient_RefreshToken(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, path string, body map[string]any) {
		assert.Equal(t, "/token", path)
		assert.Equal(t, "refresh-0", body["refreshToken"])
		writeJSON(w, http.StatusOK, sessionJSON(true))
	})

	s, err := NewIdentityClient(srv.URL, srv.Client()).RefreshToken(context.Background(), "refresh-0")
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", s.RefreshToken)
	assert.Equal(t, "alice@example.org", s.User.Email)
}

func TestIdentityClient_ErrorMapping(t *testing.T) {
	t.Run("server error is unavailable", func(t *testing.T) {
		srv := newAuthServer(t, func(w http.ResponseWriter, path string, body map[string]any) {
			w.WriteHeader(http.StatusBadGateway)
		})
		err := NewIdentityClient(srv.URL, srv.Client()).SendVerificationEmail(context.Background(), "a@b.c")
		require.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, "Bad Gateway", err.Error())
	})

	t.Run("transport error is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := NewIdentityClient(url, nil).SignOut(context.Background(), "x")
		require.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("bad user id", func(t *testing.T) {
		srv := newAuthServer(t, func(w http.ResponseWriter, path string, body map[string]any) {
			s := sessionJSON(true)
			s["user"].(map[string]any)["id"] = "not-a-uuid"
			writeJSON(w, http.StatusOK, s)
		})
		_, err := NewIdentityClient(srv.URL, srv.Client()).RefreshToken(context.Background(), "x")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrUnavailable))
	})
}

package views

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/nexuschat/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledAuthView(id Identity) *AuthView {
	v := NewAuthView(id)
	v.SetEmail("alice@example.org")
	v.SetPassword("secret")
	return v
}

func TestAuthView_RequiresBothFields(t *testing.T) {
	tests := []struct {
		name, email, password string
	}{
		{"both empty", "", ""},
		{"no password", "alice@example.org", ""},
		{"no email", "", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := &fakeIdentity{}
			v := NewAuthView(id)
			v.SetEmail(tt.email)
			v.SetPassword(tt.password)

			var aerr *AuthError
			require.ErrorAs(t, v.SignIn(context.Background()), &aerr)
			require.ErrorAs(t, v.SignUp(context.Background()), &aerr)

			assert.Empty(t, id.Calls())
			assert.NotEmpty(t, v.Error())
			assert.False(t, v.Busy())
		})
	}
}

func TestAuthView_SignIn_Success(t *testing.T) {
	id := &fakeIdentity{}
	v := filledAuthView(id)

	require.NoError(t, v.SignIn(context.Background()))

	assert.Equal(t, []string{"signin:alice@example.org"}, id.Calls())
	assert.Empty(t, v.Error())
	assert.False(t, v.Busy())
	assert.False(t, v.Confirmed())
}

func TestAuthView_SignUp_ConfirmsWithoutSignIn(t *testing.T) {
	id := &fakeIdentity{}
	v := filledAuthView(id)

	require.NoError(t, v.SignUp(context.Background()))

	assert.True(t, v.Confirmed())
	assert.Equal(t, []string{"signup:alice@example.org"}, id.Calls())
}

func TestAuthView_FailureKeepsFormPopulated(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"provider message", &client.APIError{Status: 401, Code: "invalid-email-password", Message: "Incorrect email or password"}, "Incorrect email or password"},
		{"duplicate account", &client.APIError{Status: 409, Code: "email-already-in-use", Message: "Email already in use"}, "Email already in use"},
		{"network failure", client.ErrUnavailable, "Service is unavailable, please try again later"},
		{"unknown", errors.New("boom"), "Sign in failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := &fakeIdentity{SignInErr: tt.err}
			v := filledAuthView(id)

			err := v.SignIn(context.Background())
			var aerr *AuthError
			require.ErrorAs(t, err, &aerr)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.want, aerr.Error())
			assert.Equal(t, tt.want, v.Error())

			s := v.State().Get()
			assert.Equal(t, "alice@example.org", s.Email)
			assert.Equal(t, "secret", s.Password)
			assert.False(t, s.Busy)

			id.SignInErr = nil
			require.NoError(t, v.SignIn(context.Background()), "form is resubmittable")
			assert.Empty(t, v.Error())
		})
	}
}

func TestAuthView_RejectsConcurrentSubmission(t *testing.T) {
	id := &fakeIdentity{block: make(chan struct{}), entered: make(chan string, 4)}
	v := filledAuthView(id)

	errc := make(chan error, 1)
	go func() { errc <- v.SignIn(context.Background()) }()
	<-id.entered

	assert.True(t, v.Busy())
	require.ErrorIs(t, v.SignIn(context.Background()), ErrBusy)
	require.ErrorIs(t, v.SignUp(context.Background()), ErrBusy)

	close(id.block)
	require.NoError(t, <-errc)
	assert.Len(t, id.Calls(), 1)
	assert.False(t, v.Busy())
}

func TestAuthView_NewSubmissionLeavesConfirmation(t *testing.T) {
	id := &fakeIdentity{}
	v := filledAuthView(id)

	require.NoError(t, v.SignUp(context.Background()))
	require.True(t, v.Confirmed())

	require.NoError(t, v.SignIn(context.Background()))
	assert.False(t, v.Confirmed())
}

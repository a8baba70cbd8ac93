package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/dmitrijs2005/nexuschat/internal/client/store"
)

type VerifyViewState struct {
	Sending bool
	// Sent stays true for the lifetime of the view after a successful send.
	Sent  bool
	Error string
}

// VerifyView is shown to a signed-in user whose email is not yet verified.
type VerifyView struct {
	id   Identity
	auth *store.Signal[models.AuthState]

	mu    sync.Mutex
	state *store.Signal[VerifyViewState]
}

func NewVerifyView(id Identity, auth *store.Signal[models.AuthState]) *VerifyView {
	return &VerifyView{id: id, auth: auth, state: store.NewSignal(VerifyViewState{})}
}

func (v *VerifyView) State() *store.Signal[VerifyViewState] { return v.state }

// Email is the pending user's address, or "" while the user is absent.
func (v *VerifyView) Email() string { return v.auth.Get().Email() }

func (v *VerifyView) CanResend() bool {
	s := v.state.Get()
	return !s.Sending && !s.Sent
}

func (v *VerifyView) Error() string { return v.state.Get().Error }

// Resend sends the verification email again. After one success the action
// stays disabled; after a failure it can be retried.
func (v *VerifyView) Resend(ctx context.Context) error {
	v.mu.Lock()
	s := v.state.Get()
	if s.Sending || s.Sent {
		v.mu.Unlock()
		return ErrDisabled
	}
	email := v.Email()
	if email == "" {
		aerr := &AuthError{Message: "No email address is available yet"}
		s.Error = aerr.Message
		v.state.Set(s)
		v.mu.Unlock()
		return aerr
	}
	v.state.Set(VerifyViewState{Sending: true})
	v.mu.Unlock()

	err := v.id.SendVerificationEmail(ctx, email)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		aerr := &AuthError{Message: describe(err, "Could not send the verification email"), Err: err}
		v.state.Set(VerifyViewState{Error: aerr.Message})
		return aerr
	}
	v.state.Set(VerifyViewState{Sent: true})
	return nil
}

// SignOut hands control back to the identity collaborator.
func (v *VerifyView) SignOut(ctx context.Context) error {
	if err := v.id.SignOut(ctx); err != nil {
		aerr := &AuthError{Message: describe(err, "Sign out failed"), Err: err}
		v.state.Update(func(s VerifyViewState) VerifyViewState { s.Error = aerr.Message; return s })
		return aerr
	}
	return nil
}

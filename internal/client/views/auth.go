package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/nexuschat/internal/client/store"
	"github.com/go-playground/validator/v10"
)

// AuthViewState is the credentials form.
type AuthViewState struct {
	Email    string
	Password string
	// Busy is set while a sign-in or sign-up request is in flight.
	Busy bool
	// Confirmed is the "check your email" sub-state after a sign-up.
	Confirmed bool
	Error     string
}

type credentials struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// AuthView collects credentials and submits sign-in or sign-up.
type AuthView struct {
	id       Identity
	validate *validator.Validate

	mu    sync.Mutex
	state *store.Signal[AuthViewState]
}

func NewAuthView(id Identity) *AuthView {
	return &AuthView{
		id:       id,
		validate: validator.New(),
		state:    store.NewSignal(AuthViewState{}),
	}
}

func (v *AuthView) State() *store.Signal[AuthViewState] { return v.state }

func (v *AuthView) Busy() bool      { return v.state.Get().Busy }
func (v *AuthView) Confirmed() bool { return v.state.Get().Confirmed }
func (v *AuthView) Error() string   { return v.state.Get().Error }

func (v *AuthView) SetEmail(email string) {
	v.state.Update(func(s AuthViewState) AuthViewState { s.Email = email; return s })
}

func (v *AuthView) SetPassword(password string) {
	v.state.Update(func(s AuthViewState) AuthViewState { s.Password = password; return s })
}

// SignIn submits the form to the identity provider. On success the shared
// auth signal changes and the Gate moves away from this view.
func (v *AuthView) SignIn(ctx context.Context) error {
	creds, err := v.begin()
	if err != nil {
		return err
	}

	err = v.id.SignIn(ctx, creds.Email, creds.Password)
	return v.finish(err, false, "Sign in failed")
}

// SignUp registers the account and, on success, switches to the
// confirmation sub-state. It never signs in.
func (v *AuthView) SignUp(ctx context.Context) error {
	creds, err := v.begin()
	if err != nil {
		return err
	}

	err = v.id.SignUp(ctx, creds.Email, creds.Password)
	return v.finish(err, true, "Sign up failed")
}

func (v *AuthView) begin() (credentials, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state.Get()
	if s.Busy {
		return credentials{}, ErrBusy
	}

	creds := credentials{Email: s.Email, Password: s.Password}
	if err := v.validate.Struct(creds); err != nil {
		aerr := &AuthError{Message: "Email and password are required", Err: err}
		s.Error = aerr.Message
		v.state.Set(s)
		return credentials{}, aerr
	}

	s.Busy = true
	s.Confirmed = false
	s.Error = ""
	v.state.Set(s)
	return creds, nil
}

func (v *AuthView) finish(err error, signUp bool, fallback string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state.Get()
	s.Busy = false
	if err != nil {
		aerr := &AuthError{Message: describe(err, fallback), Err: err}
		s.Error = aerr.Message
		v.state.Set(s)
		return aerr
	}
	s.Confirmed = signUp
	v.state.Set(s)
	return nil
}

package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/nexuschat/internal/client/views"
	"github.com/dmitrijs2005/nexuschat/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errWrongRoute = errors.New("command not available here")

// readCredentials prompts for email and password and hands them to v.
// The password buffer is wiped before returning.
func (a *App) readCredentials(v *views.AuthView) (string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(password)

	v.SetEmail(email)
	v.SetPassword(string(password))
	return email, nil
}

// SignIn prompts for credentials and signs in. On success the gate moves
// on to the verify or workspace view by itself.
func (a *App) SignIn(ctx context.Context) error {
	v := a.currentAuthView()
	if v == nil {
		printlnFn("You are already signed in")
		return errWrongRoute
	}

	if _, err := a.readCredentials(v); err != nil {
		return err
	}

	if err := v.SignIn(ctx); err != nil {
		printlnFn(renderError(err.Error()))
		return err
	}
	return nil
}

// SignUp prompts for credentials and creates an account. The new account
// must be verified by email before signing in.
func (a *App) SignUp(ctx context.Context) error {
	v := a.currentAuthView()
	if v == nil {
		printlnFn("You are already signed in")
		return errWrongRoute
	}

	email, err := a.readCredentials(v)
	if err != nil {
		return err
	}

	if err := v.SignUp(ctx); err != nil {
		printlnFn(renderError(err.Error()))
		return err
	}

	printlnFn(successStyle.Render("Sign Up Successful! Please check your email (" + email + ") to verify your account, then sign in."))
	return nil
}

// SignOut signs out from whichever signed-in view is active.
func (a *App) SignOut(ctx context.Context) error {
	if ws := a.currentWorkspace(); ws != nil {
		if err := ws.SignOut(ctx); err != nil {
			printlnFn(renderError(err.Error()))
			return err
		}
		return nil
	}

	if v := a.currentVerifyView(); v != nil {
		if err := v.SignOut(ctx); err != nil {
			printlnFn(renderError(err.Error()))
			return err
		}
		return nil
	}

	printlnFn("You are not signed in")
	return errWrongRoute
}

// ResendVerification sends the verification email again. It is allowed
// once per visit to the verify view.
func (a *App) ResendVerification(ctx context.Context) error {
	v := a.currentVerifyView()
	if v == nil {
		printlnFn("Nothing to verify")
		return errWrongRoute
	}

	err := v.Resend(ctx)
	switch {
	case errors.Is(err, views.ErrDisabled):
		printlnFn(dimStyle.Render("Verification email already sent"))
	case err != nil:
		printlnFn(renderError(err.Error()))
	default:
		printlnFn(successStyle.Render("Verification email sent to " + v.Email()))
	}
	return err
}

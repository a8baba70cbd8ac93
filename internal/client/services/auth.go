package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/nexuschat/internal/client/client"
	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/dmitrijs2005/nexuschat/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nexuschat/internal/client/store"
	"github.com/dmitrijs2005/nexuschat/internal/common"
	"github.com/dmitrijs2005/nexuschat/internal/dbx"
	"github.com/dmitrijs2005/nexuschat/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// refreshSkew is how close to expiry an access token may get before it is
// exchanged for a new one.
const refreshSkew = 30 * time.Second

// userIDKey stores the id of the user the persisted refresh token belongs to.
const userIDKey = "user_id"

// IdentityProvider is the identity collaborator as seen by AuthService.
// *client.IdentityClient implements it.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (models.AuthSession, error)
	SignUp(ctx context.Context, email, password string) (*models.AuthSession, error)
	SendVerificationEmail(ctx context.Context, email string) error
	SignOut(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (models.AuthSession, error)
}

// AuthService publishes the authentication state and manages tokens.
//
// The state starts as loading and settles after Restore. Every successful
// sign-in or refresh replaces the state with the user the provider returned,
// so a change in the user's verification flag reaches observers on the next
// refresh.
type AuthService struct {
	idp   IdentityProvider
	db    *sql.DB
	log   logging.Logger
	state *store.Signal[models.AuthState]
	now   func() time.Time

	// refreshMu serialises token exchanges; refresh tokens are single use.
	refreshMu sync.Mutex
	// sessionMu serialises session transitions (install, forget) together
	// with their persistence and the published state. Taken before mu.
	sessionMu sync.Mutex

	mu           sync.Mutex
	accessToken  string
	expiresAt    time.Time
	refreshToken string
	// epoch changes whenever a session is installed or forgotten outside a
	// refresh. A refresh result from an older epoch is discarded.
	epoch uint64
}

// NewAuthService constructs an AuthService bound to the identity provider and
// the local database holding the persisted session.
func NewAuthService(idp IdentityProvider, db *sql.DB, log logging.Logger) *AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &AuthService{
		idp:   idp,
		db:    db,
		log:   log,
		state: store.NewSignal(models.Loading()),
		now:   time.Now,
	}
}

// State is the shared authentication signal (status and user together).
func (a *AuthService) State() *store.Signal[models.AuthState] {
	return a.state
}

func (a *AuthService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

// Restore resolves the loading state from the persisted refresh token.
//
// A missing token, an unreachable provider or any other failure leaves the
// client signed out; only a token the provider rejects is erased. The
// returned error is informational: the state is settled in every case.
func (a *AuthService) Restore(ctx context.Context) error {
	rt, err := a.getMetadataRepo().Get(ctx, common.RefreshTokenKey)
	if errors.Is(err, common.ErrorNotFound) {
		a.state.Set(models.SignedOut())
		return nil
	}
	if err != nil {
		a.state.Set(models.SignedOut())
		return fmt.Errorf("read stored session: %w", err)
	}

	s, err := a.idp.RefreshToken(ctx, rt)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.log.Info(ctx, "stored session rejected, clearing it")
			a.forgetSession(ctx)
			return nil
		}
		a.log.Warn(ctx, "session restore failed", "error", err)
		a.state.Set(models.SignedOut())
		return fmt.Errorf("restore session: %w", err)
	}

	if stored, err := a.getMetadataRepo().Get(ctx, userIDKey); err == nil && stored != s.User.ID.String() {
		a.log.Warn(ctx, "stored session belonged to another user", "stored", stored, "user", s.User.ID)
	}

	a.applySession(ctx, s)
	a.log.Info(ctx, "session restored", "user", s.User.Email)
	return nil
}

// SignIn authenticates with email and password. On success the state becomes
// authenticated with the returned user.
func (a *AuthService) SignIn(ctx context.Context, email, password string) error {
	s, err := a.idp.SignIn(ctx, email, password)
	if err != nil {
		a.log.Debug(ctx, "sign in failed", "email", email, "error", err)
		return fmt.Errorf("sign in: %w", err)
	}
	a.applySession(ctx, s)
	return nil
}

// SignUp registers a new account. Any session the provider hands back is
// ignored: a new account has to verify its email and sign in.
func (a *AuthService) SignUp(ctx context.Context, email, password string) error {
	if _, err := a.idp.SignUp(ctx, email, password); err != nil {
		a.log.Debug(ctx, "sign up failed", "email", email, "error", err)
		return fmt.Errorf("sign up: %w", err)
	}
	return nil
}

// SendVerificationEmail asks the provider to (re)send the verification link.
func (a *AuthService) SendVerificationEmail(ctx context.Context, email string) error {
	if err := a.idp.SendVerificationEmail(ctx, email); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// SignOut forgets the session locally and then revokes it on the provider
// when possible. A token refresh still in flight is discarded. The returned
// error reports local cleanup failures only.
func (a *AuthService) SignOut(ctx context.Context) error {
	rt, err := a.forgetSession(ctx)

	if rt != "" {
		if err := a.idp.SignOut(ctx, rt); err != nil {
			a.log.Warn(ctx, "provider sign out failed", "error", err)
		}
	}

	if err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}
	return nil
}

// AccessToken returns a bearer token valid for at least refreshSkew,
// exchanging the refresh token first when needed.
func (a *AuthService) AccessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	tok, exp, rt := a.accessToken, a.expiresAt, a.refreshToken
	a.mu.Unlock()

	if tok != "" && exp.Sub(a.now()) > refreshSkew {
		return tok, nil
	}
	if rt == "" {
		return "", common.ErrNotAuthenticated
	}
	if err := a.refresh(ctx); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accessToken, nil
}

// StartRefresher launches a background loop that wakes up every interval.
// While the user is signed in it refreshes tokens close to expiry; while the
// user is signed in but unverified it refreshes on every tick so a completed
// verification is noticed. The loop stops when ctx is cancelled.
func (a *AuthService) StartRefresher(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.refreshTick(ctx)
			}
		}
	}()
}

func (a *AuthService) refreshTick(ctx context.Context) {
	st := a.state.Get()
	if st.Status.IsLoading || !st.Status.IsAuthenticated {
		return
	}

	a.mu.Lock()
	due := a.expiresAt.Sub(a.now()) <= refreshSkew
	a.mu.Unlock()

	if !due && st.User != nil && st.User.EmailVerified {
		return
	}
	if err := a.refresh(ctx); err != nil {
		a.log.Warn(ctx, "background token refresh failed", "error", err)
	}
}

func (a *AuthService) refresh(ctx context.Context) error {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	a.mu.Lock()
	rt, epoch := a.refreshToken, a.epoch
	a.mu.Unlock()
	if rt == "" {
		return common.ErrNotAuthenticated
	}

	s, err := a.idp.RefreshToken(ctx, rt)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.dropSession(ctx, &epoch)
		}
		return fmt.Errorf("refresh token: %w", err)
	}

	if !a.installSession(ctx, s, &epoch) {
		a.log.Info(ctx, "session ended during token refresh, discarding the new one")
		if err := a.idp.SignOut(ctx, s.RefreshToken); err != nil {
			a.log.Warn(ctx, "provider sign out failed", "error", err)
		}
		return common.ErrNotAuthenticated
	}
	return nil
}

// applySession installs s as the current session, persists its refresh
// token, and publishes the signed-in state. Persistence failures are logged.
func (a *AuthService) applySession(ctx context.Context, s models.AuthSession) {
	a.installSession(ctx, s, nil)
}

// installSession is applySession for both sign-in and refresh. With a
// non-nil expect it installs s only while the epoch still equals *expect
// and reports whether it did.
func (a *AuthService) installSession(ctx context.Context, s models.AuthSession, expect *uint64) bool {
	exp := tokenExpiry(s.AccessToken)
	if exp.IsZero() {
		exp = a.now().Add(s.AccessTokenExpiresIn)
	}

	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()

	a.mu.Lock()
	if expect != nil && a.epoch != *expect {
		a.mu.Unlock()
		return false
	}
	if expect == nil {
		a.epoch++
	}
	a.accessToken, a.refreshToken, a.expiresAt = s.AccessToken, s.RefreshToken, exp
	a.mu.Unlock()

	err := dbx.WithTx(ctx, a.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.RefreshTokenKey, s.RefreshToken); err != nil {
			return err
		}
		return repo.Set(ctx, userIDKey, s.User.ID.String())
	})
	if err != nil {
		a.log.Error(ctx, "persist session", "error", err)
	}

	a.state.Set(models.SignedIn(s.User))
	return true
}

// forgetSession drops the in-memory tokens and the persisted session and
// publishes the signed-out state. It returns the refresh token it dropped.
func (a *AuthService) forgetSession(ctx context.Context) (string, error) {
	return a.dropSession(ctx, nil)
}

// dropSession is forgetSession guarded like installSession: with a non-nil
// expect it does nothing unless the epoch still equals *expect.
func (a *AuthService) dropSession(ctx context.Context, expect *uint64) (string, error) {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()

	a.mu.Lock()
	if expect != nil && a.epoch != *expect {
		a.mu.Unlock()
		return "", nil
	}
	rt := a.refreshToken
	a.accessToken, a.refreshToken, a.expiresAt = "", "", time.Time{}
	a.epoch++
	a.mu.Unlock()

	err := dbx.WithTx(ctx, a.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.RefreshTokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, userIDKey)
	})
	if err != nil {
		a.log.Error(ctx, "clear stored session", "error", err)
	}

	a.state.Set(models.SignedOut())
	return rt, err
}

// tokenExpiry reads the exp claim of a JWT without verifying its signature.
// A zero time means the claim is absent or the token is not a JWT.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/nexuschat/internal/client/client"
	"github.com/dmitrijs2005/nexuschat/internal/client/config"
	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/dmitrijs2005/nexuschat/internal/client/services"
	"github.com/dmitrijs2005/nexuschat/internal/client/store"
	"github.com/dmitrijs2005/nexuschat/internal/client/views"
	"github.com/dmitrijs2005/nexuschat/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	auth   *services.AuthService

	identity  views.Identity
	chat      views.ChatAPI
	authState *store.Signal[models.AuthState]
	gate      *views.Gate

	reader *bufio.Reader
	out    io.Writer
	width  func() int

	// enterMu serialises route transitions; mu guards the fields below.
	enterMu    sync.Mutex
	mu         sync.Mutex
	route      views.Route
	entered    bool
	authView   *views.AuthView
	verifyView *views.VerifyView
	workspace  *views.Workspace
	unsubs     []func()
}

// NewApp opens the local session store and wires the identity and data
// collaborators into the views.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "err", err)
		return nil, err
	}

	idc := client.NewIdentityClient(c.AuthEndpoint(), nil)
	auth := services.NewAuthService(idc, db, log.With("component", "auth"))

	gql := client.NewGraphQLClient(c.GraphQLEndpoint(), c.GraphQLWSEndpoint(), nil, auth.AccessToken, log.With("component", "graphql"))
	chat := services.NewChatService(gql, log.With("component", "chat"))

	a := newApp(auth, chat, auth.State(), log)
	a.config = c
	a.db = db
	a.auth = auth
	return a, nil
}

func newApp(id views.Identity, chat views.ChatAPI, auth *store.Signal[models.AuthState], log logging.Logger) *App {
	return &App{
		log:       log,
		identity:  id,
		chat:      chat,
		authState: auth,
		gate:      views.NewGate(auth),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		width:     terminalWidth,
	}
}

// Run restores the persisted session, starts the token refresher and runs
// the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn(dimStyle.Render("Restoring session..."))
	if err := a.auth.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "err", err)
	}
	a.auth.StartRefresher(ctx, a.config.RefreshCheckInterval)

	a.Root(ctx)
}

// Close tears down the active view and the local store.
func (a *App) Close() {
	a.mu.Lock()
	ws, unsubs := a.workspace, a.unsubs
	a.workspace, a.unsubs = nil, nil
	a.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	if ws != nil {
		ws.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "error closing database", "err", err)
		}
	}
}

func (a *App) currentRoute() views.Route {
	return a.gate.Route()
}

func (a *App) currentAuthView() *views.AuthView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authView
}

func (a *App) currentVerifyView() *views.VerifyView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.verifyView
}

func (a *App) currentWorkspace() *views.Workspace {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.workspace
}

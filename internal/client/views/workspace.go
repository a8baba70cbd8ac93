package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/dmitrijs2005/nexuschat/internal/client/store"
	"github.com/google/uuid"
)

const (
	errLoadingSessions = "Could not load your chats"
	errCreatingSession = "Could not create a new chat"
)

type WorkspaceState struct {
	// Sessions is newest first, as returned by the collaborator.
	Sessions []models.Session
	Loading  bool
	Creating bool
	// Selected is uuid.Nil when no session is selected.
	Selected uuid.UUID
	Error    string

	Narrow     bool
	DrawerOpen bool
}

// Workspace lists the user's sessions and drives the transcript and the
// composer for the selected one.
type Workspace struct {
	api  ChatAPI
	id   Identity
	auth *store.Signal[models.AuthState]

	Transcript *Transcript
	Composer   *Composer

	mu    sync.Mutex
	state *store.Signal[WorkspaceState]
}

func NewWorkspace(api ChatAPI, id Identity, auth *store.Signal[models.AuthState]) *Workspace {
	return &Workspace{
		api:        api,
		id:         id,
		auth:       auth,
		Transcript: NewTranscript(api),
		Composer:   NewComposer(api),
		state:      store.NewSignal(WorkspaceState{}),
	}
}

func (w *Workspace) State() *store.Signal[WorkspaceState] { return w.state }

func (w *Workspace) Error() string { return w.state.Get().Error }

// Selected returns the selected session id, if any.
func (w *Workspace) Selected() (uuid.UUID, bool) {
	id := w.state.Get().Selected
	return id, id != uuid.Nil
}

// Mount loads the session list.
func (w *Workspace) Mount(ctx context.Context) error {
	return w.Refresh(ctx)
}

// Refresh reloads the session list. A failure keeps the previous list and
// sets the error notice.
func (w *Workspace) Refresh(ctx context.Context) error {
	user := w.auth.Get().User
	if user == nil {
		return w.setError(&DataError{Message: errLoadingSessions})
	}

	w.update(func(s *WorkspaceState) { s.Loading = true; s.Error = "" })

	list, err := w.api.ListSessions(ctx, user.ID)
	if err != nil {
		w.update(func(s *WorkspaceState) { s.Loading = false })
		return w.setError(&DataError{Message: describe(err, errLoadingSessions), Err: err})
	}

	w.update(func(s *WorkspaceState) {
		s.Loading = false
		s.Sessions = list
	})
	return nil
}

// Select makes id the single selected session, attaches its transcript and
// binds the composer to it. On a narrow layout it also closes the drawer.
// Selecting the current session again is a no-op unless its transcript
// feed has failed or ended, in which case it is attached again.
func (w *Workspace) Select(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}

	var same bool
	w.update(func(s *WorkspaceState) {
		same = s.Selected == id
		s.Selected = id
		if s.Narrow {
			s.DrawerOpen = false
		}
	})
	if same {
		if w.Transcript.Live(id) {
			return nil
		}
		// the feed failed or ended: resubscribe, keeping the draft
		return w.Transcript.Attach(ctx, id)
	}

	w.Composer.Bind(id)
	return w.Transcript.Attach(ctx, id)
}

// CreateSession creates a session, selects it and refreshes the list.
func (w *Workspace) CreateSession(ctx context.Context) (models.Session, error) {
	w.mu.Lock()
	if w.state.Get().Creating {
		w.mu.Unlock()
		return models.Session{}, ErrBusy
	}
	s := w.state.Get()
	s.Creating = true
	s.Error = ""
	w.state.Set(s)
	w.mu.Unlock()

	created, err := w.api.CreateSession(ctx)
	w.update(func(s *WorkspaceState) { s.Creating = false })
	if err != nil {
		return models.Session{}, w.setError(&DataError{Message: describe(err, errCreatingSession), Err: err})
	}

	selErr := w.Select(ctx, created.ID)
	if err := w.Refresh(ctx); err != nil && selErr == nil {
		return created, err
	}
	return created, selErr
}

// SignOut detaches the live transcript and signs out.
func (w *Workspace) SignOut(ctx context.Context) error {
	w.Close()
	w.update(func(s *WorkspaceState) { *s = WorkspaceState{Narrow: s.Narrow} })

	if err := w.id.SignOut(ctx); err != nil {
		return w.setError(&AuthError{Message: describe(err, "Sign out failed"), Err: err})
	}
	return nil
}

// Close releases the live subscription.
func (w *Workspace) Close() {
	w.Transcript.Detach()
	w.Composer.Unbind()
}

// SetNarrow switches between the fixed side panel and the overlay drawer.
func (w *Workspace) SetNarrow(narrow bool) {
	w.update(func(s *WorkspaceState) {
		if s.Narrow != narrow {
			s.DrawerOpen = false
		}
		s.Narrow = narrow
	})
}

// ToggleDrawer opens or closes the overlay drawer on a narrow layout.
func (w *Workspace) ToggleDrawer() {
	w.update(func(s *WorkspaceState) {
		if s.Narrow {
			s.DrawerOpen = !s.DrawerOpen
		}
	})
}

func (w *Workspace) DrawerOpen() bool { return w.state.Get().DrawerOpen }

// PanelVisible reports whether the session list is on screen.
func (w *Workspace) PanelVisible() bool {
	s := w.state.Get()
	return !s.Narrow || s.DrawerOpen
}

func (w *Workspace) update(fn func(s *WorkspaceState)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.state.Get()
	fn(&s)
	w.state.Set(s)
}

func (w *Workspace) setError(err error) error {
	msg := err.Error()
	w.update(func(s *WorkspaceState) { s.Error = msg })
	return err
}

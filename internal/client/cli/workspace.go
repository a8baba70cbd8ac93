package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/dmitrijs2005/nexuschat/internal/client/views"
	"github.com/google/uuid"
)

var (
	errNoSelection = errors.New("no chat selected")
	errNoMatch     = errors.New("no matching chat")
)

func (a *App) workspaceOrNotice() (*views.Workspace, error) {
	ws := a.currentWorkspace()
	if ws == nil {
		printlnFn("Sign in to use chats")
		return nil, errWrongRoute
	}
	return ws, nil
}

func printSessions(ws *views.Workspace) {
	st := ws.State().Get()
	printlnFn(renderSessions(st.Sessions, st.Selected))
}

// ListSessions reloads the session list and shows it. On a narrow terminal
// the list lives in the drawer, so the drawer is opened first.
func (a *App) ListSessions(ctx context.Context) error {
	ws, err := a.workspaceOrNotice()
	if err != nil {
		return err
	}

	if err := ws.Refresh(ctx); err != nil {
		printlnFn(renderError(err.Error()))
		return err
	}
	if !ws.PanelVisible() {
		ws.ToggleDrawer()
	}
	printSessions(ws)
	return nil
}

// NewSession creates a chat and opens it.
func (a *App) NewSession(ctx context.Context) error {
	ws, err := a.workspaceOrNotice()
	if err != nil {
		return err
	}

	s, err := ws.CreateSession(ctx)
	switch {
	case errors.Is(err, views.ErrBusy):
		printlnFn(dimStyle.Render("A new chat is already being created"))
		return err
	case err != nil && s.ID == uuid.Nil:
		printlnFn(renderError(err.Error()))
		return err
	case err != nil:
		// created and selected, only the list refresh failed
		printlnFn(renderError(err.Error()))
	}

	printlnFn(successStyle.Render("Started " + s.Label()))
	return nil
}

// OpenSession selects a chat by its 1-based list position or by a unique
// id prefix.
func (a *App) OpenSession(ctx context.Context, arg string) error {
	ws, err := a.workspaceOrNotice()
	if err != nil {
		return err
	}

	s, err := findSession(ws.State().Get().Sessions, arg)
	if err != nil {
		printlnFn(renderError("No chat matches " + strconv.Quote(arg)))
		return err
	}

	if err := ws.Select(ctx, s.ID); err != nil {
		printlnFn(renderError(err.Error()))
		return err
	}
	printlnFn(titleStyle.Render(s.Label()))
	return nil
}

func findSession(list []models.Session, arg string) (models.Session, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(list) {
			return models.Session{}, errNoMatch
		}
		return list[n-1], nil
	}

	var (
		found models.Session
		hits  int
	)
	prefix := strings.ToLower(arg)
	for _, s := range list {
		if strings.HasPrefix(s.ID.String(), prefix) {
			found = s
			hits++
		}
	}
	if hits != 1 {
		return models.Session{}, errNoMatch
	}
	return found, nil
}

// ToggleDrawer opens or closes the chat list on a narrow terminal.
func (a *App) ToggleDrawer() error {
	ws, err := a.workspaceOrNotice()
	if err != nil {
		return err
	}

	if !ws.State().Get().Narrow {
		printlnFn(dimStyle.Render("The chat list is always shown on wide terminals"))
		printSessions(ws)
		return nil
	}

	ws.ToggleDrawer()
	if ws.DrawerOpen() {
		printSessions(ws)
	} else {
		printlnFn(dimStyle.Render("Chat list hidden"))
	}
	return nil
}

// Send submits text to the open chat.
func (a *App) Send(ctx context.Context, text string) error {
	ws, err := a.workspaceOrNotice()
	if err != nil {
		return err
	}
	if _, ok := ws.Selected(); !ok {
		printlnFn(dimStyle.Render(emptyStatePlaceholder))
		return errNoSelection
	}

	ws.Composer.SetDraft(text)
	return a.submit(ctx, ws)
}

// Retry resubmits the draft kept after a failed send.
func (a *App) Retry(ctx context.Context) error {
	ws, err := a.workspaceOrNotice()
	if err != nil {
		return err
	}
	if _, ok := ws.Selected(); !ok {
		printlnFn(dimStyle.Render(emptyStatePlaceholder))
		return errNoSelection
	}
	if strings.TrimSpace(ws.Composer.Draft()) == "" {
		printlnFn(dimStyle.Render("Nothing to retry"))
		return nil
	}
	return a.submit(ctx, ws)
}

func (a *App) submit(ctx context.Context, ws *views.Workspace) error {
	if ws.Composer.Phase() != views.PhaseIdle {
		printlnFn(dimStyle.Render("Please wait for the bot to reply"))
		return views.ErrBusy
	}

	err := ws.Composer.Submit(ctx)
	if err != nil {
		printlnFn(renderError(err.Error()))
		if d := ws.Composer.Draft(); d != "" {
			printlnFn(dimStyle.Render("Draft kept, type /retry to send it again: " + d))
		}
	}
	return err
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/nexuschat/internal/client/views"
)

func (a *App) prompt() string {
	email := a.authState.Get().Email()

	switch a.currentRoute() {
	case views.RouteLoading:
		return "nexuschat (loading) >"
	case views.RouteVerify:
		return fmt.Sprintf("nexuschat (%s, unverified) >", email)
	case views.RouteWorkspace:
		ws := a.currentWorkspace()
		if ws == nil {
			return fmt.Sprintf("nexuschat (%s) >", email)
		}
		status := email
		if id, ok := ws.Selected(); ok {
			status += " · Chat " + id.String()[:8]
		}
		if ws.Composer.BotComposing() {
			status += " · bot is typing"
		}
		return fmt.Sprintf("nexuschat (%s) >", status)
	default:
		return "nexuschat >"
	}
}

// Root prints the banner, follows route changes and runs the REPL on stdin.
func (a *App) Root(ctx context.Context) {
	printlnFn(titleStyle.Render("Welcome to nexuschat") + " (type 'help' for commands)")

	unsubscribe := a.gate.Watch(func(views.Route) {
		go a.enter(ctx)
	})
	defer unsubscribe()

	a.enter(ctx)
	runREPL(ctx, a, a.prompt, bufio.NewScanner(os.Stdin))
}

// enter builds fresh view state for the current route. Stale transitions,
// where the route has moved on or not changed, are skipped.
func (a *App) enter(ctx context.Context) {
	a.enterMu.Lock()
	defer a.enterMu.Unlock()

	r := a.currentRoute()

	a.mu.Lock()
	if a.entered && a.route == r {
		a.mu.Unlock()
		return
	}
	a.entered = true
	a.route = r
	old, unsubs := a.workspace, a.unsubs
	a.workspace, a.unsubs = nil, nil
	a.authView, a.verifyView = nil, nil
	a.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	if old != nil {
		old.Close()
	}

	switch r {
	case views.RouteLoading:
		printlnFn(dimStyle.Render("Restoring session..."))

	case views.RouteAuth:
		v := views.NewAuthView(a.identity)
		a.mu.Lock()
		a.authView = v
		a.mu.Unlock()
		printlnFn("Sign in or create an account. Commands: signin, signup, help, exit")

	case views.RouteVerify:
		v := views.NewVerifyView(a.identity, a.authState)
		a.mu.Lock()
		a.verifyView = v
		a.mu.Unlock()
		printlnFn(fmt.Sprintf("Please verify your email address. We sent a link to %s.", v.Email()))
		printlnFn("Commands: resend, signout, help, exit")

	case views.RouteWorkspace:
		a.enterWorkspace(ctx)
	}
}

func (a *App) enterWorkspace(ctx context.Context) {
	ws := views.NewWorkspace(a.chat, a.identity, a.authState)
	ws.SetNarrow(isNarrow(a.width()))

	unsubs := []func(){
		ws.Transcript.Watch(func(ev views.TranscriptEvent) {
			w := a.width()
			for _, m := range ev.Appended {
				printlnFn(renderMessage(m, w))
			}
		}),
		watchComposing(ws.Composer),
		watchTranscriptErrors(ws.Transcript),
	}

	a.mu.Lock()
	a.workspace = ws
	a.unsubs = unsubs
	a.mu.Unlock()

	printlnFn(titleStyle.Render("Signed in as " + a.authState.Get().Email()))
	if err := ws.Mount(ctx); err != nil {
		printlnFn(renderError(err.Error()))
		return
	}
	if ws.PanelVisible() {
		st := ws.State().Get()
		printlnFn(renderSessions(st.Sessions, st.Selected))
	}
	printlnFn(dimStyle.Render(emptyStatePlaceholder))
}

// watchComposing prints the typing indicator each time the composer starts
// waiting on the bot.
func watchComposing(c *views.Composer) func() {
	last := c.Phase()
	return c.State().Subscribe(func(s views.ComposerState) {
		if s.Phase == views.PhaseBotComposing && last != views.PhaseBotComposing {
			printlnFn(dimStyle.Render("bot is typing..."))
		}
		last = s.Phase
	})
}

// watchTranscriptErrors prints the transcript error notice each time the
// live feed fails.
func watchTranscriptErrors(t *views.Transcript) func() {
	last := t.State().Get().Error
	return t.State().Subscribe(func(s views.TranscriptState) {
		if s.Error != "" && s.Error != last {
			printlnFn(renderError(s.Error))
			printlnFn(dimStyle.Render("Type /open again to reload this chat"))
		}
		last = s.Error
	})
}

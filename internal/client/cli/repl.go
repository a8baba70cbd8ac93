package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/nexuschat/internal/client/views"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	currentRoute() views.Route
	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	ResendVerification(ctx context.Context) error
	SignOut(ctx context.Context) error
	ListSessions(ctx context.Context) error
	NewSession(ctx context.Context) error
	OpenSession(ctx context.Context, arg string) error
	ToggleDrawer() error
	Retry(ctx context.Context) error
	Send(ctx context.Context, text string) error
}

const (
	helpAuth      = "Available commands: signin, signup, exit"
	helpVerify    = "Available commands: resend, signout, exit"
	helpWorkspace = "Available commands: /list, /new, /open <n|id>, /drawer, /retry, /signout, /exit\n" +
		"Anything else is sent to the open chat."
)

// runREPL starts the read–eval–print loop for the nexuschat CLI.
//
// Each line is dispatched according to the route reported by a. The loop
// exits on scanner EOF or when the user types "exit", "quit" or "/exit".
//
// Prompt & Commands
//
//	Loading:
//	  any input        reports that the session is still being restored
//
//	Auth:
//	  - signin         sign in with email and password
//	  - signup         create an account
//
//	Verify:
//	  - resend         send the verification email again (once)
//	  - signout        sign out
//
//	Workspace:
//	  - /list          reload and show the chat list
//	  - /new           start a new chat and open it
//	  - /open <n|id>   open a chat by list number or id prefix
//	  - /drawer        toggle the chat list on narrow terminals
//	  - /retry         resend the draft kept after a failed send
//	  - /signout       sign out
//	  - anything else  sent as a message to the open chat
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors.
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(promptFn())
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "exit", "quit", "/exit", "/quit":
			printlnFn("Bye!")
			return
		}

		switch a.currentRoute() {
		case views.RouteLoading:
			printlnFn("Still restoring your session, please wait...")
		case views.RouteAuth:
			dispatchAuth(ctx, a, line)
		case views.RouteVerify:
			dispatchVerify(ctx, a, line)
		case views.RouteWorkspace:
			dispatchWorkspace(ctx, a, line)
		}
	}
}

func dispatchAuth(ctx context.Context, a execIface, line string) {
	switch cmd := strings.Fields(line)[0]; cmd {
	case "help":
		printlnFn(helpAuth)
	case "signin", "login":
		_ = a.SignIn(ctx)
	case "signup", "register":
		_ = a.SignUp(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}

func dispatchVerify(ctx context.Context, a execIface, line string) {
	switch cmd := strings.Fields(line)[0]; cmd {
	case "help":
		printlnFn(helpVerify)
	case "resend":
		_ = a.ResendVerification(ctx)
	case "signout", "logout":
		_ = a.SignOut(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}

func dispatchWorkspace(ctx context.Context, a execIface, line string) {
	if !strings.HasPrefix(line, "/") {
		_ = a.Send(ctx, line)
		return
	}

	parts := strings.Fields(line)
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "/help":
		printlnFn(helpWorkspace)
	case "/list", "/l":
		_ = a.ListSessions(ctx)
	case "/new":
		_ = a.NewSession(ctx)
	case "/open":
		if len(args) == 0 {
			printlnFn("Usage: /open <n|id>")
			return
		}
		_ = a.OpenSession(ctx, args[0])
	case "/drawer":
		_ = a.ToggleDrawer()
	case "/retry":
		_ = a.Retry(ctx)
	case "/signout", "/logout":
		_ = a.SignOut(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}

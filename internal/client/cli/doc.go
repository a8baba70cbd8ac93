// Package cli provides the interactive nexuschat terminal client.
//
// It wires configuration, the local session store, the identity and data
// collaborators and the view state machines, then runs a REPL whose command
// set follows the route chosen by the session gate:
//
//   - Auth: sign in or sign up with email and password
//   - Verify: resend the verification email or sign out
//   - Workspace: list, create and open chats; any other line is sent as a
//     message to the open chat
//
// Transcript updates and the "bot is typing" indicator are printed as they
// arrive. The REPL is started via App.Run(ctx), which blocks until the user
// exits. See App, runREPL and the render helpers for details.
package cli

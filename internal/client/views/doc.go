// Package views holds the view state machines of the chat client.
//
// Each view owns a store.Signal with its current state and exposes user
// actions as methods; renderers subscribe to the signals and redraw on every
// change. Nothing here renders or logs: failures are surfaced in the view
// state and returned as one of the typed errors AuthError, DataError or
// SendError, whose Error() text is meant to be shown to the user.
//
// Composition:
//
//	Gate ─┬─ AuthView
//	      ├─ VerifyView
//	      └─ Workspace ─┬─ Transcript
//	                    └─ Composer
//
// The Gate never navigates on its own: it derives the route from the shared
// authentication signal every time it is asked or that signal changes.
package views

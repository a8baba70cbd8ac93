// Package services contains the application services of the chat client.
//
// AuthService owns the shared authentication signal: it hydrates the session
// from the refresh token persisted in the local sqlite file, performs
// sign-in/sign-up/sign-out against the identity provider, and keeps the
// access token fresh. ChatService runs the chat GraphQL documents (session
// list, session creation, message insert, bot trigger and the live message
// subscription) on behalf of the views.
package services

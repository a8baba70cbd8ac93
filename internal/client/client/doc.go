// Package client talks to the two remote collaborators of the chat client
// and bootstraps the local sqlite file.
//
// # Overview
//
//  1. IdentityClient speaks the Nhost auth REST API: email/password sign-in
//     and sign-up, verification email, sign-out and refresh-token exchange.
//  2. GraphQLClient speaks Hasura GraphQL: queries and mutations over HTTP
//     (Do) and live queries over the graphql-transport-ws websocket protocol
//     (Subscribe). Every request carries the bearer token from a TokenFunc.
//  3. InitDatabase and RunMigrations open the local sqlite file and apply the
//     embedded goose migrations.
//
// # Error Handling
//
// Failures are mapped so callers can branch with errors.Is:
// ErrUnavailable for transport failures and 5xx answers, ErrUnauthorized for
// 401 answers and rejected tokens. Provider error documents are surfaced as
// *APIError and *GraphQLError, whose Error() text is the provider's
// human-readable message.
//
// Concurrency & Contexts
//
// Both clients are safe for concurrent use. All operations honour context
// cancellation; cancelling a subscription's context completes it on the
// server and closes its channel.
package client

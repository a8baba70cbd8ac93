package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/nexuschat/internal/common"
	"github.com/dmitrijs2005/nexuschat/internal/logging"
	"github.com/dmitrijs2005/nexuschat/internal/netx"
	"github.com/gorilla/websocket"
)

// TokenFunc yields the bearer token for the next request. An empty token
// sends the request anonymously.
type TokenFunc func(ctx context.Context) (string, error)

// GraphQLClient executes GraphQL documents against a Hasura endpoint.
type GraphQLClient struct {
	httpURL string
	wsURL   string
	hc      *http.Client
	dialer  *websocket.Dialer
	token   TokenFunc
	log     logging.Logger
}

// NewGraphQLClient builds a client for httpURL (queries and mutations) and
// wsURL (subscriptions). A nil hc uses http.DefaultClient.
func NewGraphQLClient(httpURL, wsURL string, hc *http.Client, token TokenFunc, log logging.Logger) *GraphQLClient {
	if log == nil {
		log = logging.Nop()
	}
	return &GraphQLClient{
		httpURL: httpURL,
		wsURL:   wsURL,
		hc:      hc,
		dialer:  &websocket.Dialer{Subprotocols: []string{wsSubprotocol}, Proxy: http.ProxyFromEnvironment},
		token:   token,
		log:     log,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlErrorDTO   `json:"errors"`
}

// Do runs a query or mutation and decodes its data object into out.
func (c *GraphQLClient) Do(ctx context.Context, query string, vars map[string]any, out any) error {
	headers, err := c.authHeaders(ctx)
	if err != nil {
		return err
	}

	var resp gqlResponse
	if err := netx.PostJSON(ctx, c.hc, c.httpURL, headers, gqlRequest{Query: query, Variables: vars}, &resp); err != nil {
		return mapGraphQLHTTPError(err)
	}
	if len(resp.Errors) > 0 {
		return newGraphQLError(resp.Errors)
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

func (c *GraphQLClient) authHeaders(ctx context.Context) (http.Header, error) {
	h := http.Header{}
	if c.token == nil {
		return h, nil
	}
	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	if tok != "" {
		h.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}
	return h, nil
}

func mapGraphQLHTTPError(err error) error {
	if netx.IsTransport(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var se *netx.StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrUnauthorized, se.Status)
		case se.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %s", ErrUnavailable, se.Status)
		}
	}
	return err
}

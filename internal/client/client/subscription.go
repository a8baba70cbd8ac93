package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/nexuschat/internal/common"
	"github.com/gorilla/websocket"
)

const wsSubprotocol = "graphql-transport-ws"

// graphql-transport-ws message types.
const (
	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgPing           = "ping"
	msgPong           = "pong"
	msgSubscribe      = "subscribe"
	msgNext           = "next"
	msgError          = "error"
	msgComplete       = "complete"
)

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SubscriptionEvent is one push of a live query: the data object of a "next"
// message, or a terminal error after which the channel is closed.
type SubscriptionEvent struct {
	Data json.RawMessage
	Err  error
}

type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) send(id, typ string, payload any) error {
	msg := wsMessage{ID: id, Type: typ}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		msg.Payload = b
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(msg)
}

// Subscribe starts a live query. Events arrive on the returned channel until
// the server completes the operation, an error occurs, or ctx is cancelled;
// the channel is closed in every case. Cancelling ctx sends "complete" and
// closes the socket.
func (c *GraphQLClient) Subscribe(ctx context.Context, query string, vars map[string]any) (<-chan SubscriptionEvent, error) {
	headers, err := c.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	conn, _, err := c.dialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	ws := &wsConn{conn: conn}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	id, err := c.handshake(ws, headers, query, vars)
	if !stop() || err != nil {
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	c.log.Debug(ctx, "subscription started", "id", id)

	out := make(chan SubscriptionEvent)
	go c.pump(ctx, ws, id, out)
	return out, nil
}

func (c *GraphQLClient) handshake(ws *wsConn, headers map[string][]string, query string, vars map[string]any) (string, error) {
	init := map[string]any{}
	if auth := headers[common.AuthorizationHeaderName]; len(auth) > 0 {
		init["headers"] = map[string]string{common.AuthorizationHeaderName: auth[0]}
	}
	if err := ws.send("", msgConnectionInit, init); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	for {
		var msg wsMessage
		if err := ws.conn.ReadJSON(&msg); err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if msg.Type == msgConnectionAck {
			break
		}
		if msg.Type == msgPing {
			if err := ws.send("", msgPong, nil); err != nil {
				return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
			continue
		}
		return "", fmt.Errorf("%w: unexpected %q before connection_ack", ErrUnauthorized, msg.Type)
	}

	id, err := common.MakeRandHexString(8)
	if err != nil {
		return "", err
	}
	if err := ws.send(id, msgSubscribe, gqlRequest{Query: query, Variables: vars}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return id, nil
}

func (c *GraphQLClient) pump(ctx context.Context, ws *wsConn, id string, out chan<- SubscriptionEvent) {
	defer close(out)

	done := make(chan struct{})
	defer close(done)

	var closeOnce sync.Once
	closeConn := func() { closeOnce.Do(func() { _ = ws.conn.Close() }) }
	defer closeConn()

	go func() {
		select {
		case <-ctx.Done():
			_ = ws.send(id, msgComplete, nil)
			closeConn()
			c.log.Debug(context.WithoutCancel(ctx), "subscription cancelled", "id", id)
		case <-done:
		}
	}()

	emit := func(ev SubscriptionEvent) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		var msg wsMessage
		if err := ws.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil {
				emit(SubscriptionEvent{Err: fmt.Errorf("%w: %v", ErrUnavailable, err)})
			}
			return
		}

		switch msg.Type {
		case msgNext:
			if msg.ID != id {
				continue
			}
			var resp gqlResponse
			if err := json.Unmarshal(msg.Payload, &resp); err != nil {
				emit(SubscriptionEvent{Err: fmt.Errorf("decode subscription payload: %w", err)})
				return
			}
			if len(resp.Errors) > 0 {
				emit(SubscriptionEvent{Err: newGraphQLError(resp.Errors)})
				return
			}
			if !emit(SubscriptionEvent{Data: resp.Data}) {
				return
			}
		case msgError:
			var errs []gqlErrorDTO
			_ = json.Unmarshal(msg.Payload, &errs)
			emit(SubscriptionEvent{Err: newGraphQLError(errs)})
			return
		case msgComplete:
			return
		case msgPing:
			if err := ws.send("", msgPong, nil); err != nil {
				return
			}
		}
	}
}

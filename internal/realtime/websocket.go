package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteWait = 10 * time.Second

// WSTransport is the websocket implementation of Transport. Inbound frames
// are decoded on a single receive goroutine and dispatched to handlers in
// registration order.
type WSTransport struct {
	logger *slog.Logger

	mu       sync.Mutex
	url      string
	conn     *websocket.Conn
	handlers map[string][]func(json.RawMessage)
	closed   bool
}

// NewWSTransport creates a disconnected websocket transport for the given
// base URL (http, https, ws, or wss scheme).
func NewWSTransport(baseURL string, logger *slog.Logger) *WSTransport {
	return &WSTransport{
		url:      baseURL,
		logger:   logger.With("component", "ws"),
		handlers: make(map[string][]func(json.RawMessage)),
	}
}

// On registers a handler for event. Must not be called after Connect.
func (t *WSTransport) On(event string, handler func(json.RawMessage)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[event] = append(t.handlers[event], handler)
}

// Connect performs the websocket handshake and starts the receive loop.
func (t *WSTransport) Connect(ctx context.Context) error {
	wsURL, err := socketEndpoint(t.url)
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: DefaultConnectTimeout}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", wsURL, err)
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		conn.Close()
		return fmt.Errorf("transport closed")
	}
	t.conn = conn
	t.mu.Unlock()

	go t.readLoop(conn)
	return nil
}

// Emit marshals the payload and writes an event frame.
func (t *WSTransport) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	raw, err := json.Marshal(frame{Event: event, Data: data})
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil || t.closed {
		return fmt.Errorf("emit %s: not connected", event)
	}
	t.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return t.conn.WriteMessage(websocket.TextMessage, raw)
}

// Close shuts the connection down. Idempotent; the receive loop exits
// without synthesizing a disconnect event.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (t *WSTransport) readLoop(conn *websocket.Conn) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			t.mu.Lock()
			deliberate := t.closed
			t.mu.Unlock()
			if !deliberate {
				t.logger.Debug("websocket read", "error", err)
				t.dispatch(EventDisconnect, nil)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			t.logger.Debug("malformed frame dropped", "error", err)
			continue
		}
		t.dispatch(f.Event, f.Data)
	}
}

func (t *WSTransport) dispatch(event string, data json.RawMessage) {
	t.mu.Lock()
	handlers := append([]func(json.RawMessage){}, t.handlers[event]...)
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return
	}
	for _, h := range handlers {
		h(data)
	}
}

// socketEndpoint rewrites an API base URL to the websocket endpoint.
func socketEndpoint(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse socket url %q: %w", base, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported socket scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/socket"
	return u.String(), nil
}

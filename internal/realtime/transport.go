// Package realtime maintains the student's live connection to the backend:
// a duplex transport carrying announcement events, opened exactly when the
// session is an authenticated student and torn down in the same session
// transition that ends it.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Event names on the wire. The payload of each is a JSON object.
const (
	// EventStudentAuth identifies the student to the backend right after
	// the transport connects.
	EventStudentAuth = "student_auth"
	// EventNewAnnouncement carries a broadcast announcement.
	EventNewAnnouncement = "new_announcement"
	// EventDisconnect is synthesized locally when the transport drops.
	EventDisconnect = "disconnect"
)

// DefaultConnectTimeout bounds the whole connection attempt, including the
// websocket handshake and the polling fallback.
const DefaultConnectTimeout = 20 * time.Second

// Transport is a duplex event connection. Handlers registered with On run
// on the transport's receive goroutine; Close is idempotent and stops
// delivery.
type Transport interface {
	// Connect establishes the connection. Handlers should be registered
	// before Connect so no early event is lost.
	Connect(ctx context.Context) error
	// On registers a handler for a named event.
	On(event string, handler func(data json.RawMessage))
	// Emit sends a named event with a JSON-encodable payload.
	Emit(event string, payload any) error
	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// frame is the wire format shared by both transports.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Dial connects to socketURL, registering handlers via setup before the
// connection is established so no early frame is lost. The websocket
// transport is preferred; on upgrade failure it falls back to long polling
// over plain HTTP.
func Dial(ctx context.Context, socketURL string, logger *slog.Logger, setup func(Transport)) (Transport, error) {
	ws := NewWSTransport(socketURL, logger)
	setup(ws)
	err := ws.Connect(ctx)
	if err == nil {
		return ws, nil
	}
	logger.Debug("websocket connect failed, falling back to polling", "error", err)

	poll := NewPollTransport(socketURL, logger)
	setup(poll)
	if perr := poll.Connect(ctx); perr != nil {
		return nil, perr
	}
	return poll, nil
}

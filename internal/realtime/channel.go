package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/edupi-school/edupi-client/internal/history"
	"github.com/edupi-school/edupi-client/internal/notify"
	"github.com/edupi-school/edupi-client/internal/session"
	"github.com/edupi-school/edupi-client/pkg/model"
)

// DialFunc opens a transport with handlers pre-registered. Production code
// uses Dial; tests inject a fake.
type DialFunc func(ctx context.Context, setup func(Transport)) (Transport, error)

// studentAuth is the payload announced to the backend on connect.
type studentAuth struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
}

// Channel couples the realtime transport to the session: it is open exactly
// while the session is an authenticated student. Admin and anonymous
// sessions never hold a connection. The channel subscribes to session
// transitions, so a logout tears the transport down synchronously, in the
// same transition that cleared the credentials.
type Channel struct {
	sessions *session.Store
	store    *history.Store
	popup    *notify.Popup
	notifier notify.Notifier
	dial     DialFunc
	logger   *slog.Logger

	// mu guards transport and gen. Event handlers take it briefly and never
	// call back into the session store.
	mu        sync.Mutex
	transport Transport
	gen       int
}

// NewChannel creates the channel and binds it to the session store.
// Notification permission is requested here — once per channel lifetime,
// never per event — when it has not been resolved before.
//
// The history store may be nil; delivered announcements are then not
// recorded.
func NewChannel(sessions *session.Store, store *history.Store, popup *notify.Popup, notifier notify.Notifier, dial DialFunc, logger *slog.Logger) *Channel {
	c := &Channel{
		sessions: sessions,
		store:    store,
		popup:    popup,
		notifier: notifier,
		dial:     dial,
		logger:   logger.With("component", "channel"),
	}

	if notifier.Permission() == notify.PermissionDefault {
		notifier.Request()
	}

	// Subscribers run synchronously on the session's mutating goroutine, so
	// open and close happen inside the transition itself.
	sessions.Subscribe(c.onSession)
	return c
}

// Connected reports whether a transport is currently open.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transport != nil
}

// Close tears down any open transport. Called when the process shuts down;
// session-driven teardown happens through the subscription.
func (c *Channel) Close() {
	c.closeTransport()
}

func (c *Channel) onSession(snap session.Snapshot) {
	if snap.Loading {
		return
	}
	switch {
	case snap.IsStudent() && !c.Connected():
		c.open(snap.Actor)
	case !snap.IsStudent() && c.Connected():
		c.closeTransport()
	}
}

func (c *Channel) open(actor *model.Actor) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultConnectTimeout)
	defer cancel()

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	transport, err := c.dial(ctx, func(t Transport) {
		t.On(EventNewAnnouncement, func(data json.RawMessage) { c.onAnnouncement(gen, data) })
		t.On(EventDisconnect, func(json.RawMessage) { c.onDisconnect(gen) })
	})
	if err != nil {
		// No retry: the next session transition gets a fresh attempt.
		c.logger.Warn("realtime connect failed", "error", err)
		return
	}

	c.mu.Lock()
	c.transport = transport
	c.mu.Unlock()

	auth := studentAuth{StudentID: actor.ID(), StudentName: actor.DisplayName()}
	if err := transport.Emit(EventStudentAuth, auth); err != nil {
		c.logger.Warn("student auth emit failed", "error", err)
	}
	c.logger.Info("realtime channel open", "student_id", auth.StudentID)
}

func (c *Channel) closeTransport() {
	c.mu.Lock()
	transport := c.transport
	if transport != nil {
		// Bump the generation first so an event already in flight on the
		// receive goroutine is dropped.
		c.gen++
		c.transport = nil
	}
	c.mu.Unlock()

	if transport == nil {
		return
	}
	if err := transport.Close(); err != nil {
		c.logger.Debug("transport close", "error", err)
	}
	c.logger.Info("realtime channel closed")
}

// onAnnouncement handles a broadcast announcement: record it, replace
// whatever the popup is showing, and alert the OS if we are allowed to.
func (c *Channel) onAnnouncement(gen int, data json.RawMessage) {
	c.mu.Lock()
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		return
	}

	var ev model.NotificationEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		c.logger.Debug("malformed announcement dropped", "error", err)
		return
	}
	c.logger.Info("announcement received", "id", ev.ID, "priority", ev.Priority)

	if c.store != nil {
		if err := c.store.Save(context.Background(), &ev); err != nil {
			// Recording is best effort; presentation still happens.
			c.logger.Warn("record announcement", "error", err)
		}
	}

	// A new announcement replaces the current popup, it never queues.
	c.popup.Show(&ev)

	if c.notifier.Permission() == notify.PermissionGranted {
		if err := c.notifier.Notify(ev.Title, ev.Content); err != nil {
			c.logger.Debug("desktop notification", "error", err)
		}
	}
	c.notifier.Sound()
}

// onDisconnect handles a transport-level drop: the dead transport is
// released so Connected() reports false and the next student-session
// update can dial again.
func (c *Channel) onDisconnect(gen int) {
	c.mu.Lock()
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		return
	}
	c.logger.Warn("realtime transport dropped")
	c.closeTransport()
}

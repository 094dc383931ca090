package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/edupi-school/edupi-client/internal/history"
	"github.com/edupi-school/edupi-client/internal/notify"
	"github.com/edupi-school/edupi-client/internal/session"
	"github.com/edupi-school/edupi-client/pkg/model"
)

type fakeTransport struct {
	mu       sync.Mutex
	handlers map[string][]func(json.RawMessage)
	emitted  []frame
	closed   bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: make(map[string][]func(json.RawMessage))}
}

func (f *fakeTransport) Connect(context.Context) error { return nil }

func (f *fakeTransport) On(event string, handler func(json.RawMessage)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[event] = append(f.handlers[event], handler)
}

func (f *fakeTransport) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emitted = append(f.emitted, frame{Event: event, Data: data})
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// deliver simulates an inbound frame from the server.
func (f *fakeTransport) deliver(event string, payload any) {
	data, _ := json.Marshal(payload)
	f.mu.Lock()
	handlers := append([]func(json.RawMessage){}, f.handlers[event]...)
	f.mu.Unlock()
	for _, h := range handlers {
		h(data)
	}
}

type fakeNotifier struct {
	mu         sync.Mutex
	permission notify.Permission
	requests   int
	notified   []string
	sounds     int
	notifyErr  error
}

func (n *fakeNotifier) Permission() notify.Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

func (n *fakeNotifier) Request() notify.Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requests++
	n.permission = notify.PermissionGranted
	return n.permission
}

func (n *fakeNotifier) Notify(title, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, title)
	return n.notifyErr
}

func (n *fakeNotifier) Sound() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sounds++
}

type noVerify struct{}

func (noVerify) AdminVerify(context.Context, string) (*model.Actor, error) {
	return nil, errors.New("unexpected admin verify")
}

type harness struct {
	sessions *session.Store
	channel  *Channel
	popup    *notify.Popup
	notifier *fakeNotifier
	store    *history.Store

	mu        sync.Mutex
	dials     int
	dialErr   error
	transport *fakeTransport
}

func (h *harness) dial(_ context.Context, setup func(Transport)) (Transport, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dials++
	if h.dialErr != nil {
		return nil, h.dialErr
	}
	h.transport = newFakeTransport()
	setup(h.transport)
	return h.transport, nil
}

func (h *harness) dialCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dials
}

func (h *harness) currentTransport() *fakeTransport {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.transport
}

func setupChannel(t *testing.T) *harness {
	t.Helper()

	st, err := history.Open(":memory:", slog.Default())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate history: %v", err)
	}

	h := &harness{
		sessions: session.NewStore(session.NewKeystore(t.TempDir()), noVerify{}, slog.Default()),
		popup:    notify.NewPopup(io.Discard, slog.Default()),
		notifier: &fakeNotifier{permission: notify.PermissionDefault},
		store:    st,
	}
	t.Cleanup(h.popup.Stop)

	h.channel = NewChannel(h.sessions, st, h.popup, h.notifier, h.dial, slog.Default())
	return h
}

func student() *model.Actor {
	return &model.Actor{MongoID: "s-1", StudentName: "Amina Yusuf", Email: "amina@example.com"}
}

func TestChannel_OpensOnStudentLogin(t *testing.T) {
	h := setupChannel(t)

	h.sessions.Login(student(), model.KindStudent)

	if !h.channel.Connected() {
		t.Fatal("expected channel open after student login")
	}

	tr := h.currentTransport()
	if len(tr.emitted) != 1 || tr.emitted[0].Event != EventStudentAuth {
		t.Fatalf("expected a single student_auth emit, got %+v", tr.emitted)
	}

	var auth studentAuth
	if err := json.Unmarshal(tr.emitted[0].Data, &auth); err != nil {
		t.Fatalf("decode student_auth payload: %v", err)
	}
	if auth.StudentID != "s-1" {
		t.Errorf("expected studentId s-1, got %q", auth.StudentID)
	}
	if auth.StudentName != "Amina Yusuf" {
		t.Errorf("expected studentName from snapshot, got %q", auth.StudentName)
	}
}

func TestChannel_StaysClosedForAdmin(t *testing.T) {
	h := setupChannel(t)

	h.sessions.Login(&model.Actor{PlainID: "a-1", Username: "root"}, model.KindAdmin)

	if h.channel.Connected() {
		t.Error("expected no channel for admin session")
	}
	if h.dialCount() != 0 {
		t.Errorf("expected no dial for admin session, got %d", h.dialCount())
	}
}

func TestChannel_LogoutTearsDownSynchronously(t *testing.T) {
	h := setupChannel(t)

	h.sessions.Login(student(), model.KindStudent)
	tr := h.currentTransport()

	// Logout returns only after the subscriber chain has run, so the
	// transport must already be closed here.
	h.sessions.Logout()

	if h.channel.Connected() {
		t.Error("expected channel closed after logout")
	}
	if !tr.isClosed() {
		t.Error("expected transport closed during the logout transition")
	}
}

func TestChannel_ReopensOnNextLogin(t *testing.T) {
	h := setupChannel(t)

	h.sessions.Login(student(), model.KindStudent)
	h.sessions.Logout()
	h.sessions.Login(student(), model.KindStudent)

	if !h.channel.Connected() {
		t.Fatal("expected channel open after re-login")
	}
	if h.dialCount() != 2 {
		t.Errorf("expected a fresh dial per login, got %d", h.dialCount())
	}
}

func TestChannel_DialFailureLeavesChannelClosed(t *testing.T) {
	h := setupChannel(t)
	h.dialErr = errors.New("handshake timeout")

	h.sessions.Login(student(), model.KindStudent)

	if h.channel.Connected() {
		t.Error("expected channel closed after failed dial")
	}
	// Logout with no transport must not panic.
	h.sessions.Logout()
}

func TestChannel_AnnouncementShowsPopupAndRecords(t *testing.T) {
	h := setupChannel(t)
	h.sessions.Login(student(), model.KindStudent)

	h.currentTransport().deliver(EventNewAnnouncement, map[string]any{
		"id":        "n-1",
		"title":     "Exam moved",
		"content":   "The algebra exam is now on Friday.",
		"type":      "academic",
		"priority":  "high",
		"createdBy": "Ms. Okoye",
		"timestamp": time.Now().Format(time.RFC3339),
	})

	if h.popup.State() != notify.StateVisible {
		t.Fatalf("expected popup visible, got %v", h.popup.State())
	}
	if cur := h.popup.Current(); cur == nil || cur.ID != "n-1" {
		t.Fatalf("expected announcement n-1 showing, got %+v", cur)
	}

	entries, err := h.store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 1 || entries[0].Event.ID != "n-1" {
		t.Errorf("expected announcement recorded, got %+v", entries)
	}
}

func TestChannel_SecondAnnouncementReplacesFirst(t *testing.T) {
	h := setupChannel(t)
	h.sessions.Login(student(), model.KindStudent)
	tr := h.currentTransport()

	tr.deliver(EventNewAnnouncement, map[string]any{"id": "n-1", "title": "First"})
	tr.deliver(EventNewAnnouncement, map[string]any{"id": "n-2", "title": "Second"})

	if cur := h.popup.Current(); cur == nil || cur.ID != "n-2" {
		t.Errorf("expected newest announcement to replace the first, got %+v", cur)
	}
}

func TestChannel_PermissionRequestedOnceAtCreation(t *testing.T) {
	h := setupChannel(t)

	if h.notifier.requests != 1 {
		t.Fatalf("expected one permission request at channel creation, got %d", h.notifier.requests)
	}

	h.sessions.Login(student(), model.KindStudent)
	tr := h.currentTransport()
	tr.deliver(EventNewAnnouncement, map[string]any{"id": "n-1", "title": "A"})
	tr.deliver(EventNewAnnouncement, map[string]any{"id": "n-2", "title": "B"})

	if h.notifier.requests != 1 {
		t.Errorf("expected no per-event permission requests, got %d", h.notifier.requests)
	}
}

func TestChannel_NoDesktopNotificationWithoutGrant(t *testing.T) {
	st, err := history.Open(":memory:", slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}

	h := &harness{
		sessions: session.NewStore(session.NewKeystore(t.TempDir()), noVerify{}, slog.Default()),
		popup:    notify.NewPopup(io.Discard, slog.Default()),
		notifier: &fakeNotifier{permission: notify.PermissionDenied},
		store:    st,
	}
	t.Cleanup(h.popup.Stop)
	h.channel = NewChannel(h.sessions, st, h.popup, h.notifier, h.dial, slog.Default())

	// Denied is already resolved: creation must not re-request.
	if h.notifier.requests != 0 {
		t.Fatalf("expected no request for resolved permission, got %d", h.notifier.requests)
	}

	h.sessions.Login(student(), model.KindStudent)
	h.currentTransport().deliver(EventNewAnnouncement, map[string]any{"id": "n-1", "title": "A"})

	if len(h.notifier.notified) != 0 {
		t.Errorf("expected no desktop notification without grant, got %v", h.notifier.notified)
	}
	// The popup and sound still fire regardless of desktop permission.
	if h.popup.Current() == nil {
		t.Error("expected popup despite denied desktop permission")
	}
	if h.notifier.sounds != 1 {
		t.Errorf("expected sound despite denied desktop permission, got %d", h.notifier.sounds)
	}
}

func TestChannel_DesktopNotifyErrorIsSwallowed(t *testing.T) {
	h := setupChannel(t)
	h.notifier.notifyErr = errors.New("no notification daemon")

	h.sessions.Login(student(), model.KindStudent)
	h.currentTransport().deliver(EventNewAnnouncement, map[string]any{"id": "n-1", "title": "A"})

	if h.popup.Current() == nil {
		t.Error("expected popup despite desktop notification failure")
	}
}

func TestChannel_EventAfterLogoutIsDropped(t *testing.T) {
	h := setupChannel(t)

	h.sessions.Login(student(), model.KindStudent)
	tr := h.currentTransport()
	h.sessions.Logout()

	// A frame racing the teardown lands on the old generation.
	tr.deliver(EventNewAnnouncement, map[string]any{"id": "n-1", "title": "Stale"})

	if h.popup.Current() != nil {
		t.Errorf("expected stale announcement dropped, got %+v", h.popup.Current())
	}
}

func TestChannel_TransportDropMarksDisconnected(t *testing.T) {
	h := setupChannel(t)

	h.sessions.Login(student(), model.KindStudent)
	tr := h.currentTransport()

	tr.deliver(EventDisconnect, nil)

	if h.channel.Connected() {
		t.Fatal("expected channel disconnected after transport drop")
	}
	if !tr.isClosed() {
		t.Error("expected dropped transport released")
	}

	// The dead link must not block a later reconnect.
	h.sessions.Login(student(), model.KindStudent)
	if !h.channel.Connected() {
		t.Error("expected channel to reopen on the next student session update")
	}
	if h.dialCount() != 2 {
		t.Errorf("expected a fresh dial after the drop, got %d", h.dialCount())
	}
}

func TestChannel_AnnouncementAfterDropIsIgnored(t *testing.T) {
	h := setupChannel(t)

	h.sessions.Login(student(), model.KindStudent)
	tr := h.currentTransport()
	tr.deliver(EventDisconnect, nil)

	tr.deliver(EventNewAnnouncement, map[string]any{"id": "n-1", "title": "Stale"})

	if h.popup.Current() != nil {
		t.Errorf("expected announcement from dead transport dropped, got %+v", h.popup.Current())
	}
}

func TestChannel_MalformedAnnouncementIgnored(t *testing.T) {
	h := setupChannel(t)
	h.sessions.Login(student(), model.KindStudent)

	tr := h.currentTransport()
	tr.mu.Lock()
	handlers := append([]func(json.RawMessage){}, tr.handlers[EventNewAnnouncement]...)
	tr.mu.Unlock()
	for _, handler := range handlers {
		handler(json.RawMessage(`{"id": truncated`))
	}

	if h.popup.Current() != nil {
		t.Errorf("expected malformed event dropped, got %+v", h.popup.Current())
	}
}

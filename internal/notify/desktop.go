package notify

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/beeep"
)

// Permission mirrors the browser notification permission model: the state
// starts undetermined and is requested at most once, when the realtime
// channel is first created.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notifier delivers OS-level notifications for announcements. All failures
// are non-fatal: a notifier may silently do nothing.
type Notifier interface {
	// Permission returns the current permission state.
	Permission() Permission
	// Request resolves an undetermined permission state. Called once per
	// channel lifetime, never per event.
	Request() Permission
	// Notify shows an OS notification. Only called when permission is granted.
	Notify(title, body string) error
	// Sound plays the announcement sound. Failures are swallowed.
	Sound()
}

const permissionFileName = "notify_permission"

// DesktopNotifier implements Notifier with system notifications via beeep.
// The resolved permission state persists in the data dir so the user is
// only asked once across runs.
type DesktopNotifier struct {
	statePath string
	enabled   bool
	sound     bool
	logger    *slog.Logger
}

// NewDesktopNotifier creates a notifier rooted at dataDir. enabled and
// sound come from configuration.
func NewDesktopNotifier(dataDir string, enabled, sound bool, logger *slog.Logger) *DesktopNotifier {
	return &DesktopNotifier{
		statePath: filepath.Join(dataDir, permissionFileName),
		enabled:   enabled,
		sound:     sound,
		logger:    logger.With("component", "notifier"),
	}
}

// Permission returns the persisted state, or PermissionDefault when it has
// never been resolved.
func (n *DesktopNotifier) Permission() Permission {
	data, err := os.ReadFile(n.statePath)
	if err != nil {
		return PermissionDefault
	}
	switch Permission(strings.TrimSpace(string(data))) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	}
	return PermissionDefault
}

// Request resolves the permission from configuration and persists it.
func (n *DesktopNotifier) Request() Permission {
	p := PermissionDenied
	if n.enabled {
		p = PermissionGranted
	}
	if err := os.WriteFile(n.statePath, []byte(p), 0600); err != nil {
		n.logger.Debug("persist notification permission", "error", err)
	}
	return p
}

// Notify shows a desktop notification.
func (n *DesktopNotifier) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Sound plays the announcement beep. Errors are expected on headless
// systems and ignored.
func (n *DesktopNotifier) Sound() {
	if !n.sound {
		return
	}
	if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
		n.logger.Debug("notification sound", "error", err)
	}
}

// NoopNotifier is a Notifier that never notifies. Used when desktop
// notifications are disabled entirely.
type NoopNotifier struct{}

func (NoopNotifier) Permission() Permission   { return PermissionDenied }
func (NoopNotifier) Request() Permission      { return PermissionDenied }
func (NoopNotifier) Notify(_, _ string) error { return nil }
func (NoopNotifier) Sound()                   {}

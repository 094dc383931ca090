// Package notify renders announcement popups and owns their display
// lifecycle: one notification at a time, a 10-second auto-dismiss
// countdown, and a short exit transition before the slot is cleared.
package notify

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/edupi-school/edupi-client/pkg/model"
)

// State is the popup display state.
type State int

const (
	StateHidden State = iota
	StateVisible
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateVisible:
		return "visible"
	case StateClosing:
		return "closing"
	}
	return "hidden"
}

const (
	// DefaultDisplayDuration is how long a popup stays up with no interaction.
	DefaultDisplayDuration = 10 * time.Second
	// DefaultExitDelay is the exit-transition time between Closing and Hidden.
	DefaultExitDelay = 300 * time.Millisecond
)

// Popup presents at most one notification at a time. A new event replaces
// an undismissed older one; the old countdown is cancelled so it can never
// fire against the new content. All timer callbacks are generation-guarded,
// so a callback scheduled before Stop or pre-emption is a no-op.
type Popup struct {
	// DisplayDuration and ExitDelay default to the production values;
	// tests shrink them to run at millisecond scale.
	DisplayDuration time.Duration
	ExitDelay       time.Duration

	// Navigate is invoked with the event's action URL on Act.
	Navigate func(url string)

	out    io.Writer
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	current *model.NotificationEvent
	timer   *time.Timer
	gen     int
	stopped bool
}

// NewPopup creates a hidden popup writing rendered panels to out.
func NewPopup(out io.Writer, logger *slog.Logger) *Popup {
	return &Popup{
		DisplayDuration: DefaultDisplayDuration,
		ExitDelay:       DefaultExitDelay,
		out:             out,
		logger:          logger.With("component", "popup"),
	}
}

// State returns the current display state.
func (p *Popup) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Current returns the notification occupying the slot, or nil.
func (p *Popup) Current() *model.NotificationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Show displays a notification, replacing any current one. The previous
// auto-dismiss countdown is cancelled; a fresh one starts for the new event.
func (p *Popup) Show(ev *model.NotificationEvent) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}

	p.cancelTimerLocked()
	p.gen++
	gen := p.gen
	p.current = ev
	p.state = StateVisible
	p.timer = time.AfterFunc(p.DisplayDuration, func() { p.autoDismiss(gen) })
	p.mu.Unlock()

	if p.out != nil {
		if _, err := io.WriteString(p.out, Render(ev)); err != nil {
			p.logger.Debug("render popup", "error", err)
		}
	}
}

// Dismiss moves a visible popup into Closing, then clears the slot after
// the exit delay. Calling it in any other state is a no-op.
func (p *Popup) Dismiss() {
	p.mu.Lock()
	if p.state != StateVisible {
		p.mu.Unlock()
		return
	}

	p.cancelTimerLocked()
	p.gen++
	gen := p.gen
	p.state = StateClosing
	p.timer = time.AfterFunc(p.ExitDelay, func() { p.finishClose(gen) })
	p.mu.Unlock()
}

// Act performs the notification's action: navigate to its action URL when
// present, and always dismiss. Action and dismissal are coupled.
func (p *Popup) Act() {
	p.mu.Lock()
	var url string
	if p.current != nil {
		url = p.current.ActionURL
	}
	navigate := p.Navigate
	p.mu.Unlock()

	if url != "" && navigate != nil {
		navigate(url)
	}
	p.Dismiss()
}

// Stop cancels any pending timer and clears the slot. Show after Stop is
// a no-op; timer callbacks scheduled before Stop are dropped.
func (p *Popup) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelTimerLocked()
	p.gen++
	p.stopped = true
	p.state = StateHidden
	p.current = nil
}

// autoDismiss is the countdown callback. The generation check makes a
// countdown started for an older notification harmless after pre-emption.
func (p *Popup) autoDismiss(gen int) {
	p.mu.Lock()
	stale := p.stopped || gen != p.gen || p.state != StateVisible
	p.mu.Unlock()
	if stale {
		return
	}
	p.Dismiss()
}

func (p *Popup) finishClose(gen int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || gen != p.gen || p.state != StateClosing {
		return
	}
	p.state = StateHidden
	p.current = nil
	p.timer = nil
}

func (p *Popup) cancelTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

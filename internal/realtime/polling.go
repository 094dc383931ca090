package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// pollWait is how long the server may hold a poll open before
	// answering with an empty batch.
	pollWait = 25 * time.Second
	// pollRetryDelay spaces out retries after a failed poll.
	pollRetryDelay = 2 * time.Second
)

// PollTransport is the long-polling fallback used when the websocket
// upgrade fails. Each client is identified by a generated ID; the server
// parks announcements per client and releases them on the next poll.
type PollTransport struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
	logger     *slog.Logger

	mu       sync.Mutex
	handlers map[string][]func(json.RawMessage)
	closed   bool
	cancel   context.CancelFunc
}

// NewPollTransport creates a disconnected polling transport.
func NewPollTransport(baseURL string, logger *slog.Logger) *PollTransport {
	clientID := uuid.NewString()
	return &PollTransport{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		clientID: clientID,
		httpClient: &http.Client{
			// Must outlast a full held-open poll.
			Timeout: pollWait + 10*time.Second,
		},
		logger:   logger.With("component", "poll", "client_id", clientID),
		handlers: make(map[string][]func(json.RawMessage)),
	}
}

// On registers a handler for event. Must not be called after Connect.
func (t *PollTransport) On(event string, handler func(json.RawMessage)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[event] = append(t.handlers[event], handler)
}

// Connect registers the client with the server and starts the poll loop.
func (t *PollTransport) Connect(ctx context.Context) error {
	if err := t.post(ctx, "/socket/poll/register", map[string]string{"clientId": t.clientID}); err != nil {
		return fmt.Errorf("register poll client: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		cancel()
		return fmt.Errorf("transport closed")
	}
	t.cancel = cancel
	t.mu.Unlock()

	go t.pollLoop(loopCtx)
	return nil
}

// Emit posts an event frame to the server.
func (t *PollTransport) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	body := struct {
		ClientID string `json:"clientId"`
		frame
	}{ClientID: t.clientID, frame: frame{Event: event, Data: data}}

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return t.postRaw(context.Background(), "/socket/poll/emit", raw)
}

// Close stops the poll loop. Idempotent.
func (t *PollTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.cancel != nil {
		t.cancel()
	}
	return nil
}

func (t *PollTransport) pollLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		frames, err := t.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			t.logger.Debug("poll failed, retrying", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, f := range frames {
			t.dispatch(f.Event, f.Data)
		}
	}
}

func (t *PollTransport) poll(ctx context.Context) ([]frame, error) {
	url := fmt.Sprintf("%s/socket/poll?clientId=%s&wait=%d", t.baseURL, t.clientID, int(pollWait.Seconds()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("poll: status %d", resp.StatusCode)
	}

	var frames []frame
	if err := json.NewDecoder(resp.Body).Decode(&frames); err != nil {
		return nil, fmt.Errorf("decode poll batch: %w", err)
	}
	return frames, nil
}

func (t *PollTransport) dispatch(event string, data json.RawMessage) {
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

func (t *PollTransport) post(ctx context.Context, path string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return t.postRaw(ctx, path, raw)
}

func (t *PollTransport) postRaw(ctx context.Context, path string, raw []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	return nil
}

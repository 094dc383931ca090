package history

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/edupi-school/edupi-client/pkg/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(":memory:", slog.Default())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return st
}

func testEvent(id string) *model.NotificationEvent {
	return &model.NotificationEvent{
		ID:        id,
		Title:     "Sports day",
		Content:   "Sports day is on Saturday.",
		Type:      model.TypeEvent,
		Priority:  model.PriorityLow,
		CreatedBy: "Admin",
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

func TestStore_SaveAndList(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, testEvent("a1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := st.Save(ctx, testEvent("a2")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := st.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Read {
			t.Errorf("expected new entry %s unread", e.Event.ID)
		}
		if e.Event.Title != "Sports day" {
			t.Errorf("expected title preserved, got %q", e.Event.Title)
		}
		if e.Event.Priority != model.PriorityLow {
			t.Errorf("expected priority preserved, got %q", e.Event.Priority)
		}
	}
}

func TestStore_ListLimit(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a1", "a2", "a3"} {
		if err := st.Save(ctx, testEvent(id)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := st.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries with limit, got %d", len(entries))
	}
}

func TestStore_MarkRead(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, testEvent("a1")); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(ctx, testEvent("a2")); err != nil {
		t.Fatal(err)
	}

	if err := st.MarkRead(ctx, "a1"); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	n, err := st.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 unread, got %d", n)
	}
}

func TestStore_MarkAllRead(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a1", "a2", "a3"} {
		if err := st.Save(ctx, testEvent(id)); err != nil {
			t.Fatal(err)
		}
	}

	if err := st.MarkAllRead(ctx); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}

	n, err := st.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 unread, got %d", n)
	}
}

func TestStore_MigrateIdempotent(t *testing.T) {
	st := setupTestStore(t)

	if err := st.Migrate(context.Background()); err != nil {
		t.Errorf("second Migrate failed: %v", err)
	}
}

package repository

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestHistoryAppendAndList(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := OpenHistory(ctx, filepath.Join(t.TempDir(), "history.db"), logger)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer store.Close()

	entries := []HistoryEntry{
		{Kind: "label", RawText: "KIWI Cal 30", Parsed: json.RawMessage(`{"calibre":"30"}`), Verdict: "REGLEMENTAIRE"},
		{Kind: "delivery_note", RawText: "BL-1", Parsed: json.RawMessage(`{"items":[]}`), UserEmail: "ops@example.com"},
	}
	for _, e := range entries {
		if err := store.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List = %d entries, want 2", len(got))
	}
	for _, e := range got {
		if e.ID.String() == "00000000-0000-0000-0000-000000000000" {
			t.Error("entry ID must be assigned on append")
		}
		if e.CreatedAt.IsZero() {
			t.Error("entry CreatedAt must be assigned on append")
		}
	}
}

func TestHistoryListLimit(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := OpenHistory(ctx, filepath.Join(t.TempDir(), "history.db"), logger)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer store.Close()

	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, HistoryEntry{Kind: "label", Parsed: json.RawMessage(`{}`)}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	got, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("List = %d entries, want 3", len(got))
	}
}

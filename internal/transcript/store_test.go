package transcript

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_AppendAndRecent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, e := range []Entry{
		{Conversation: "support", Role: RoleUser, Content: "one"},
		{Conversation: "support", Role: RoleAssistant, Content: "two"},
		{Conversation: "other", Role: RoleUser, Content: "elsewhere"},
		{Conversation: "support", Role: RoleUser, Content: "three"},
	} {
		e.Time = base.Add(time.Duration(i) * time.Second)
		stored, err := s.Append(ctx, e)
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if stored.ID == 0 {
			t.Error("Append() should set ID")
		}
	}

	all, err := s.Recent(ctx, "support", 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Recent() returned %d entries, want 3", len(all))
	}
	if all[0].Content != "one" || all[2].Content != "three" {
		t.Errorf("order = %q..%q, want one..three", all[0].Content, all[2].Content)
	}
	if !all[1].Time.Equal(base.Add(time.Second)) {
		t.Errorf("Time = %v, want %v", all[1].Time, base.Add(time.Second))
	}

	last, err := s.Recent(ctx, "support", 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(last) != 2 || last[0].Content != "two" || last[1].Content != "three" {
		t.Errorf("Recent(2) = %+v, want two, three", last)
	}
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	s.Append(ctx, Entry{Conversation: "a", Role: RoleUser, Content: "x"})
	s.Append(ctx, Entry{Conversation: "b", Role: RoleUser, Content: "y"})

	if err := s.Clear(ctx, "a"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	a, _ := s.Recent(ctx, "a", 0)
	b, _ := s.Recent(ctx, "b", 0)
	if len(a) != 0 {
		t.Errorf("conversation a has %d entries after Clear, want 0", len(a))
	}
	if len(b) != 1 {
		t.Errorf("conversation b has %d entries, want 1", len(b))
	}
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "chat.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := s.Append(ctx, Entry{Conversation: "c", Role: RoleUser, Content: "kept"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	s.Close()

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer reopened.Close()

	entries, err := reopened.Recent(ctx, "c", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Content != "kept" {
		t.Errorf("entries = %+v, want one kept entry", entries)
	}
}

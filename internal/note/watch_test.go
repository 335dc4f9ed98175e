package note

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch_SignalsExternalChange(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 50)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error: %v", err)
	}

	// Simulate another process dropping a note into the directory.
	seedNote(t, dir, "note_20240101_000000.png", time.Now())

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no signal after an external note appeared")
	}
}

func TestWatch_IgnoresOwnWritesAndForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 50)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error: %v", err)
	}

	if _, err := s.Save(testNote(1)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("watcher signaled for the store's own save or a foreign file")
		}
	case <-time.After(500 * time.Millisecond):
		// No signal: our own writes and non-note files are filtered.
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	s, err := New(t.TempDir(), 50)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error: %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("received a signal instead of channel close")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watch channel did not close after cancel")
	}
}

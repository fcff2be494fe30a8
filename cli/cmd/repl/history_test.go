package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	if err := h.Load(); err != nil {
		t.Fatalf("load of missing file: %v", err)
	}

	for _, line := range []string{"x + 1", " ", "y", "y", "x + 1"} {
		if err := h.Add(line); err != nil {
			t.Fatalf("add %q: %v", line, err)
		}
	}

	if h.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", h.Len())
	}

	if l, _ := h.Line(1); l != "x + 1" {
		t.Errorf("expected the repeated line to move last, got %q", l)
	}

	if _, err := h.Line(2); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}

	if string(data) != "y\nx + 1\n" {
		t.Errorf("unexpected history file %q", data)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil || reloaded.Len() != 2 {
		t.Errorf("expected 2 reloaded entries, got %d (%v)", reloaded.Len(), err)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("1"); err != nil || h.Len() != 1 {
		t.Errorf("expected 1 entry, got %d (%v)", h.Len(), err)
	}
}

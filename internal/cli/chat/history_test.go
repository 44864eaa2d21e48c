package chat

import (
	"path/filepath"
	"strconv"
	"testing"
)

func TestHistoryAddAndRecent(t *testing.T) {
	h := NewHistory("")
	h.Add("first")
	h.Add("")
	h.Add("second")

	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (blank dropped)", h.Len())
	}

	recent := h.Recent(5)
	if len(recent) != 2 || recent[0] != "second" || recent[1] != "first" {
		t.Errorf("Recent = %v, want most recent first", recent)
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory("")
	h.limit = 3
	for i := 0; i < 5; i++ {
		h.Add("q" + strconv.Itoa(i))
	}

	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	if got := h.Recent(1)[0]; got != "q4" {
		t.Errorf("newest = %q, want q4", got)
	}
	if got := h.Recent(3)[2]; got != "q2" {
		t.Errorf("oldest kept = %q, want q2", got)
	}
}

func TestHistorySaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat", "history")

	h := NewHistory(path)
	h.Add("what is HDL?")
	h.Add("and LDL?")
	if err := h.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded %d entries, want 2", loaded.Len())
	}
	if got := loaded.Recent(1)[0]; got != "and LDL?" {
		t.Errorf("newest loaded = %q", got)
	}
}

func TestHistoryLoadMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "nope"))
	if err := h.Load(); err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}
}

func TestHistoryMemoryOnly(t *testing.T) {
	h := NewHistory("")
	h.Add("kept in memory")
	if err := h.Save(); err != nil {
		t.Fatalf("Save without file: %v", err)
	}
	if err := h.Load(); err != nil {
		t.Fatalf("Load without file: %v", err)
	}
}

package chat

import (
	"bufio"
	"os"
	"path/filepath"
)

const defaultHistoryLimit = 500

// History keeps past questions so a new session can recall them.
type History struct {
	entries []string
	limit   int
	file    string
}

// NewHistory creates a history persisted at the given path. An empty
// path keeps the history in memory only.
func NewHistory(path string) *History {
	return &History{
		limit: defaultHistoryLimit,
		file:  path,
	}
}

// Add records a question, dropping the oldest past the limit.
func (h *History) Add(question string) {
	if question == "" {
		return
	}
	h.entries = append(h.entries, question)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Len returns the number of recorded questions.
func (h *History) Len() int {
	return len(h.entries)
}

// Recent returns up to n questions, most recent first.
func (h *History) Recent(n int) []string {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]string, 0, n)
	for i := len(h.entries) - 1; i >= len(h.entries)-n; i-- {
		out = append(out, h.entries[i])
	}
	return out
}

// Load reads persisted history. A missing file is not an error.
func (h *History) Load() error {
	if h.file == "" {
		return nil
	}

	f, err := os.Open(h.file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		h.Add(scanner.Text())
	}
	return scanner.Err()
}

// Save writes the history with owner-only permissions.
func (h *History) Save() error {
	if h.file == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(h.file), 0o700); err != nil {
		return err
	}

	f, err := os.OpenFile(h.file, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, entry := range h.entries {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

package output

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Spinner shows a progress animation while a slow call is in flight,
// typically an upload waiting on analysis.
type Spinner struct {
	w       io.Writer
	message string
	frames  []string

	started atomic.Bool
	once    sync.Once
	done    chan struct{}
	idle    chan struct{}
}

// NewSpinner creates a spinner that writes to w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		done:    make(chan struct{}),
		idle:    make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.idle)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			select {
			case <-s.done:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop halts the animation and clears the line. Safe to call more than
// once.
func (s *Spinner) Stop() {
	s.halt()
	fmt.Fprint(s.w, "\r\033[K")
}

// Success halts the animation and prints a success line.
func (s *Spinner) Success(message string) {
	s.halt()
	fmt.Fprintf(s.w, "\r\033[K✓ %s\n", message)
}

// Fail halts the animation and prints a failure line.
func (s *Spinner) Fail(message string) {
	s.halt()
	fmt.Fprintf(s.w, "\r\033[K✗ %s\n", message)
}

func (s *Spinner) halt() {
	s.once.Do(func() {
		close(s.done)
		if s.started.Load() {
			<-s.idle
		}
	})
}

package chat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vitalis-health/vitalis-go/internal/api"
)

type scriptedAsker struct {
	calls   int
	failOn  int
	lastLen int
}

func (a *scriptedAsker) Ask(ctx context.Context, reportText string, history []api.ChatMessage) (string, error) {
	a.calls++
	a.lastLen = len(history)
	if a.failOn == a.calls {
		return "", &api.Error{Status: 503, Message: "assistant unavailable"}
	}
	return fmt.Sprintf("answer %d", a.calls), nil
}

func TestSessionConversationGrows(t *testing.T) {
	asker := &scriptedAsker{}
	input := strings.NewReader("what is LDL?\nis mine high?\nexit\n")
	var out bytes.Buffer

	sess := NewSession(input, &out, asker, "report text", nil)
	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if asker.calls != 2 {
		t.Fatalf("asker called %d times, want 2", asker.calls)
	}
	// Second call carries the first exchange plus the new question.
	if asker.lastLen != 3 {
		t.Errorf("second call history length = %d, want 3", asker.lastLen)
	}

	turns := sess.Turns()
	if len(turns) != 4 {
		t.Fatalf("got %d turns, want 4", len(turns))
	}
	if turns[0].Role != "user" || turns[1].Role != "model" {
		t.Errorf("turn roles = %s, %s", turns[0].Role, turns[1].Role)
	}
	if !strings.Contains(out.String(), "answer 2") {
		t.Errorf("replies missing from output: %q", out.String())
	}
}

func TestSessionSkipsBlankLines(t *testing.T) {
	asker := &scriptedAsker{}
	input := strings.NewReader("\n   \nquit\n")

	sess := NewSession(input, &bytes.Buffer{}, asker, "text", nil)
	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if asker.calls != 0 {
		t.Errorf("asker called %d times for blank input", asker.calls)
	}
}

func TestSessionEndsOnEOF(t *testing.T) {
	sess := NewSession(strings.NewReader("no newline"), &bytes.Buffer{}, &scriptedAsker{}, "text", nil)
	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run on EOF: %v", err)
	}
}

func TestSessionFailureKeepsConversation(t *testing.T) {
	asker := &scriptedAsker{failOn: 1}
	input := strings.NewReader("first?\nsecond?\nexit\n")
	var out bytes.Buffer

	sess := NewSession(input, &out, asker, "text", nil)
	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "assistant unavailable") {
		t.Errorf("error message not shown: %q", out.String())
	}
	// The failed question left no phantom turn, so the retry carries
	// only itself.
	if asker.lastLen != 1 {
		t.Errorf("second call history length = %d, want 1", asker.lastLen)
	}
	if len(sess.Turns()) != 2 {
		t.Errorf("got %d turns, want 2", len(sess.Turns()))
	}
}

func TestSessionStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	failing := &cancelledAsker{}
	input := strings.NewReader("question?\n")

	sess := NewSession(input, &bytes.Buffer{}, failing, "text", nil)
	err := sess.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run: err = %v, want context.Canceled", err)
	}
}

type cancelledAsker struct{}

func (a *cancelledAsker) Ask(ctx context.Context, reportText string, history []api.ChatMessage) (string, error) {
	return "", ctx.Err()
}

func TestSessionRecordsHistory(t *testing.T) {
	hist := NewHistory("")
	input := strings.NewReader("what changed?\nexit\n")

	sess := NewSession(input, &bytes.Buffer{}, &scriptedAsker{}, "text", hist)
	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if hist.Len() != 1 {
		t.Fatalf("history length = %d, want 1", hist.Len())
	}
	if got := hist.Recent(1)[0]; got != "what changed?" {
		t.Errorf("recorded question = %q", got)
	}
}

package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vitalis-health/vitalis-go/internal/api"
)

// Asker answers a question about a report given the conversation so far.
type Asker interface {
	Ask(ctx context.Context, reportText string, history []api.ChatMessage) (string, error)
}

// Session is an interactive question/answer loop over one report.
type Session struct {
	input  io.Reader
	output io.Writer
	asker  Asker

	reportText string
	turns      []api.ChatMessage
	history    *History
}

// NewSession creates a session over the given report text. history may
// be nil.
func NewSession(input io.Reader, output io.Writer, asker Asker, reportText string, history *History) *Session {
	return &Session{
		input:      input,
		output:     output,
		asker:      asker,
		reportText: reportText,
		history:    history,
	}
}

// Turns returns the conversation so far.
func (s *Session) Turns() []api.ChatMessage {
	return s.turns
}

// Run reads questions until EOF or an exit command. Answer failures are
// printed and the loop continues; only the context ending stops it with
// an error.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.output, "Ask about your report. Type \"exit\" to leave.")

	reader := bufio.NewReader(s.input)
	for {
		fmt.Fprint(s.output, "you> ")

		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.output)
			return nil
		}
		if err != nil {
			return err
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		if s.history != nil {
			s.history.Add(question)
		}

		reply, err := s.ask(ctx, question)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(s.output, "%s\n", api.UserMessage(err))
			continue
		}

		fmt.Fprintf(s.output, "\n%s\n\n", reply)
	}
}

// Ask sends one question outside the interactive loop, still carrying
// the session's conversation.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	return s.ask(ctx, question)
}

func (s *Session) ask(ctx context.Context, question string) (string, error) {
	turns := append(s.turns, api.UserMessageTurn(question))

	reply, err := s.asker.Ask(ctx, s.reportText, turns)
	if err != nil {
		return "", err
	}

	// The conversation only grows on success, so a failed question can
	// be retried without a phantom turn.
	s.turns = append(turns, api.ModelMessageTurn(reply))
	return reply, nil
}

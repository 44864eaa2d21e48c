package command

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/vitalis-health/vitalis-go/internal/api"
	"github.com/vitalis-health/vitalis-go/internal/cli/chat"
	"github.com/vitalis-health/vitalis-go/internal/reports"
	"github.com/vitalis-health/vitalis-go/internal/session"
)

// ChatCommand returns the assistant chat command.
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Ask the assistant about your latest report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "question",
				Aliases: []string{"q"},
				Usage:   "Ask a single question and exit",
			},
		},
		Action: chatAction,
	}
}

func chatAction(c *cli.Context) error {
	env, err := FromContext(c)
	if err != nil {
		return err
	}
	if err := env.RequireView(session.ViewDashboard); err != nil {
		return err
	}

	report, err := env.Reports().Latest(c.Context)
	if errors.Is(err, reports.ErrCacheEmpty) {
		fmt.Fprintln(env.Stdout, "No reports yet. Upload one with: vitalis-cli report upload FILE")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}

	history := chat.NewHistory(filepath.Join(env.Config.DataDir, "chat_history"))
	if err := history.Load(); err != nil {
		env.Logger.Warn("load chat history", "err", err)
	}

	sess := chat.NewSession(env.In(), env.Stdout, env.Reports(), report.ExtractedText, history)

	if question := c.String("question"); question != "" {
		reply, err := sess.Ask(c.Context, question)
		if err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		history.Add(question)
		fmt.Fprintln(env.Stdout, reply)
		return history.Save()
	}

	fmt.Fprintf(env.Stdout, "Chatting about %s.\n", report.FileName)
	runErr := sess.Run(c.Context)

	if err := history.Save(); err != nil {
		env.Logger.Warn("save chat history", "err", err)
	}
	return runErr
}

package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/vitalis-health/vitalis-go/internal/api"
	"github.com/vitalis-health/vitalis-go/internal/session"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Account username",
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "Account password (prompted when omitted)",
			},
		},
		Action: loginAction,
	}
}

func loginAction(c *cli.Context) error {
	env, err := FromContext(c)
	if err != nil {
		return err
	}

	// Logging in while already authenticated switches accounts; the new
	// pair simply replaces the stored one.
	username, err := requireValue(env, c, "username", "Username: ")
	if err != nil {
		return err
	}

	password := c.String("password")
	if password == "" {
		password, err = promptSecret(env, "Password: ")
		if err != nil {
			return err
		}
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	if err := env.Sessions.Login(c.Context, username, password); err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}

	fmt.Fprintf(env.Stdout, "Logged in as %s.\n", username)
	return nil
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Clear the stored session",
		Action: func(c *cli.Context) error {
			env, err := FromContext(c)
			if err != nil {
				return err
			}

			env.Sessions.Logout()
			if err := env.Reports().ClearCache(); err != nil {
				env.Logger.Warn("clear report cache", "err", err)
			}

			fmt.Fprintln(env.Stdout, "Logged out.")
			return nil
		},
	}
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show session state and configuration",
		Action: func(c *cli.Context) error {
			env, err := FromContext(c)
			if err != nil {
				return err
			}

			formatter, err := env.Formatter(c)
			if err != nil {
				return err
			}

			status := struct {
				Server  string `json:"server" yaml:"server"`
				State   string `json:"state" yaml:"state"`
				View    string `json:"view" yaml:"view"`
				DataDir string `json:"data_dir" yaml:"data_dir"`
			}{
				Server:  env.Client.BaseURL(),
				State:   env.Sessions.State().String(),
				View:    string(env.Nav.Current()),
				DataDir: env.Config.DataDir,
			}
			if err := formatter.Format(env.Stdout, status); err != nil {
				return err
			}

			if notice := env.Nav.LastNotice(); notice != "" && env.Sessions.State() == session.Anonymous {
				fmt.Fprintln(env.Stdout, notice)
			}
			return nil
		},
	}
}

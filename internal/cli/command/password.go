package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/vitalis-health/vitalis-go/internal/verify"
)

// PasswordCommand returns the password recovery command group.
func PasswordCommand() *cli.Command {
	return &cli.Command{
		Name:  "password",
		Usage: "Recover account access",
		Subcommands: []*cli.Command{
			{
				Name:  "forgot",
				Usage: "Request a password reset email",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email address",
					},
				},
				Action: passwordForgot,
			},
			{
				Name:      "reset",
				Usage:     "Set a new password using a reset link",
				ArgsUsage: "RESET_LINK",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "user",
						Usage: "User reference from the reset link",
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "Reset token from the reset link",
					},
				},
				Action: passwordReset,
			},
		},
	}
}

func passwordForgot(c *cli.Context) error {
	env, err := FromContext(c)
	if err != nil {
		return err
	}

	email, err := requireValue(env, c, "email", "Email: ")
	if err != nil {
		return err
	}

	req := verify.NewResetRequest(env.Client)
	if err := req.Submit(c.Context, email); err != nil {
		return fmt.Errorf("%s", req.Err())
	}

	fmt.Fprintln(env.Stdout, verify.ResetConfirmationMessage)
	return nil
}

func passwordReset(c *cli.Context) error {
	env, err := FromContext(c)
	if err != nil {
		return err
	}

	confirm, err := resetConfirmFor(c, env)
	if err != nil {
		if errors.Is(err, verify.ErrBadResetLink) || errors.Is(err, verify.ErrNoPending) {
			return fmt.Errorf("the reset link is invalid; request a new one with: vitalis-cli password forgot")
		}
		return err
	}

	for {
		password, err := promptSecret(env, "New password: ")
		if err != nil {
			return err
		}
		again, err := promptSecret(env, "Repeat new password: ")
		if err != nil {
			return err
		}

		err = confirm.Submit(c.Context, password, again)
		if errors.Is(err, verify.ErrPasswordMismatch) {
			fmt.Fprintln(env.Stdout, confirm.Err())
			continue
		}
		if err != nil {
			return fmt.Errorf("%s", confirm.Err())
		}

		fmt.Fprintln(env.Stdout, "Password updated. You can now log in.")
		return nil
	}
}

// resetConfirmFor builds the confirmation flow from either the pasted
// link or the explicit --user/--token pair.
func resetConfirmFor(c *cli.Context, env *Env) (*verify.ResetConfirm, error) {
	if user, token := c.String("user"), c.String("token"); user != "" || token != "" {
		return verify.NewResetConfirm(env.Client, user, token)
	}

	link := c.Args().First()
	if link == "" {
		var err error
		link, err = promptLine(env, "Paste the reset link: ")
		if err != nil {
			return nil, err
		}
	}
	return verify.ResetConfirmFromLink(env.Client, link)
}

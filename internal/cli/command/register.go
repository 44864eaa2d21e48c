package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/vitalis-health/vitalis-go/internal/verify"
)

// RegisterCommand returns the account registration command. It walks
// the whole flow: submit the form, then verify the emailed code.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and verify it with the emailed code",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Desired username",
			},
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email address",
			},
		},
		Action: registerAction,
	}
}

func registerAction(c *cli.Context) error {
	env, err := FromContext(c)
	if err != nil {
		return err
	}

	username, err := requireValue(env, c, "username", "Username: ")
	if err != nil {
		return err
	}
	email, err := requireValue(env, c, "email", "Email: ")
	if err != nil {
		return err
	}
	password, err := promptSecret(env, "Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	reg := verify.NewRegistration(env.Client)
	if err := reg.Submit(c.Context, username, email, password); err != nil {
		return fmt.Errorf("%s", reg.Err())
	}

	fmt.Fprintf(env.Stdout, "A verification code was sent to %s.\n", email)
	return runVerification(c, env, reg)
}

// runVerification loops on code entry until the service accepts one or
// the user gives up with an empty line.
func runVerification(c *cli.Context, env *Env, reg *verify.Registration) error {
	for {
		code, err := promptLine(env, "Verification code (empty to abort): ")
		if err != nil {
			return err
		}
		if code == "" {
			fmt.Fprintf(env.Stdout, "Verification pending. Resume with: vitalis-cli verify --email %s\n", reg.Email())
			return nil
		}

		if err := reg.VerifyCode(c.Context, code); err != nil {
			// A rejected code keeps the flow alive for another attempt.
			fmt.Fprintln(env.Stdout, reg.Err())
			continue
		}

		fmt.Fprintln(env.Stdout, "Account verified. You can now log in.")
		return nil
	}
}

// VerifyCommand returns the standalone verification command, for
// finishing a registration begun earlier or elsewhere.
func VerifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Verify an account with the emailed code",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Email the code was sent to",
			},
			&cli.StringFlag{
				Name:  "code",
				Usage: "Verification code (prompted when omitted)",
			},
		},
		Action: verifyAction,
	}
}

func verifyAction(c *cli.Context) error {
	env, err := FromContext(c)
	if err != nil {
		return err
	}

	email, err := requireValue(env, c, "email", "Email: ")
	if err != nil {
		return err
	}

	reg, err := verify.ResumeAwaitingCode(env.Client, email)
	if err != nil {
		return err
	}

	if code := c.String("code"); code != "" {
		if err := reg.VerifyCode(c.Context, code); err != nil {
			return fmt.Errorf("%s", reg.Err())
		}
		fmt.Fprintln(env.Stdout, "Account verified. You can now log in.")
		return nil
	}

	return runVerification(c, env, reg)
}

package command

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/vitalis-health/vitalis-go/internal/cli/config"
	"github.com/vitalis-health/vitalis-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "vitalis-cli",
		Usage:   "Upload health reports, read analyses and ask follow-up questions",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			StatusCommand(),
			RegisterCommand(),
			VerifyCommand(),
			PasswordCommand(),
			ReportCommand(),
			ChatCommand(),
			ConfigCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := resolveConfig(c)
			if err != nil {
				return err
			}

			env, err := NewEnv(cfg, os.Stdin, os.Stdout, os.Stderr)
			if err != nil {
				return err
			}
			c.App.Metadata[envKey] = env
			return nil
		},
		After: func(c *cli.Context) error {
			if env, ok := c.App.Metadata[envKey].(*Env); ok {
				return env.Close()
			}
			return nil
		},
	}

	return app
}

// resolveConfig loads configuration with flag overrides applied last.
func resolveConfig(c *cli.Context) (*config.CLIConfig, error) {
	opts := []config.Option{config.WithConfigFile(c.String("config"))}

	if c.IsSet("server") {
		opts = append(opts, config.WithOverride("server", c.String("server")))
	}
	if c.IsSet("output") {
		opts = append(opts, config.WithOverride("output", c.String("output")))
	}
	if c.IsSet("data-dir") {
		opts = append(opts, config.WithOverride("data_dir", c.String("data-dir")))
	}
	if c.Bool("verbose") {
		opts = append(opts, config.WithOverride("log.level", "debug"))
	}

	return config.NewLoader(opts...).Load()
}

// globalFlags returns the flags available to all commands.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Service base URL",
			EnvVars: []string{"VITALIS_SERVER"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the CLI config file",
			EnvVars: []string{"VITALIS_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Directory for credentials and cached data",
			EnvVars: []string{"VITALIS_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

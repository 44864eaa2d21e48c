package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/vitalis-health/vitalis-go/internal/cli/config"
)

// ConfigCommand returns the config command group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and manage CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the resolved configuration",
				Action: configShow,
			},
			{
				Name:  "path",
				Usage: "Print the config file location",
				Action: func(c *cli.Context) error {
					env, err := FromContext(c)
					if err != nil {
						return err
					}
					path := c.String("config")
					if path == "" {
						path = config.DefaultConfigPath()
					}
					fmt.Fprintln(env.Stdout, path)
					return nil
				},
			},
			{
				Name:   "init",
				Usage:  "Write the resolved configuration to the config file",
				Action: configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	env, err := FromContext(c)
	if err != nil {
		return err
	}

	formatter, err := env.Formatter(c)
	if err != nil {
		return err
	}
	return formatter.Format(env.Stdout, struct {
		Server            string  `json:"server" yaml:"server"`
		Output            string  `json:"output" yaml:"output"`
		DataDir           string  `json:"data_dir" yaml:"data_dir"`
		Timeout           string  `json:"timeout" yaml:"timeout"`
		RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
		LogLevel          string  `json:"log_level" yaml:"log_level"`
		LogFormat         string  `json:"log_format" yaml:"log_format"`
	}{
		Server:            env.Config.Server,
		Output:            env.Config.Output,
		DataDir:           env.Config.DataDir,
		Timeout:           env.Config.Timeout.String(),
		RequestsPerSecond: env.Config.RequestsPerSecond,
		LogLevel:          env.Config.Log.Level,
		LogFormat:         env.Config.Log.Format,
	})
}

func configInit(c *cli.Context) error {
	env, err := FromContext(c)
	if err != nil {
		return err
	}

	path := c.String("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := config.Save(env.Config, path); err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "Wrote %s\n", path)
	return nil
}

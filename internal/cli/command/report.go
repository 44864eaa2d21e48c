package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/vitalis-health/vitalis-go/internal/api"
	"github.com/vitalis-health/vitalis-go/internal/cli/output"
	"github.com/vitalis-health/vitalis-go/internal/reports"
	"github.com/vitalis-health/vitalis-go/internal/session"
)

// ReportCommand returns the report command group.
func ReportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Upload and browse health reports",
		Subcommands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "Upload a report file for analysis",
				ArgsUsage: "FILE",
				Action:    reportUpload,
			},
			{
				Name:  "list",
				Usage: "List uploaded reports",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read from the local cache without contacting the service",
					},
				},
				Action: reportList,
			},
			{
				Name:   "latest",
				Usage:  "Show the most recent report and its analysis",
				Action: reportLatest,
			},
		},
	}
}

func reportUpload(c *cli.Context) error {
	env, err := FromContext(c)
	if err != nil {
		return err
	}
	if err := env.RequireView(session.ViewDashboard); err != nil {
		return err
	}

	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("report file required: vitalis-cli report upload FILE")
	}

	spinner := output.NewSpinner(env.Stderr, "Uploading and analyzing...")
	spinner.Start()

	analysis, err := env.Reports().Upload(c.Context, path)
	if err != nil {
		// The spinner already showed the friendly message; exit non-zero
		// without repeating it.
		spinner.Fail(api.UserMessage(err))
		return cli.Exit("", 1)
	}
	spinner.Success("Analysis complete.")

	formatter, err := env.Formatter(c)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "\n%s\n\n", analysis.Summary)
	return formatter.Format(env.Stdout, analysis.Findings)
}

func reportList(c *cli.Context) error {
	env, err := FromContext(c)
	if err != nil {
		return err
	}
	if err := env.RequireView(session.ViewHistory); err != nil {
		return err
	}

	var list []api.Report
	if c.Bool("cached") {
		list, err = env.Reports().Cached()
	} else {
		list, err = env.Reports().List(c.Context)
	}
	if err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}

	if len(list) == 0 {
		fmt.Fprintln(env.Stdout, "No reports yet. Upload one with: vitalis-cli report upload FILE")
		return nil
	}

	formatter, err := env.Formatter(c)
	if err != nil {
		return err
	}
	return formatter.Format(env.Stdout, list)
}

func reportLatest(c *cli.Context) error {
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

	formatter, err := env.Formatter(c)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "%s (uploaded %s)\n\n%s\n\n",
		report.FileName, report.UploadedAt.Local().Format("2006-01-02 15:04"), report.Summary)
	return formatter.Format(env.Stdout, report.Findings)
}

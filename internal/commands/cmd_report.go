package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/styles"
)

type ReportCmd struct {
	flags *Flags
	app   *assess.App

	output string
	raw    bool
}

// NewReportCmd creates a new report command
func NewReportCmd(flags *Flags, app *assess.App) *ReportCmd {
	return &ReportCmd{flags: flags, app: app}
}

// Register adds the report command to the application
func (cmd *ReportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "report",
		Usage:     "Generate a Markdown compliance report",
		UsageText: "assess report <task-id> [-o report.md] [--raw]",
		Description: `Renders the task, its scores, and every finding as Markdown.

On a terminal the report is rendered for display; use --raw or -o to get
the Markdown source.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write the Markdown report to this file",
				Destination: &cmd.output,
			},
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print Markdown source even on a terminal",
				Destination: &cmd.raw,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReportCmd) run(ctx context.Context, c *cli.Command) error {
	a, err := args(c, "task-id")
	if err != nil {
		return err
	}

	md, err := cmd.app.Tasks.Report(ctx, a[0])
	if err != nil {
		return err
	}

	if cmd.output != "" {
		if err := os.WriteFile(cmd.output, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		_, err = fmt.Fprintf(c.Root().Writer, "Report written to %s\n", cmd.output)
		return err
	}

	out := c.Root().Writer
	if cmd.raw || !isTerminal(out) {
		_, err = fmt.Fprint(out, md)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(terminalWidth(out)),
	)
	if err != nil {
		log.Warn().Err(err).Msg("markdown renderer unavailable, printing source")
		_, err = fmt.Fprint(out, md)
		return err
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

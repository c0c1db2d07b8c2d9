package commands

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/styles"
)

type StatsCmd struct {
	flags *Flags
	app   *assess.App

	jsonOutput bool
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(flags *Flags, app *assess.App) *StatsCmd {
	return &StatsCmd{flags: flags, app: app}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Count tasks by status",
		UsageText: "assess stats [--json]",
		Flags:     []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		Action:    cmd.run,
	})

	return app
}

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	stats, err := cmd.app.Tasks.Stats(ctx)
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	if cmd.jsonOutput {
		return writeJSON(c, stats)
	}

	draft := stats.TotalTasks - stats.CompletedTasks - stats.InProgressTasks
	printDetails(c.Root().Writer, []detail{
		{"Total", strconv.Itoa(stats.TotalTasks)},
		{assess.StatusLabel(assessment.StatusDraft), styles.StatusStyle(assessment.StatusDraft).Render(strconv.Itoa(draft))},
		{assess.StatusLabel(assessment.StatusInProgress), styles.StatusStyle(assessment.StatusInProgress).Render(strconv.Itoa(stats.InProgressTasks))},
		{assess.StatusLabel(assessment.StatusCompleted), styles.StatusStyle(assessment.StatusCompleted).Render(strconv.Itoa(stats.CompletedTasks))},
	})
	return nil
}

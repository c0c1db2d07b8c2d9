package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/scoring"
	"github.com/colonyops/assess/internal/core/styles"
)

type ResultCmd struct {
	flags *Flags
	app   *assess.App

	jsonOutput bool
}

// NewResultCmd creates a new result command
func NewResultCmd(flags *Flags, app *assess.App) *ResultCmd {
	return &ResultCmd{flags: flags, app: app}
}

// Register adds the result command to the application
func (cmd *ResultCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "result",
		Usage:     "Show the compliance score of a task",
		UsageText: "assess result <task-id> [--json]",
		Description: `Prints overall compliance, per-dimension scores, and the rating
distribution. Items rated not_applicable are counted but not scored.`,
		Flags:  []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		Action: cmd.run,
	})

	return app
}

func (cmd *ResultCmd) run(ctx context.Context, c *cli.Command) error {
	a, err := args(c, "task-id")
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	result, err := cmd.app.Tasks.Result(ctx, a[0])
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	if cmd.jsonOutput {
		return writeJSON(c, result)
	}

	out := c.Root().Writer
	printDetails(out, []detail{
		{"Overall", scoreBar(result.OverallCompliance)},
		{"Scored", fmt.Sprintf("%d/%d", result.CompletedItems, result.TotalItems)},
	})

	if len(result.DimensionScores) > 0 {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, styles.HeaderStyle.Render("Dimensions"))
		rows := make([]detail, 0, len(result.DimensionScores))
		for _, d := range result.DimensionScores {
			rows = append(rows, detail{d.Dimension, scoreBar(d.Score)})
		}
		printDetails(out, rows)
	}

	_, _ = fmt.Fprintln(out)
	dist := make([][]string, 0, len(assessment.Ratings))
	for _, r := range assessment.Ratings {
		dist = append(dist, []string{
			styles.RatingStyle(r).Render(styles.RatingIcon(r) + " " + scoring.Label(r)),
			strconv.Itoa(result.LevelDistribution.Count(r)),
		})
	}
	_, err = fmt.Fprintln(out, styles.Table([]string{"RATING", "ITEMS"}, dist))
	return err
}

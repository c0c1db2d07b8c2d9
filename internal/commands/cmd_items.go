package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/scoring"
	"github.com/colonyops/assess/internal/core/styles"
)

type ItemsCmd struct {
	flags *Flags
	app   *assess.App

	dimension  string
	unrated    bool
	jsonOutput bool
}

// NewItemsCmd creates a new items command
func NewItemsCmd(flags *Flags, app *assess.App) *ItemsCmd {
	return &ItemsCmd{flags: flags, app: app}
}

// Register adds the items command to the application
func (cmd *ItemsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "items",
		Usage:     "List the checklist items of a task",
		UsageText: "assess items <task-id> [--dimension NAME] [--unrated] [--json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dimension",
				Aliases:     []string{"d"},
				Usage:       "only show items in this dimension",
				Destination: &cmd.dimension,
			},
			&cli.BoolFlag{
				Name:        "unrated",
				Usage:       "only show items without a rating",
				Destination: &cmd.unrated,
			},
			jsonFlag(&cmd.jsonOutput),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ItemsCmd) run(ctx context.Context, c *cli.Command) error {
	a, err := args(c, "task-id")
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	items, err := cmd.app.Tasks.Items(ctx, a[0])
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}
	items = filterItems(items, cmd.dimension, cmd.unrated)

	if cmd.jsonOutput {
		return writeJSON(c, items)
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.ID,
			it.Dimension,
			it.Content,
			styles.RatingStyle(it.Rating).Render(styles.RatingIcon(it.Rating) + " " + scoring.Label(it.Rating)),
			orDash(it.Evidence),
		})
	}

	_, err = fmt.Fprintln(c.Root().Writer, styles.Table([]string{"ID", "DIMENSION", "REQUIREMENT", "RATING", "EVIDENCE"}, rows))
	return err
}

func filterItems(items []assessment.Item, dimension string, unratedOnly bool) []assessment.Item {
	out := make([]assessment.Item, 0, len(items))
	for _, it := range items {
		if dimension != "" && it.Dimension != dimension {
			continue
		}
		if unratedOnly && it.Rating != assessment.RatingUnset {
			continue
		}
		out = append(out, it)
	}
	return out
}

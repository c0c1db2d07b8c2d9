package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/scoring"
	"github.com/colonyops/assess/internal/core/styles"
)

type RateCmd struct {
	flags *Flags
	app   *assess.App

	rating     string
	evidence   string
	remarks    string
	jsonOutput bool
}

// NewRateCmd creates a new rate command
func NewRateCmd(flags *Flags, app *assess.App) *RateCmd {
	return &RateCmd{flags: flags, app: app}
}

// Register adds the rate command to the application
func (cmd *RateCmd) Register(app *cli.Command) *cli.Command {
	ratings := make([]string, len(assessment.Ratings))
	for i, r := range assessment.Ratings {
		ratings[i] = string(r)
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rate",
		Usage:     "Rate a checklist item and record evidence",
		UsageText: "assess rate <task-id> <item-id> [--rating R] [--evidence TEXT] [--remarks TEXT]",
		Description: fmt.Sprintf(`Updates one checklist item. Only the flags given are changed.

Ratings: %s`, strings.Join(ratings, ", ")),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "rating",
				Aliases:     []string{"r"},
				Usage:       "compliance rating",
				Destination: &cmd.rating,
			},
			&cli.StringFlag{
				Name:        "evidence",
				Aliases:     []string{"e"},
				Usage:       "supporting evidence",
				Destination: &cmd.evidence,
			},
			&cli.StringFlag{
				Name:        "remarks",
				Usage:       "assessor remarks",
				Destination: &cmd.remarks,
			},
			jsonFlag(&cmd.jsonOutput),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RateCmd) run(ctx context.Context, c *cli.Command) error {
	a, err := args(c, "task-id", "item-id")
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	var patch assessment.ItemPatch
	if c.IsSet("rating") {
		r := assessment.Rating(cmd.rating)
		patch.Rating = &r
	}
	if c.IsSet("evidence") {
		patch.Evidence = &cmd.evidence
	}
	if c.IsSet("remarks") {
		patch.Remarks = &cmd.remarks
	}
	if patch == (assessment.ItemPatch{}) {
		return fail(c, cmd.jsonOutput, errors.New("nothing to update: pass --rating, --evidence, or --remarks"))
	}

	item, err := cmd.app.Tasks.RateItem(ctx, a[0], a[1], patch)
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	if cmd.jsonOutput {
		return writeJSON(c, item)
	}

	label := styles.RatingStyle(item.Rating).Render(styles.RatingIcon(item.Rating) + " " + scoring.Label(item.Rating))
	_, err = fmt.Fprintf(c.Root().Writer, "%s %s\n", item.ID, label)
	return err
}

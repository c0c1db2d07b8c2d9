package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
)

type RmCmd struct {
	flags *Flags
	app   *assess.App

	jsonOutput bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *assess.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "rm",
		Usage:       "Delete tasks with their items and results",
		UsageText:   "assess rm <task-id> [task-id...]",
		Description: "Deletes each task. Stops at the first task that cannot be deleted.",
		Flags:       []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		Action:      cmd.run,
	})

	return app
}

type rmOutput struct {
	Deleted []string `json:"deleted"`
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	if _, err := args(c, "task-id"); err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	deleted := []string{}
	for _, id := range c.Args().Slice() {
		if err := cmd.app.Tasks.Delete(ctx, id); err != nil {
			return fail(c, cmd.jsonOutput, err)
		}
		deleted = append(deleted, id)
		if !cmd.jsonOutput {
			_, _ = fmt.Fprintf(c.Root().Writer, "Deleted %s\n", id)
		}
	}

	if cmd.jsonOutput {
		return writeJSON(c, rmOutput{Deleted: deleted})
	}
	return nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/styles"
)

type StatusCmd struct {
	flags *Flags
	app   *assess.App

	jsonOutput bool
}

// NewStatusCmd creates a new status command
func NewStatusCmd(flags *Flags, app *assess.App) *StatusCmd {
	return &StatusCmd{flags: flags, app: app}
}

// Register adds the status command to the application
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "status",
		Usage:     "Move a task to draft, in_progress, or completed",
		UsageText: "assess status <task-id> <status>",
		Description: `Sets the lifecycle status of a task. Rating items never changes the
status on its own; use this command to start or complete an assessment.`,
		Flags:  []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		Action: cmd.run,
	})

	return app
}

func (cmd *StatusCmd) run(ctx context.Context, c *cli.Command) error {
	a, err := args(c, "task-id", "status")
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	task, err := cmd.app.Tasks.Transition(ctx, a[0], assessment.Status(a[1]))
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	if cmd.jsonOutput {
		return writeJSON(c, task)
	}

	_, err = fmt.Fprintf(c.Root().Writer, "%s is now %s\n", task.ID,
		styles.StatusStyle(task.Status).Render(assess.StatusLabel(task.Status)))
	return err
}

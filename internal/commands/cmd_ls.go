package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/styles"
)

type LsCmd struct {
	flags *Flags
	app   *assess.App

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *assess.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "ls",
		Usage:       "List all assessment tasks",
		UsageText:   "assess ls [--json]",
		Description: "Displays a table of all tasks in creation order with their template and status.",
		Flags:       []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		Action:      cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	tasks, err := cmd.app.Tasks.Tasks(ctx)
	if err != nil {
		return fail(c, cmd.jsonOutput, fmt.Errorf("list tasks: %w", err))
	}

	if cmd.jsonOutput {
		return writeJSON(c, tasks)
	}

	if len(tasks) == 0 {
		fmt.Fprintf(os.Stderr, "No tasks found. Run 'assess new' to create one.\n")
		return nil
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ID,
			t.Name,
			orDash(t.Organization),
			t.TemplateID,
			styles.StatusStyle(t.Status).Render(assess.StatusLabel(t.Status)),
			t.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	_, err = fmt.Fprintln(c.Root().Writer, styles.Table([]string{"ID", "NAME", "ORGANIZATION", "TEMPLATE", "STATUS", "UPDATED"}, rows))
	return err
}

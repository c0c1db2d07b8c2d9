package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/styles"
)

type ShowCmd struct {
	flags *Flags
	app   *assess.App

	jsonOutput bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *assess.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show a task with its compliance summary",
		UsageText: "assess show <task-id> [--json]",
		Flags:     []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		Action:    cmd.run,
	})

	return app
}

type showOutput struct {
	Task   assessment.Task   `json:"task"`
	Result assessment.Result `json:"result"`
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	a, err := args(c, "task-id")
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	task, err := cmd.app.Tasks.Task(ctx, a[0])
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	result, err := cmd.app.Tasks.Result(ctx, task.ID)
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	if cmd.jsonOutput {
		return writeJSON(c, showOutput{Task: task, Result: result})
	}

	template := task.TemplateID
	if tpl, err := cmd.app.Tasks.Template(ctx, task.TemplateID); err == nil {
		template = fmt.Sprintf("%s (%s)", tpl.Name, tpl.ID)
	}

	out := c.Root().Writer
	_, _ = fmt.Fprintln(out, styles.HeaderStyle.Render(task.Name))
	printDetails(out, []detail{
		{"ID", task.ID},
		{"Organization", orDash(task.Organization)},
		{"Template", template},
		{"Status", styles.StatusStyle(task.Status).Render(assess.StatusLabel(task.Status))},
		{"Created", task.CreatedAt.Local().Format("2006-01-02 15:04")},
		{"Updated", task.UpdatedAt.Local().Format("2006-01-02 15:04")},
		{"Progress", fmt.Sprintf("%d/%d items rated", result.LevelDistribution.Total(), result.TotalItems)},
		{"Compliance", scoreBar(result.OverallCompliance)},
	})
	return nil
}

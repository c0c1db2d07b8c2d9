package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/pkg/iojson"
)

type NewCmd struct {
	flags *Flags
	app   *assess.App

	name         string
	organization string
	templateID   string
	jsonOutput   bool
	input        iojson.FileReader[assessment.TaskDraft]
}

// NewNewCmd creates a new new command
func NewNewCmd(flags *Flags, app *assess.App) *NewCmd {
	return &NewCmd{flags: flags, app: app}
}

// Register adds the new command to the application
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Create an assessment task",
		UsageText: "assess new --name NAME --template ID [--org ORG] | assess new -f draft.json",
		Description: `Creates a draft task and generates its checklist from the template.

The task can be described with flags or as a JSON document:

  {"name": "2026 review", "organization": "Acme", "template_id": "dsmm"}

passed with -f, or piped on stdin with -f -.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "task name",
				Destination: &cmd.name,
			},
			&cli.StringFlag{
				Name:        "org",
				Usage:       "organization being assessed",
				Destination: &cmd.organization,
			},
			&cli.StringFlag{
				Name:        "template",
				Aliases:     []string{"t"},
				Usage:       "template id (see 'assess templates')",
				Destination: &cmd.templateID,
			},
			cmd.input.Flag(),
			jsonFlag(&cmd.jsonOutput),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	draft := assessment.TaskDraft{
		Name:         cmd.name,
		Organization: cmd.organization,
		TemplateID:   cmd.templateID,
	}

	if cmd.input.Provided() {
		fromFile, err := cmd.input.Read()
		if err != nil {
			return fail(c, cmd.jsonOutput, err)
		}
		draft = mergeDraft(fromFile, draft)
	}

	task, err := cmd.app.Tasks.Create(ctx, draft)
	if err != nil {
		return fail(c, cmd.jsonOutput, err)
	}

	if cmd.jsonOutput {
		return writeJSON(c, task)
	}

	_, err = fmt.Fprintf(c.Root().Writer, "Created task %s (%s)\n", task.ID, task.TemplateID)
	return err
}

// mergeDraft overlays non-empty flag values onto a draft read from a file.
func mergeDraft(base, flags assessment.TaskDraft) assessment.TaskDraft {
	if flags.Name != "" {
		base.Name = flags.Name
	}
	if flags.Organization != "" {
		base.Organization = flags.Organization
	}
	if flags.TemplateID != "" {
		base.TemplateID = flags.TemplateID
	}
	return base
}

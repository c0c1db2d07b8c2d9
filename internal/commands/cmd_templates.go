package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/styles"
)

type TemplatesCmd struct {
	flags *Flags
	app   *assess.App

	jsonOutput bool
}

// NewTemplatesCmd creates a new templates command
func NewTemplatesCmd(flags *Flags, app *assess.App) *TemplatesCmd {
	return &TemplatesCmd{flags: flags, app: app}
}

// Register adds the templates command to the application
func (cmd *TemplatesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "templates",
		Usage:     "List assessment templates",
		UsageText: "assess templates [--json]",
		Description: `Lists the built-in assessment templates plus any configured under
"templates" or "template_files" in the config file.`,
		Flags:  []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		Action: cmd.run,
	})

	return app
}

func (cmd *TemplatesCmd) run(ctx context.Context, c *cli.Command) error {
	templates := cmd.app.Tasks.Templates(ctx)

	if cmd.jsonOutput {
		return writeJSON(c, templates)
	}

	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{
			t.ID,
			t.Name,
			orDash(t.Standard),
			strconv.Itoa(t.Dimensions),
			strconv.Itoa(t.Items),
		})
	}

	_, err := fmt.Fprintln(c.Root().Writer, styles.Table([]string{"ID", "NAME", "STANDARD", "DIMENSIONS", "ITEMS"}, rows))
	return err
}

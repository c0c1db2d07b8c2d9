package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
)

// Register adds every assess command to app. a is populated by the caller's
// Before hook; commands only dereference it when they run.
func Register(app *cli.Command, flags *Flags, a *assess.App) *cli.Command {
	app = NewTemplatesCmd(flags, a).Register(app)
	app = NewLsCmd(flags, a).Register(app)
	app = NewNewCmd(flags, a).Register(app)
	app = NewShowCmd(flags, a).Register(app)
	app = NewItemsCmd(flags, a).Register(app)
	app = NewRateCmd(flags, a).Register(app)
	app = NewStatusCmd(flags, a).Register(app)
	app = NewResultCmd(flags, a).Register(app)
	app = NewReportCmd(flags, a).Register(app)
	app = NewStatsCmd(flags, a).Register(app)
	app = NewRmCmd(flags, a).Register(app)
	app = NewServeCmd(flags, a).Register(app)
	app = NewConfigValidateCmd(flags).Register(app)
	return app
}

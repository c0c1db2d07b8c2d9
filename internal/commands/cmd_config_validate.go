package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/core/config"
	"github.com/colonyops/assess/internal/core/styles"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "assess config validate [options]",
				Description: "Validates the configuration file, checking backend settings, templates, and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	errs := fieldErrors(cfg.ValidateDeep(cmd.flags.ConfigPath))
	warnings := cfg.Warnings()

	if cmd.format == "json" {
		return cmd.outputJSON(c, errs, warnings)
	}
	return cmd.outputText(c, errs, warnings)
}

func (cmd *ConfigValidateCmd) outputJSON(c *cli.Command, errs []validationError, warnings []config.ValidationWarning) error {
	out := struct {
		Valid    bool                       `json:"valid"`
		Errors   []validationError          `json:"errors,omitempty"`
		Warnings []config.ValidationWarning `json:"warnings,omitempty"`
	}{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}

	if err := writeJSON(c, out); err != nil {
		return err
	}
	if !out.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *ConfigValidateCmd) outputText(c *cli.Command, errs []validationError, warnings []config.ValidationWarning) error {
	w := c.Root().Writer

	for _, warn := range warnings {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.WarningStyle.Render("!"), warn.Category, warn.Message)
		if warn.Item != "" {
			_, _ = fmt.Fprintf(w, "  Item: %s\n", warn.Item)
		}
	}

	for _, e := range errs {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.ErrorStyle.Render("✘"), e.Field, e.Message)
	}

	_, _ = fmt.Fprintln(w)
	if len(errs) == 0 {
		_, _ = fmt.Fprintln(w, styles.SuccessStyle.Render("✔ Configuration is valid"))
		return nil
	}

	_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(errs))))
	return cli.Exit("", 1)
}

// fieldErrors flattens criterio field errors into output rows.
func fieldErrors(err error) []validationError {
	if err == nil {
		return nil
	}

	var fe criterio.FieldErrors
	if !errors.As(err, &fe) {
		return []validationError{{Field: "config", Message: err.Error()}}
	}

	out := make([]validationError, 0, len(fe))
	for _, e := range fe {
		out = append(out, validationError{Field: e.Field, Message: e.Err.Error()})
	}
	return out
}

package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/server"
)

type ServeCmd struct {
	flags *Flags
	app   *assess.App

	addr   string
	prefix string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags, app *assess.App) *ServeCmd {
	return &ServeCmd{flags: flags, app: app}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve the assessment API over HTTP",
		UsageText: "assess serve [--addr :8080] [--prefix /api]",
		Description: `Starts the JSON HTTP API used by remote clients (backend.remote_url).
Tasks are stored in the locally configured backend.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides server.addr)",
				Sources:     cli.EnvVars("ASSESS_SERVER_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.StringFlag{
				Name:        "prefix",
				Usage:       "route prefix (overrides server.prefix)",
				Destination: &cmd.prefix,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.app.Config.Server
	if cmd.addr != "" {
		cfg.Addr = cmd.addr
	}
	if cmd.prefix != "" {
		cfg.Prefix = cmd.prefix
	}

	if cmd.app.Config.IsRemote() {
		log.Warn().Str("remote_url", cmd.app.Config.Backend.RemoteURL).
			Msg("serving a remote backend, requests will be proxied")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, cmd.app.Tasks)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

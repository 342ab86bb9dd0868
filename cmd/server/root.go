package main

import (
	"log/slog"
	"os"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/app"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/config"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/logging"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Learning progress tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", envOr("CONFIG_PATH", "config.yaml"),
		"path to the YAML config file; environment variables override it")

	serve := newServeCommand(opts)
	// Running the binary without a subcommand starts the server.
	cmd.RunE = serve.RunE
	cmd.AddCommand(serve, newRollupCommand(opts))
	return cmd
}

// open loads config and wires the application.
func (o *rootOptions) open() (*app.App, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	log := logging.New(os.Stderr, cfg.LogLevel)

	a, err := app.Open(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return a, log, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

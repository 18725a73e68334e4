package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/sheetbill/internal/batch"
	"github.com/cleared-dev/sheetbill/internal/batchlog"
	"github.com/cleared-dev/sheetbill/internal/buildinfo"
	"github.com/cleared-dev/sheetbill/internal/metrics"
	"github.com/cleared-dev/sheetbill/internal/render"
	"github.com/cleared-dev/sheetbill/internal/web"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the spreadsheet upload form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("loading %s: %w", envFile, err)
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			log := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil))
			m := metrics.NewRegistry()
			runner := &batch.Runner{
				Renderer: render.New(cfg),
				Workers:  cfg.Workers,
				Observer: m,
				Log:      batchlog.Open(cfg.LogFile),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("starting", "version", buildinfo.String(), "output_folder", cfg.OutputFolder)
			return web.New(cfg, runner, m, log).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "environment file loaded before the config")

	return cmd
}

package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/bucketdesk/app/filemanager"
	"github.com/dmitrymomot/bucketdesk/core/config"
	"github.com/dmitrymomot/bucketdesk/core/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	var cfg filemanager.Config
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := filemanager.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(app.Logger())

	app.Logger().InfoContext(ctx, "starting bucketdesk",
		slog.String("version", version),
		slog.String("addr", cfg.Server.Addr),
		slog.String("bucket", cfg.S3.Bucket),
		slog.Bool("static", !cfg.DisableStatic),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(app.Run(ctx))

	if err := g.Wait(); err != nil {
		app.Logger().Error("server stopped", logger.Error(err))
		return err
	}
	return nil
}

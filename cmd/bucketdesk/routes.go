package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/bucketdesk/app/filemanager"
	"github.com/dmitrymomot/bucketdesk/core/config"
	"github.com/dmitrymomot/bucketdesk/core/storage"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the registered API routes",
	RunE:  runRoutes,
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	var cfg filemanager.Config
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Listing routes never touches the bucket or checks credentials.
	if cfg.APIToken == "" {
		cfg.APIToken = "unused"
	}
	cfg.LogLevel = "error"

	app, err := filemanager.NewApp(cmd.Context(), cfg, filemanager.WithBucket(storage.NewMemoryBucket()))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATTERN")
	for _, r := range app.Routes() {
		fmt.Fprintf(tw, "%s\t%s\n", r.Method, r.Pattern)
	}
	return tw.Flush()
}

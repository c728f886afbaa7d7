// Command bucketdesk serves the bucket file manager.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "bucketdesk",
	Version: version,
	Short:   "Web file manager for an S3-compatible bucket",
	Long: `bucketdesk serves a token-protected JSON API for browsing, uploading and
deleting objects in an S3-compatible bucket, plus the static UI that drives it.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

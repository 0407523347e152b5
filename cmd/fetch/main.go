// Command fetch downloads the climate insights dataset from Kaggle and
// unpacks it into the data directory the dashboard reads from.
//
// Usage:
//
//	go run ./cmd/fetch --dataset goyaladi/climate-insights-dataset --dir data
//
// Credentials come from KAGGLE_USERNAME/KAGGLE_KEY or ~/.kaggle/kaggle.json.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/climate-insights-dashboard/internal/adapter/kaggle"
	"github.com/couchcryptid/climate-insights-dashboard/internal/config"
	"github.com/couchcryptid/climate-insights-dashboard/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataset, dir string

	cmd := &cobra.Command{
		Use:          "fetch",
		Short:        "Download the climate dataset from Kaggle",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dataset") {
				dataset = cfg.KaggleDataset
			}
			if !cmd.Flags().Changed("dir") {
				dir = cfg.DataDir
			}
			logger := observability.NewLogger(cfg)

			creds, err := kaggle.LoadCredentials(cfg.KaggleUsername, cfg.KaggleKey)
			if err != nil {
				return err
			}
			client := kaggle.NewClient(creds, cfg.KaggleBaseURL, cfg.KaggleTimeout, logger)
			files, err := client.Download(cmd.Context(), dataset, dir)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "Kaggle dataset as owner/slug (default $KAGGLE_DATASET)")
	cmd.Flags().StringVar(&dir, "dir", "", "directory to extract into (default $DATA_DIR)")
	return cmd
}

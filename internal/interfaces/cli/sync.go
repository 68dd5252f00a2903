package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/feeds/govinfo"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

// SyncRunner mirrors the remote bulk data tree.  Satisfied by
// govinfo.Syncer.
type SyncRunner interface {
	Sync(ctx context.Context, congress int) (*govinfo.SyncResult, error)
}

// NewSyncCmd creates the sync subcommand.
func NewSyncCmd(syncer SyncRunner, opts *RootOptions, log logging.Logger) *cobra.Command {
	var congress int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the govinfo bulk data tree for a congress",
		Long:  "Discovers the remote bulk XML tree, downloads new or changed files,\nexplodes zip bundles, and records a manifest so unchanged files are\nskipped on the next run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if syncer == nil {
				return fmt.Errorf("sync service not configured")
			}

			log.Info("starting sync", logging.Int("congress", congress))

			result, err := syncer.Sync(cmd.Context(), congress)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), opts.OutputFormat, result, func(w io.Writer) {
				fmt.Fprintf(w, "Congress:    %d\n", result.Congress)
				fmt.Fprintf(w, "Discovered:  %d\n", result.Discovered)
				fmt.Fprintf(w, "Downloaded:  %d\n", result.Downloaded)
				fmt.Fprintf(w, "Skipped:     %d\n", result.Skipped)
				fmt.Fprintf(w, "Failed:      %d\n", result.Failed)
				fmt.Fprintf(w, "Destination: %s\n", result.DestDir)
			})
		},
	}

	cmd.Flags().IntVar(&congress, "congress", 119, "congress number to mirror")

	return cmd
}

//Personal.AI order the ending

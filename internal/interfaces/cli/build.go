package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Doommen3/congress-bill-stats/internal/application/stats"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

// BuildRunner runs one stats build.  Satisfied by stats.RefreshTracker.
type BuildRunner interface {
	Run(ctx context.Context, session int, incremental bool) (*stats.Report, error)
}

// NewBuildCmd creates the build subcommand.
func NewBuildCmd(builder BuildRunner, opts *RootOptions, log logging.Logger) *cobra.Command {
	var (
		session int
		full    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build sponsorship statistics for a session",
		Long:  "Fetches roster and bill data, resolves sponsorships, and builds the\nper-legislator statistics report.  By default the build is incremental:\nalready stored bills are merged rather than re-fetched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if builder == nil {
				return fmt.Errorf("build service not configured")
			}

			log.Info("starting build",
				logging.Int("session", session), logging.Bool("full", full))

			report, err := builder.Run(cmd.Context(), session, !full)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), opts.OutputFormat, report, func(w io.Writer) {
				fmt.Fprintf(w, "Session:      %d (%s)\n", report.Session, report.Years)
				fmt.Fprintf(w, "Legislators:  %d\n", report.Summary.TotalLegislators)
				fmt.Fprintf(w, "Bills:        %d\n", report.Summary.TotalBills)
				fmt.Fprintf(w, "Laws:         %d\n", report.Summary.TotalLaws)
				fmt.Fprintf(w, "Unmatched:    %d\n", report.UnmatchedSponsors)
			})
		},
	}

	cmd.Flags().IntVarP(&session, "session", "s", 104, "GA session to build")
	cmd.Flags().BoolVar(&full, "full", false, "rebuild from scratch instead of merging stored bills")

	return cmd
}

//Personal.AI order the ending

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Doommen3/congress-bill-stats/internal/application/stats"
)

// SessionLister enumerates the selectable sessions.
type SessionLister func() []stats.SessionInfo

// NewSessionsCmd creates the sessions subcommand.
func NewSessionsCmd(sessions SessionLister, opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List the selectable GA sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessions == nil {
				sessions = func() []stats.SessionInfo { return stats.KnownSessions(0) }
			}
			list := sessions()
			return printResult(cmd.OutOrStdout(), opts.OutputFormat, list, func(w io.Writer) {
				for _, s := range list {
					marker := " "
					if s.Default {
						marker = "*"
					}
					fmt.Fprintf(w, "%s %d  %s\n", marker, s.Session, s.Years)
				}
			})
		},
	}
}

//Personal.AI order the ending

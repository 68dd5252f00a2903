// Package cli defines the billstats command tree.  Dependencies are
// constructed in cmd/billstats and injected here, so every command stays
// testable with fakes.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	ConfigPath   string
	OutputFormat string
	Verbose      bool
}

// Dependencies aggregates the services the subcommands run against.
type Dependencies struct {
	Builder  BuildRunner
	Syncer   SyncRunner
	Serve    ServeFunc
	Sessions SessionLister
	Logger   logging.Logger
}

// NewRootCommand creates the root command with global flags and all
// subcommands registered.
func NewRootCommand(deps Dependencies) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "billstats",
		Short:   "Legislative sponsorship statistics toolkit",
		Long:    "billstats builds per-legislator sponsorship and enactment statistics\nfrom legislative feeds, serves them over HTTP, and mirrors the raw\nbulk data for archival.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./billstats.yaml)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")

	log := deps.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	cmd.AddCommand(
		NewBuildCmd(deps.Builder, opts, log),
		NewSyncCmd(deps.Syncer, opts, log),
		NewServeCmd(deps.Serve, log),
		NewSessionsCmd(deps.Sessions, opts),
	)

	return cmd
}

// printResult renders v as indented JSON when --output=json, otherwise via
// the provided text renderer.
func printResult(w io.Writer, format string, v interface{}, text func(io.Writer)) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

//Personal.AI order the ending

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

// ServeFunc runs the API server until the context is canceled.  The wiring
// lives in cmd/billstats so the command stays testable.
type ServeFunc func(ctx context.Context) error

// NewServeCmd creates the serve subcommand.
func NewServeCmd(serve ServeFunc, log logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the statistics API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serve == nil {
				return fmt.Errorf("serve not configured")
			}
			log.Info("starting api server")
			return serve(cmd.Context())
		},
	}
}

//Personal.AI order the ending

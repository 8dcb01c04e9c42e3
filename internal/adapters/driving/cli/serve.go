package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var noScheduler bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and scheduler",
	Long: `Starts the HTTP server that handles Google sign-in and manual syncs.
The recurring fleet sync runs in the same process unless --no-scheduler
is given. Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "disable the recurring fleet sync")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveFunc == nil {
		return errors.New("server not configured")
	}
	return serveFunc(cmd.Context(), ServeOptions{Scheduler: !noScheduler})
}

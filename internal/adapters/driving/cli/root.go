// Package cli implements the contestcal command line.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driving"
	"github.com/custodia-labs/contest-reminder/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
)

// annotationNoServices marks commands that run without core services.
const annotationNoServices = "contestcal/no-services"

// ServeOptions configures the serve command.
type ServeOptions struct {
	// Scheduler runs the recurring fleet sync alongside the HTTP server.
	Scheduler bool
}

// ServeFunc runs the HTTP server until ctx is cancelled.
type ServeFunc func(ctx context.Context, opts ServeOptions) error

// EnrollOptions configures the terminal consent flow.
type EnrollOptions struct {
	// Port for the loopback callback server. 0 picks a free port.
	Port int

	// OpenBrowser launches the system browser at the consent URL.
	OpenBrowser bool

	// Out receives the consent URL.
	Out io.Writer
}

// EnrollFunc runs consent from the terminal and stores the user.
type EnrollFunc func(ctx context.Context, opts EnrollOptions) (domain.UserProfile, error)

// Services holds the core services commands call.
type Services struct {
	UserSyncer    driving.UserSyncer
	FleetSyncer   driving.FleetSyncer
	ContestLister driving.ContestLister
	UserDirectory driving.UserDirectory
	Serve         ServeFunc
	Enroll        EnrollFunc
}

// Bootstrap builds services once flags are parsed. The returned cleanup
// releases held resources and may be nil.
type Bootstrap func(ctx context.Context, configDir string) (*Services, func(), error)

var (
	userSyncer    driving.UserSyncer
	fleetSyncer   driving.FleetSyncer
	contestLister driving.ContestLister
	userDirectory driving.UserDirectory
	serveFunc     ServeFunc
	enrollFunc    EnrollFunc

	bootstrap Bootstrap
	cleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "contestcal",
	Short: "Sync programming contest reminders into Google Calendar",
	Long: `contestcal collects upcoming contests from LeetCode, CodeChef, Codeforces
and MentorPick and adds a reminder event one hour before each one to the
Google Calendar of every user who has granted consent.

Run "contestcal serve" for the consent flow and scheduled syncs, or
"contestcal sync --all" from cron for a one-shot batch.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "configuration directory (default ~/.contestcal)")
}

// SetServices installs services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	userSyncer = s.UserSyncer
	fleetSyncer = s.FleetSyncer
	contestLister = s.ContestLister
	userDirectory = s.UserDirectory
	serveFunc = s.Serve
	enrollFunc = s.Enroll
}

// SetBootstrap registers the function that builds services before a
// command runs.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationNoServices] == "true" || bootstrap == nil {
		return nil
	}

	services, release, err := bootstrap(cmd.Context(), configDir)
	if err != nil {
		return err
	}
	if services == nil {
		return errors.New("bootstrap returned no services")
	}
	SetServices(services)
	cleanup = release
	return nil
}

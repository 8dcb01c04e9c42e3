package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

var syncAll bool

var syncCmd = &cobra.Command{
	Use:   "sync [user-id]",
	Short: "Synchronise contest reminders to Google Calendar",
	Long: `Fetches upcoming contests and adds any missing reminder events to a
user's Google Calendar.

Pass a user ID to synchronise one user, or --all to synchronise every user
with stored credentials. A JSON summary is written to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "synchronise every user with a refresh token")
	rootCmd.AddCommand(syncCmd)
}

// userSyncJSON is the single-user summary.
type userSyncJSON struct {
	Message              string        `json:"message"`
	UserID               string        `json:"user_id"`
	NewContestsAdded     int           `json:"new_contests_added"`
	TotalContestsChecked int           `json:"total_contests_checked"`
	NewContests          []contestJSON `json:"new_contests"`
}

// fleetSyncJSON is the batch summary.
type fleetSyncJSON struct {
	UsersProcessed int               `json:"users_processed"`
	Succeeded      int               `json:"succeeded"`
	Failed         int               `json:"failed"`
	EventsAdded    int               `json:"events_added"`
	Failures       map[string]string `json:"failures"`
}

type contestJSON struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Start    string `json:"start"`
}

func runSync(cmd *cobra.Command, args []string) error {
	switch {
	case syncAll && len(args) > 0:
		return &usageError{msg: "pass either a user ID or --all, not both"}
	case !syncAll && len(args) == 0:
		return &usageError{msg: "a user ID or --all is required"}
	}

	if syncAll {
		return runFleetSync(cmd)
	}

	if userSyncer == nil {
		return errors.New("sync service not configured")
	}

	userID := args[0]
	outcome, err := userSyncer.SyncUser(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("sync failed for %s: %w", userID, err)
	}

	return writeJSON(cmd.OutOrStdout(), userSyncJSON{
		Message:              outcome.Message(),
		UserID:               userID,
		NewContestsAdded:     outcome.EventsAdded,
		TotalContestsChecked: outcome.ContestsChecked,
		NewContests:          toContestJSON(outcome.AddedContests),
	})
}

func runFleetSync(cmd *cobra.Command) error {
	if fleetSyncer == nil {
		return errors.New("fleet sync service not configured")
	}

	summary, err := fleetSyncer.SyncAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	failures := summary.Failures
	if failures == nil {
		failures = map[string]string{}
	}
	return writeJSON(cmd.OutOrStdout(), fleetSyncJSON{
		UsersProcessed: summary.UsersProcessed,
		Succeeded:      summary.Succeeded,
		Failed:         summary.Failed,
		EventsAdded:    summary.EventsAdded,
		Failures:       failures,
	})
}

func toContestJSON(records []domain.ContestRecord) []contestJSON {
	out := make([]contestJSON, 0, len(records))
	for _, c := range records {
		out = append(out, contestJSON{
			Platform: string(c.Platform),
			Title:    c.Title,
			URL:      c.URL,
			Start:    c.Start.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

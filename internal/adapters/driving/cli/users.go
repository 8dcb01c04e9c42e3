package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

var (
	usersJSON    bool
	addPort      int
	addNoBrowser bool
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage stored users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored users",
	Long: `Lists every user who has completed the consent flow, whether a refresh
token is held for them, and when they were last synchronised.`,
	Args: cobra.NoArgs,
	RunE: runUsersList,
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Enrol a user through Google sign-in",
	Long: `Starts a local callback server, prints the Google consent URL and stores
the user's refresh token once they approve calendar access.

The OAuth client must allow http://localhost:<port>/auth/google/callback
as a redirect URI.`,
	Args: cobra.NoArgs,
	RunE: runUsersAdd,
}

func init() {
	usersListCmd.Flags().BoolVar(&usersJSON, "json", false, "print JSON instead of a table")
	usersAddCmd.Flags().IntVar(&addPort, "port", 0, "loopback callback port (default: any free port)")
	usersAddCmd.Flags().BoolVar(&addNoBrowser, "no-browser", false, "print the consent URL without opening a browser")
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersAddCmd)
	rootCmd.AddCommand(usersCmd)
}

type userJSON struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name,omitempty"`
	Authenticated bool       `json:"authenticated"`
	LastSyncedAt  *time.Time `json:"last_synced_at"`
}

func runUsersList(cmd *cobra.Command, _ []string) error {
	if userDirectory == nil {
		return errors.New("user service not configured")
	}

	users, err := userDirectory.ListUsers(cmd.Context())
	if err != nil {
		return err
	}

	if usersJSON {
		out := make([]userJSON, 0, len(users))
		for i := range users {
			u := &users[i]
			out = append(out, userJSON{
				ID:            u.UserID,
				Email:         u.Email,
				Name:          u.DisplayName,
				Authenticated: u.HasRefreshToken(),
				LastSyncedAt:  u.LastSyncedAt,
			})
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	if len(users) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tAUTHENTICATED\tLAST SYNCED")
	for i := range users {
		u := &users[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.UserID, u.Email, yesNo(u.HasRefreshToken()), lastSynced(u))
	}
	return tw.Flush()
}

func runUsersAdd(cmd *cobra.Command, _ []string) error {
	if enrollFunc == nil {
		return errors.New("enrolment not configured")
	}

	profile, err := enrollFunc(cmd.Context(), EnrollOptions{
		Port:        addPort,
		OpenBrowser: !addNoBrowser,
		Out:         cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("enrolment failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Enrolled %s (%s).\n", profile.Email, profile.ID)
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func lastSynced(u *domain.UserCredential) string {
	if u.LastSyncedAt == nil {
		return "never"
	}
	return u.LastSyncedAt.UTC().Format(time.RFC3339)
}

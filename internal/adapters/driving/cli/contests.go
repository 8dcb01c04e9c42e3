package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

var contestsJSON bool

var contestsCmd = &cobra.Command{
	Use:   "contests",
	Short: "Preview upcoming contests",
	Long: `Fetches upcoming contests from every configured platform and prints the
merged list in start order. No calendar is read or written.`,
	Args: cobra.NoArgs,
	RunE: runContests,
}

func init() {
	contestsCmd.Flags().BoolVar(&contestsJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(contestsCmd)
}

type sourceJSON struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
	Error    string `json:"error,omitempty"`
}

type contestsOutput struct {
	Contests []contestJSON `json:"contests"`
	Sources  []sourceJSON  `json:"sources"`
}

func runContests(cmd *cobra.Command, _ []string) error {
	if contestLister == nil {
		return errors.New("contest service not configured")
	}

	records, results := contestLister.UpcomingContests(cmd.Context())

	if contestsJSON {
		out := contestsOutput{
			Contests: toContestJSON(records),
			Sources:  make([]sourceJSON, 0, len(results)),
		}
		for _, res := range results {
			src := sourceJSON{Platform: string(res.Platform), Count: len(res.Contests)}
			if res.Err != nil {
				src.Error = res.Err.Error()
			}
			out.Sources = append(out.Sources, src)
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		if res.OK() {
			fmt.Fprintf(out, "%-11s %d upcoming\n", res.Platform, len(res.Contests))
		} else {
			fmt.Fprintf(out, "%-11s unavailable (%s)\n", res.Platform, domain.ErrorKind(res.Err))
		}
	}
	fmt.Fprintln(out)

	if len(records) == 0 {
		fmt.Fprintln(out, "No upcoming contests.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "START (UTC)\tPLATFORM\tTITLE\tURL")
	for _, c := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Start.UTC().Format(time.DateTime), c.Platform, c.Title, c.URL)
	}
	return tw.Flush()
}

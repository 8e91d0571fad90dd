package engine

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/healthsched/adapter/cli"
)

var reportLimit int

// ReportCmd lists recent runs from run history with their headline
// statistics, without touching the schedule/failure JSON artifacts on disk.
var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "List recent scheduling runs and their statistics",
	Long: `report reads run history and prints a summary of recent runs:
start date, horizon length, total slots booked, busiest day, and failed
placement count.`,
	Aliases: []string{"history"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("report: no application context configured")
		}
		if app.RunRepo == nil {
			return fmt.Errorf("report: no run history backend configured")
		}

		limit := reportLimit
		if limit <= 0 {
			limit = 10
		}

		ctx := cmd.Context()
		runs, err := app.RunRepo.ListRecent(ctx, limit)
		if err != nil {
			return fmt.Errorf("list recent runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		fmt.Printf("Recent runs (%d):\n", len(runs))
		fmt.Println(strings.Repeat("-", 60))

		for _, r := range runs {
			fmt.Printf("%s  start=%s  horizon=%dd\n", r.ID.String()[:8], r.StartDate.Format(), r.DurationDays)
			fmt.Printf("   slots=%d  busiest=%s(%d)  failed=%d\n",
				r.Stats.TotalSlots, r.Stats.BusiestDay.Format(), r.Stats.BusiestDayCount, r.Stats.FailedCount)
			if len(r.FailedActivityIDs) > 0 {
				fmt.Printf("   failed activities: %s\n", strings.Join(r.FailedActivityIDs, ", "))
			}
			fmt.Printf("   ran at %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Println()
		}

		return nil
	},
}

func init() {
	ReportCmd.Flags().IntVarP(&reportLimit, "limit", "n", 10, "max number of runs to show")
}

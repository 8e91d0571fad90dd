package engine

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/healthsched/adapter/cli"
	"github.com/felixgeelhaar/healthsched/pkg/observability"
)

// HealthCmd runs the registered component health checks (run history, and
// the result cache when configured) and reports their status. The event
// publisher has no health check.
var HealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the run history and result cache backends",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("health: no application context configured")
		}
		if app.Health == nil {
			fmt.Println("No health checks registered (running with no external backends).")
			return nil
		}

		results := app.Health.Check(cmd.Context())
		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		sort.Strings(names)

		unhealthy := false
		for _, name := range names {
			r := results[name]
			fmt.Printf("%-12s %-10s %s\n", name, r.Status, r.Message)
			if r.Status == observability.HealthStatusUnhealthy {
				unhealthy = true
			}
		}

		if unhealthy {
			return fmt.Errorf("one or more components are unhealthy")
		}
		return nil
	},
}

package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/healthsched/adapter/cli"
	"github.com/felixgeelhaar/healthsched/internal/scheduling/infrastructure/jsonio"
)

// ValidateCmd loads the configured input files and reports every validation
// error across all four entity sets without running the scheduler.
var ValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate activities, specialists, equipment, and travel input files",
	Long: `validate loads each configured input file and runs the same
construction-time validation the engine would, reporting every malformed
record instead of stopping at the first one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("validate: no application context configured")
		}
		cfg := app.Config

		failed := false

		if _, err := jsonio.LoadActivities(cfg.ActivitiesPath); err != nil {
			failed = true
			reportLoadErrors(cfg.ActivitiesPath, err)
		}
		if _, err := jsonio.LoadSpecialists(cfg.SpecialistsPath); err != nil {
			failed = true
			reportLoadErrors(cfg.SpecialistsPath, err)
		}
		if _, err := jsonio.LoadEquipment(cfg.EquipmentPath); err != nil {
			failed = true
			reportLoadErrors(cfg.EquipmentPath, err)
		}
		if _, err := jsonio.LoadTravel(cfg.TravelPath); err != nil {
			failed = true
			reportLoadErrors(cfg.TravelPath, err)
		}

		if _, err := jsonio.LoadMetadata(cfg.MetadataPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Printf("%s: %s (informational only, does not fail validation)\n", cfg.MetadataPath, err.Error())
		}

		if failed {
			return fmt.Errorf("validation failed")
		}
		fmt.Println("All input files are valid.")
		return nil
	},
}

func reportLoadErrors(path string, err error) {
	var loadErrs *jsonio.LoadErrors
	if errors.As(err, &loadErrs) {
		for _, recordErr := range loadErrs.Errors {
			fmt.Printf("%s: %s\n", path, recordErr.Error())
		}
		return
	}
	fmt.Printf("%s: %s\n", path, err.Error())
}

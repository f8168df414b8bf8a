package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/certificateflow/internal/models"
	"github.com/Lllllllleong/certificateflow/internal/roster"
	"github.com/Lllllllleong/certificateflow/internal/services"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List the locations in a roster",
	Args:  cobra.NoArgs,
	RunE:  runLocations,
}

var locationsRoster string

func init() {
	locationsCmd.Flags().StringVarP(&locationsRoster, "roster", "r", "", "Registration CSV file")
	_ = locationsCmd.MarkFlagRequired("roster")

	rootCmd.AddCommand(locationsCmd)
}

// runLocations only parses the roster, so it needs neither font nor template.
func runLocations(cmd *cobra.Command, _ []string) error {
	rosterFile, err := os.Open(locationsRoster)
	if err != nil {
		return fmt.Errorf("failed to open roster: %w", err)
	}
	defer rosterFile.Close()

	profile, err := services.LoadProfile(config.ProfilePath)
	if err != nil {
		return err
	}
	rows, err := roster.Read(rosterFile, profile.Columns, config.RosterEncoding)
	if err != nil {
		return err
	}

	locations := roster.Locations(rows)
	if len(locations) == 0 {
		cmd.Println("No locations found.")
		return nil
	}
	printLocations(cmd, locations)
	return nil
}

func printLocations(cmd *cobra.Command, locations []models.LocationSummary) {
	for _, l := range locations {
		cmd.Printf("  %s\n", l.Location)
		cmd.Printf("    Registrants: %d, with dharma name: %d\n", l.Total, l.Qualifying)
	}
	cmd.Printf("Total: %d locations\n", len(locations))
}

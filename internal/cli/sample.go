package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stationsim/station-cli/internal/schedule"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the built-in sample schedule",
	Long: `Prints the built-in sample schedule as CSV. Pipe it to a file to use
as a starting point, or run it directly with 'station run --sample'.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(schedule.Sample)
	},
}

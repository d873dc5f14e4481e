package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stationsim/station-cli/internal/schedule"
	"github.com/stationsim/station-cli/internal/timeutil"
)

var validateCmd = &cobra.Command{
	Use:   "validate <schedule.csv>",
	Short: "Validate a schedule file",
	Long: `Parses a CSV schedule file and reports which rows are accepted and
which are dropped, without running a simulation.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	trains, rejections, err := schedule.LoadFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Accepted %d train(s):\n\n", len(trains))
	fmt.Printf("  %-10s %-10s %-10s %s\n", "TRAIN", "ARRIVAL", "DEPARTURE", "PRIORITY")
	for _, train := range trains {
		fmt.Printf("  %-10s %-10s %-10s %s\n",
			train.TrainNumber,
			timeutil.Format12Hour(train.ScheduledArrival),
			timeutil.Format12Hour(train.ScheduledDeparture),
			train.Priority)
	}

	if len(rejections) > 0 {
		fmt.Printf("\nDropped %d row(s):\n\n", len(rejections))
		for _, r := range rejections {
			fmt.Printf("  line %-4d %s  (%s)\n", r.Line, r.Row, r.Reason)
		}
	}
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "station",
	Short: "Station CLI - railway station platform simulator",
	Long: `Station CLI simulates a small railway station: a fixed set of
platforms, a schedule of trains with priorities, and a minute-stepped
simulated clock.

Each tick the engine frees platforms whose trains have departed and assigns
waiting trains to free platforms by priority. Snapshots of the station are
broadcast over WebSocket and UDP and exposed through an HTTP control API.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(versionCmd)
}

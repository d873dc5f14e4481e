package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stationsim/station-cli/internal/models"
	"github.com/stationsim/station-cli/internal/recorder"
)

var (
	replaySpeed int
	replayLoop  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <recording.ndjson>",
	Short: "Replay a recorded simulation",
	Long:  `Plays back an NDJSON snapshot recording produced by 'station run --record'.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&replaySpeed, "speed", 60, "Playback speed selector")
	replayCmd.Flags().BoolVar(&replayLoop, "loop", false, "Loop the recording")
}

func runReplay(cmd *cobra.Command, args []string) error {
	replayer := recorder.NewReplayer(args[0], replaySpeed, replayLoop)

	count, err := replayer.Count()
	if err != nil {
		return err
	}
	fmt.Printf("▶️  Replaying %d snapshot(s) from %s\n\n", count, args[0])

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err = replayer.Replay(ctx, func(snapshot models.Snapshot) error {
		fmt.Println(statusLine(snapshot))
		return nil
	})
	if err == context.Canceled {
		return nil
	}
	return err
}

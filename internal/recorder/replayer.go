package recorder

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/stationsim/station-cli/internal/models"
	"github.com/stationsim/station-cli/internal/sim"
)

// Replayer reads a recorded NDJSON snapshot stream and plays it back at a
// chosen speed multiplier.
type Replayer struct {
	filename string
	speed    int
	loop     bool
}

// NewReplayer creates a replayer for the given recording.
func NewReplayer(filename string, speed int, loop bool) *Replayer {
	return &Replayer{filename: filename, speed: speed, loop: loop}
}

// Count returns the number of snapshots in the recording.
func (r *Replayer) Count() (int, error) {
	file, err := os.Open(r.filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open recording file: %w", err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) > 0 {
			count++
		}
	}
	return count, scanner.Err()
}

// Replay decodes each snapshot and passes it to emit, pacing playback at one
// snapshot per tick interval for the configured speed. When loop is set the
// recording repeats until ctx is cancelled or emit fails.
func (r *Replayer) Replay(ctx context.Context, emit func(models.Snapshot) error) error {
	for {
		if err := r.replayOnce(ctx, emit); err != nil {
			return err
		}
		if !r.loop {
			return nil
		}
	}
}

func (r *Replayer) replayOnce(ctx context.Context, emit func(models.Snapshot) error) error {
	file, err := os.Open(r.filename)
	if err != nil {
		return fmt.Errorf("failed to open recording file: %w", err)
	}
	defer file.Close()

	interval := sim.TickInterval(r.speed)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var snapshot models.Snapshot
		if err := json.Unmarshal(line, &snapshot); err != nil {
			return fmt.Errorf("failed to decode snapshot: %w", err)
		}
		if err := emit(snapshot); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return scanner.Err()
}

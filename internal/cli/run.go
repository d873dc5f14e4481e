package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stationsim/station-cli/internal/config"
	"github.com/stationsim/station-cli/internal/models"
	"github.com/stationsim/station-cli/internal/recorder"
	"github.com/stationsim/station-cli/internal/report"
	"github.com/stationsim/station-cli/internal/schedule"
	"github.com/stationsim/station-cli/internal/server"
	"github.com/stationsim/station-cli/internal/sim"
	"github.com/stationsim/station-cli/internal/transport"
)

var (
	runConfigPath   string
	runSchedule     string
	runUseSample    bool
	runPlatforms    int
	runSpeed        int
	runStartTime    string
	runDwellTicks   int
	runHost         string
	runPort         int
	runNoServe      bool
	runRecord       string
	runReport       string
	runReportFormat string
	runDuration     int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the station simulation",
	Long: `Loads a train schedule, starts the simulated clock, and serves live
snapshots over HTTP, WebSocket, and UDP until interrupted (or until
--duration simulated minutes have elapsed).`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "YAML run configuration file")
	runCmd.Flags().StringVar(&runSchedule, "schedule", "", "CSV schedule file")
	runCmd.Flags().BoolVar(&runUseSample, "sample", false, "Use the built-in sample schedule")
	runCmd.Flags().IntVar(&runPlatforms, "platforms", 2, "Number of platforms (2-20)")
	runCmd.Flags().IntVar(&runSpeed, "speed", 60, "Speed selector: 30, 60, or 180")
	runCmd.Flags().StringVar(&runStartTime, "start", "", "Simulated start time HH:MM (default: wall clock)")
	runCmd.Flags().IntVar(&runDwellTicks, "dwell-ticks", sim.DefaultDwellTicks, "Arrival/departure dwell in ticks")
	runCmd.Flags().StringVar(&runHost, "host", "127.0.0.1", "Host to bind servers to")
	runCmd.Flags().IntVar(&runPort, "port", 8787, "Control API port (WebSocket uses port+1, UDP port+2, SSE port+3)")
	runCmd.Flags().BoolVar(&runNoServe, "no-serve", false, "Disable the network servers")
	runCmd.Flags().StringVar(&runRecord, "record", "", "Record snapshots to an NDJSON file")
	runCmd.Flags().StringVar(&runReport, "report", "", "Write the final train report to a file")
	runCmd.Flags().StringVar(&runReportFormat, "report-format", "json", "Report format: json, ndjson, or csv")
	runCmd.Flags().IntVar(&runDuration, "duration", 0, "Stop after N simulated minutes (0 = run until interrupted)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	// Load the schedule.
	var trains []models.Train
	var rejections []schedule.Rejection
	switch {
	case runUseSample:
		trains, rejections = schedule.Parse(schedule.Sample)
	case cfg.Schedule != "":
		trains, rejections, err = schedule.LoadFile(cfg.Schedule)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("no schedule given (use --schedule or --sample)")
	}
	printRejections(rejections)

	engine := sim.NewEngine(sim.Config{
		PlatformCount: cfg.Platforms,
		DwellTicks:    cfg.DwellTicks,
		Speed:         cfg.Speed,
		StartTime:     cfg.StartTime,
	})
	engine.LoadTrains(trains)

	snapshots := make(chan models.Snapshot, 100)
	engine.SetSink(snapshots)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	// Marshal snapshots once and fan the payloads out to every consumer.
	payloads := make(chan []byte, 100)
	go func() {
		defer close(payloads)
		for {
			select {
			case <-ctx.Done():
				return
			case snapshot, ok := <-snapshots:
				if !ok {
					return
				}
				data, err := json.Marshal(snapshot)
				if err != nil {
					log.Printf("failed to marshal snapshot: %v", err)
					continue
				}
				select {
				case payloads <- data:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	dispatcher := transport.NewDispatcher(payloads, 100)

	fmt.Printf("🚉 Station Simulator Started\n\n")
	fmt.Printf("Run ID:       %s\n", engine.RunID())
	fmt.Printf("Trains:       %d loaded, %d rejected\n", len(trains), len(rejections))
	fmt.Printf("Platforms:    %d\n", cfg.Platforms)
	fmt.Printf("Speed:        %d\n", cfg.Speed)
	fmt.Printf("Start time:   %s\n", engine.CurrentTime())

	if !runNoServe && cfg.Network.Enabled {
		ctrl := server.NewServer(server.Config{Host: cfg.Network.Host, Port: cfg.Network.Port}, engine)
		ws := transport.NewWebSocketServer(cfg.Network.Host, cfg.Network.Port+1)
		udp := transport.NewUDPServer(cfg.Network.Host, cfg.Network.Port+2)
		sse := transport.NewSSEServer(cfg.Network.Host, cfg.Network.Port+3)

		go func() {
			if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
				log.Printf("control API error: %v", err)
			}
		}()
		go func() {
			if err := ws.Start(ctx); err != nil && err != context.Canceled {
				log.Printf("WS error: %v", err)
			}
		}()
		go func() {
			if err := udp.Start(ctx); err != nil && err != context.Canceled {
				log.Printf("UDP error: %v", err)
			}
		}()
		go func() {
			if err := sse.Start(ctx); err != nil && err != context.Canceled {
				log.Printf("SSE error: %v", err)
			}
		}()

		go func() { ws.BroadcastFromChannel(ctx, dispatcher.Subscribe()) }()
		go func() { udp.BroadcastFromChannel(ctx, dispatcher.Subscribe()) }()
		go func() { sse.BroadcastFromChannel(ctx, dispatcher.Subscribe()) }()

		fmt.Printf("Control API:  %s\n", ctrl.GetAddress())
		fmt.Printf("WebSocket:    %s\n", ws.GetAddress())
		fmt.Printf("UDP:          %s\n", udp.GetAddress())
		fmt.Printf("SSE:          %s\n", sse.GetAddress())
	}

	if cfg.Record != "" {
		rec, err := recorder.NewRecorder(cfg.Record)
		if err != nil {
			return err
		}
		go rec.RecordFromChannel(ctx, dispatcher.Subscribe())
		fmt.Printf("Recording:    %s\n", cfg.Record)
	}
	fmt.Println()

	// Console status consumer; also enforces --duration.
	statusFeed := dispatcher.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-statusFeed:
				if !ok {
					return
				}
				var snapshot models.Snapshot
				if err := json.Unmarshal(data, &snapshot); err != nil {
					continue
				}
				if snapshot.Sequence%int64(snapshot.Speed) == 0 {
					fmt.Println(statusLine(snapshot))
				}
				if runDuration > 0 && snapshot.Sequence >= int64(runDuration) {
					cancel()
					return
				}
			}
		}
	}()

	go dispatcher.Run(ctx)
	engine.Start()

	<-ctx.Done()
	engine.Stop()
	<-done

	return writeFinalReport(engine, cfg)
}

// buildRunConfig layers flags over the optional YAML file and validates the
// result. Flag values only override the file when the flag was set.
func buildRunConfig(cmd *cobra.Command) (config.RunConfig, error) {
	cfg := config.Default()
	if runConfigPath != "" {
		loaded, err := config.Load(runConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("schedule") {
		cfg.Schedule = runSchedule
	}
	if flags.Changed("platforms") {
		cfg.Platforms = runPlatforms
	}
	if flags.Changed("speed") {
		cfg.Speed = runSpeed
	}
	if flags.Changed("start") {
		cfg.StartTime = runStartTime
	}
	if flags.Changed("dwell-ticks") {
		cfg.DwellTicks = runDwellTicks
	}
	if flags.Changed("host") {
		cfg.Network.Host = runHost
	}
	if flags.Changed("port") {
		cfg.Network.Port = runPort
	}
	if flags.Changed("record") {
		cfg.Record = runRecord
	}
	if flags.Changed("report") {
		cfg.Report = runReport
	}
	if flags.Changed("report-format") {
		cfg.ReportFormat = runReportFormat
	}

	cfg.Platforms = clampPlatforms(cfg.Platforms)
	if !validSpeed(cfg.Speed) {
		return cfg, fmt.Errorf("invalid speed %d (must be one of 30, 60, 180)", cfg.Speed)
	}
	if !report.ValidFormat(cfg.ReportFormat) {
		return cfg, fmt.Errorf("invalid report format %q (must be json, ndjson, or csv)", cfg.ReportFormat)
	}
	return cfg, nil
}

func printRejections(rejections []schedule.Rejection) {
	for _, r := range rejections {
		fmt.Printf("⚠️  line %d dropped: %s (%s)\n", r.Line, r.Row, r.Reason)
	}
}

func writeFinalReport(engine *sim.Engine, cfg config.RunConfig) error {
	snapshot := engine.Snapshot()

	fmt.Printf("\nFinal state at %s: %d waiting, %d report rows\n",
		snapshot.CurrentTime, len(snapshot.Waiting), len(snapshot.Reports))

	if cfg.Report == "" {
		return nil
	}
	writer := report.NewFileWriter(cfg.Report, cfg.ReportFormat)
	if err := writer.Write(snapshot.Reports); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", cfg.Report)
	return writer.Close()
}

// Package report writes arrivals/departures reports to files or stdout in
// json, ndjson, or csv form.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/stationsim/station-cli/internal/models"
)

// Writer is the interface for report output writers.
type Writer interface {
	Write(reports []models.TrainReport) error
	Close() error
}

// StreamWriter writes reports to an io.Writer (typically stdout).
type StreamWriter struct {
	out    io.Writer
	format string // "json", "ndjson", or "csv"
	mu     sync.Mutex
}

// NewStreamWriter creates a writer targeting out.
func NewStreamWriter(out io.Writer, format string) *StreamWriter {
	return &StreamWriter{out: out, format: format}
}

// Write renders the report rows in the configured format.
func (w *StreamWriter) Write(reports []models.TrainReport) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return render(w.out, w.format, reports)
}

// Close is a no-op for stream writers.
func (w *StreamWriter) Close() error {
	return nil
}

// FileWriter writes reports to a single file, truncating on every write so
// the file always holds the latest full report.
type FileWriter struct {
	path   string
	format string
	mu     sync.Mutex
}

// NewFileWriter creates a file-backed report writer.
func NewFileWriter(path, format string) *FileWriter {
	return &FileWriter{path: path, format: format}
}

// Write replaces the file contents with the rendered report.
func (w *FileWriter) Write(reports []models.TrainReport) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	return render(file, w.format, reports)
}

// Close is a no-op for file writers.
func (w *FileWriter) Close() error {
	return nil
}

// MultiWriter writes to multiple destinations.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a writer that writes to all given destinations.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write writes to all underlying writers.
func (w *MultiWriter) Write(reports []models.TrainReport) error {
	for _, writer := range w.writers {
		if err := writer.Write(reports); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all underlying writers.
func (w *MultiWriter) Close() error {
	for _, writer := range w.writers {
		if err := writer.Close(); err != nil {
			return err
		}
	}
	return nil
}

// ValidFormat reports whether format names a supported report format.
func ValidFormat(format string) bool {
	switch format {
	case "json", "ndjson", "csv":
		return true
	}
	return false
}

func render(out io.Writer, format string, reports []models.TrainReport) error {
	switch format {
	case "ndjson":
		enc := json.NewEncoder(out)
		for _, report := range reports {
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("failed to marshal report row: %w", err)
			}
		}
		return nil

	case "csv":
		return renderCSV(out, reports)

	default:
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		data = append(data, '\n')
		_, err = out.Write(data)
		return err
	}
}

var csvHeader = []string{
	"train_number", "scheduled_arrival", "scheduled_departure", "priority",
	"actual_arrival", "actual_departure", "platform", "status", "delay_minutes",
}

func renderCSV(out io.Writer, reports []models.TrainReport) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range reports {
		platform := ""
		if r.Platform > 0 {
			platform = strconv.Itoa(r.Platform)
		}
		row := []string{
			r.TrainNumber, r.ScheduledArrival, r.ScheduledDeparture, string(r.Priority),
			r.ActualArrival, r.ActualDeparture, platform, string(r.Status),
			strconv.Itoa(r.DelayMinutes),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// Package schedule loads train schedules from CSV input.
//
// The format is one train per line:
//
//	trainNumber,scheduledArrival(HH:MM),scheduledDeparture(HH:MM),priority(P1|P2|P3)
//
// An optional header row is recognized when its first line contains the
// substring "Train Number". Rows that fail validation are dropped without
// failing the load; callers that want diagnostics can inspect the returned
// rejection list.
package schedule

import (
	"fmt"
	"os"
	"strings"

	"github.com/stationsim/station-cli/internal/models"
	"github.com/stationsim/station-cli/internal/timeutil"
)

// Rejection describes one dropped input row.
type Rejection struct {
	Line   int    `json:"line"` // 1-based line number in the input
	Row    string `json:"row"`  // the raw line as read
	Reason string `json:"reason"`
}

// Parse reads a CSV schedule and returns the accepted trains in input order
// plus a rejection entry for every dropped row. Parsing never fails: malformed
// rows reduce the result, they do not abort it.
func Parse(content string) ([]models.Train, []Rejection) {
	lines := strings.Split(strings.TrimSpace(content), "\n")

	start := 0
	if len(lines) > 0 && strings.Contains(lines[0], "Train Number") {
		start = 1
	}

	var trains []models.Train
	var rejections []Rejection

	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		train, reason := parseRow(line)
		if reason != "" {
			rejections = append(rejections, Rejection{Line: i + 1, Row: line, Reason: reason})
			continue
		}
		trains = append(trains, train)
	}

	return trains, rejections
}

// parseRow validates a single data row. It splits on bare commas with field
// trimming and tolerates trailing extra fields, matching the accepted input
// contract exactly; encoding/csv is deliberately not used because its quoting
// and uniform-field-count rules would change which rows are accepted.
func parseRow(line string) (models.Train, string) {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) < 4 {
		return models.Train{}, fmt.Sprintf("expected at least 4 fields, got %d", len(parts))
	}

	number, arrival, departure, priority := parts[0], parts[1], parts[2], parts[3]

	switch {
	case number == "":
		return models.Train{}, "missing train number"
	case !timeutil.IsValid(arrival):
		return models.Train{}, fmt.Sprintf("invalid arrival time %q", arrival)
	case !timeutil.IsValid(departure):
		return models.Train{}, fmt.Sprintf("invalid departure time %q", departure)
	case !models.IsValidPriority(priority):
		return models.Train{}, fmt.Sprintf("invalid priority %q", priority)
	}

	return models.Train{
		TrainNumber:        number,
		ScheduledArrival:   arrival,
		ScheduledDeparture: departure,
		Priority:           models.Priority(priority),
		Status:             models.StatusWaiting,
	}, ""
}

// LoadFile parses a schedule file from disk.
func LoadFile(path string) ([]models.Train, []Rejection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read schedule file: %w", err)
	}
	trains, rejections := Parse(string(data))
	return trains, rejections, nil
}

// Sample is a small built-in schedule for trying the simulator without a
// schedule file.
const Sample = `Train Number,Arrival Time,Departure Time,Priority
22001,10:05,10:10,P1
22002,10:15,10:25,P2
22003,10:20,10:30,P1
22004,10:25,10:40,P3
22005,10:35,10:50,P2`

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stationsim/station-cli/internal/models"
)

func sampleReports() []models.TrainReport {
	return []models.TrainReport{
		{
			Train: models.Train{
				TrainNumber:      "22001",
				ScheduledArrival: "10:05", ScheduledDeparture: "10:15",
				Priority:      models.PriorityP1,
				ActualArrival: "10:10", ActualDeparture: "10:20",
				Platform: 1,
				Status:   models.StatusDeparted,
			},
			DelayMinutes: 5,
		},
		{
			Train: models.Train{
				TrainNumber:      "22002",
				ScheduledArrival: "10:15", ScheduledDeparture: "10:25",
				Priority:      models.PriorityP2,
				ActualArrival: "10:15",
				Platform:      2,
				Status:        models.StatusAtPlatform,
			},
		},
	}
}

func TestStreamWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewStreamWriter(&buf, "json")

	if err := writer.Write(sampleReports()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var parsed []models.TrainReport
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\nOutput: %s", err, buf.String())
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(parsed))
	}
	if parsed[0].TrainNumber != "22001" || parsed[0].DelayMinutes != 5 {
		t.Errorf("unexpected first row: %+v", parsed[0])
	}
}

func TestStreamWriterNDJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewStreamWriter(&buf, "ndjson")

	if err := writer.Write(sampleReports()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var row models.TrainReport
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestStreamWriterCSV(t *testing.T) {
	var buf bytes.Buffer
	writer := NewStreamWriter(&buf, "csv")

	if err := writer.Write(sampleReports()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "train_number,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "22001") || !strings.Contains(lines[1], "departed") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
}

func TestFileWriterReplacesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	writer := NewFileWriter(path, "json")

	if err := writer.Write(sampleReports()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	// A second write holds the latest report only, not an append.
	if err := writer.Write(sampleReports()[:1]); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var parsed []models.TrainReport
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("file is not valid JSON: %v", err)
	}
	if len(parsed) != 1 {
		t.Errorf("expected file truncated to 1 row, got %d", len(parsed))
	}
}

func TestMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	writer := NewMultiWriter(NewStreamWriter(&a, "ndjson"), NewStreamWriter(&b, "csv"))

	if err := writer.Write(sampleReports()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("expected both destinations written")
	}
	if err := writer.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
}

func TestValidFormat(t *testing.T) {
	for _, valid := range []string{"json", "ndjson", "csv"} {
		if !ValidFormat(valid) {
			t.Errorf("expected %q valid", valid)
		}
	}
	for _, invalid := range []string{"", "xml", "JSON"} {
		if ValidFormat(invalid) {
			t.Errorf("expected %q invalid", invalid)
		}
	}
}

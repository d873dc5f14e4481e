package schedule

import (
	"strings"
	"testing"

	"github.com/stationsim/station-cli/internal/models"
)

func TestParseSample(t *testing.T) {
	trains, rejections := Parse(Sample)

	if len(rejections) != 0 {
		t.Fatalf("expected no rejections in sample, got %v", rejections)
	}
	if len(trains) != 5 {
		t.Fatalf("expected 5 trains, got %d", len(trains))
	}

	first := trains[0]
	if first.TrainNumber != "22001" {
		t.Errorf("expected train number 22001, got %s", first.TrainNumber)
	}
	if first.ScheduledArrival != "10:05" || first.ScheduledDeparture != "10:10" {
		t.Errorf("unexpected schedule: %s - %s", first.ScheduledArrival, first.ScheduledDeparture)
	}
	if first.Priority != models.PriorityP1 {
		t.Errorf("expected priority P1, got %s", first.Priority)
	}
	for _, train := range trains {
		if train.Status != models.StatusWaiting {
			t.Errorf("train %s: expected status waiting, got %s", train.TrainNumber, train.Status)
		}
	}
}

func TestParseWithoutHeader(t *testing.T) {
	trains, _ := Parse("101,09:00,09:15,P2\n102,09:30,09:45,P1")
	if len(trains) != 2 {
		t.Fatalf("expected 2 trains, got %d", len(trains))
	}
}

func TestParseRejectsInvalidRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"invalid arrival hour", "X,25:00,10:10,P1"},
		{"invalid departure", "X,10:00,10:61,P1"},
		{"too few fields", "X,10:00,10:10"},
		{"missing train number", ",10:00,10:10,P1"},
		{"bad priority", "X,10:00,10:10,P5"},
		{"lowercase priority", "X,10:00,10:10,p1"},
	}

	for _, test := range tests {
		trains, rejections := Parse(test.row)
		if len(trains) != 0 {
			t.Errorf("%s: expected row to be dropped, got %d trains", test.name, len(trains))
		}
		if len(rejections) != 1 {
			t.Errorf("%s: expected 1 rejection, got %d", test.name, len(rejections))
		}
	}
}

func TestParseMixedInput(t *testing.T) {
	content := `Train Number,Arrival,Departure,Priority
22001,10:05,10:10,P1

X,25:00,10:10,P1
22002,10:15,10:25,P2
garbage line`

	trains, rejections := Parse(content)

	if len(trains) != 2 {
		t.Fatalf("expected 2 accepted trains, got %d", len(trains))
	}
	if trains[0].TrainNumber != "22001" || trains[1].TrainNumber != "22002" {
		t.Errorf("unexpected accepted trains: %v", trains)
	}
	if len(rejections) != 2 {
		t.Fatalf("expected 2 rejections, got %d", len(rejections))
	}
	if rejections[0].Line != 4 {
		t.Errorf("expected first rejection on line 4, got %d", rejections[0].Line)
	}
	if !strings.Contains(rejections[0].Reason, "25:00") {
		t.Errorf("expected rejection reason to name the bad time, got %q", rejections[0].Reason)
	}
}

func TestParseExtraFieldsAccepted(t *testing.T) {
	// Rows with more than 4 fields are valid; extras are ignored.
	trains, rejections := Parse("22001,10:05,10:10,P1,express,note")
	if len(rejections) != 0 {
		t.Fatalf("expected no rejections, got %v", rejections)
	}
	if len(trains) != 1 {
		t.Fatalf("expected 1 train, got %d", len(trains))
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, _, err := LoadFile("does/not/exist.csv"); err == nil {
		t.Error("expected error for missing file")
	}
}

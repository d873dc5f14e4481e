package models

import "testing"

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusWaiting, StatusArriving, true},
		{StatusArriving, StatusAtPlatform, true},
		{StatusAtPlatform, StatusDeparting, true},
		{StatusDeparting, StatusDeparted, true},
		// Skips are rejected.
		{StatusWaiting, StatusAtPlatform, false},
		{StatusWaiting, StatusDeparted, false},
		{StatusArriving, StatusDeparting, false},
		// Reversals are rejected.
		{StatusArriving, StatusWaiting, false},
		{StatusDeparted, StatusDeparting, false},
		{StatusAtPlatform, StatusArriving, false},
		// Terminal state goes nowhere.
		{StatusDeparted, StatusWaiting, false},
		// Self-transitions are rejected.
		{StatusWaiting, StatusWaiting, false},
	}

	for _, test := range tests {
		if got := test.from.CanTransition(test.to); got != test.allowed {
			t.Errorf("CanTransition(%s -> %s): expected %v, got %v", test.from, test.to, test.allowed, got)
		}
	}
}

func TestStatusOnPlatform(t *testing.T) {
	onPlatform := []Status{StatusArriving, StatusAtPlatform, StatusDeparting}
	for _, s := range onPlatform {
		if !s.OnPlatform() {
			t.Errorf("expected %s to hold a platform", s)
		}
	}
	for _, s := range []Status{StatusWaiting, StatusDeparted} {
		if s.OnPlatform() {
			t.Errorf("expected %s to hold no platform", s)
		}
	}
}

func TestStatusReportable(t *testing.T) {
	// Arriving trains are excluded from the report until they settle.
	if StatusArriving.Reportable() {
		t.Error("arriving should not be reportable")
	}
	if StatusWaiting.Reportable() {
		t.Error("waiting should not be reportable")
	}
	for _, s := range []Status{StatusAtPlatform, StatusDeparting, StatusDeparted} {
		if !s.Reportable() {
			t.Errorf("expected %s to be reportable", s)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityP1.Rank() >= PriorityP2.Rank() || PriorityP2.Rank() >= PriorityP3.Rank() {
		t.Errorf("priority ranks out of order: P1=%d P2=%d P3=%d",
			PriorityP1.Rank(), PriorityP2.Rank(), PriorityP3.Rank())
	}
	if Priority("P9").Rank() <= PriorityP3.Rank() {
		t.Error("unknown priority should rank after P3")
	}
}

func TestIsValidPriority(t *testing.T) {
	for _, valid := range []string{"P1", "P2", "P3"} {
		if !IsValidPriority(valid) {
			t.Errorf("expected %q to be valid", valid)
		}
	}
	for _, invalid := range []string{"", "p1", "P4", "high"} {
		if IsValidPriority(invalid) {
			t.Errorf("expected %q to be invalid", invalid)
		}
	}
}

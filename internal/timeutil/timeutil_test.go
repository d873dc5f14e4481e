package timeutil

import "testing"

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"00:00", true},
		{"09:05", true},
		{"9:05", true},
		{"23:59", true},
		{"24:00", false},
		{"25:00", false},
		{"9:5", false},
		{"10:60", false},
		{"10-05", false},
		{"", false},
		{"banana", false},
	}

	for _, test := range tests {
		if got := IsValid(test.input); got != test.valid {
			t.Errorf("IsValid(%q): expected %v, got %v", test.input, test.valid, got)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"00:00", 0, false},
		{"10:05", 605, false},
		{"23:59", 1439, false},
		{"9:30", 570, false},
		{"25:00", 0, true},
		{"", 0, true},
	}

	for _, test := range tests {
		got, err := MinuteOfDay(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("MinuteOfDay(%q): expected error, got %d", test.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("MinuteOfDay(%q): unexpected error: %v", test.input, err)
			continue
		}
		if got != test.expected {
			t.Errorf("MinuteOfDay(%q): expected %d, got %d", test.input, test.expected, got)
		}
	}
}

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		input    string
		add      int
		expected string
	}{
		{"10:00", 15, "10:15"},
		{"23:50", 20, "00:10"},
		{"00:00", 1440, "00:00"},
		{"12:30", 2880, "12:30"},
		{"00:10", -20, "23:50"},
	}

	for _, test := range tests {
		got, err := AddMinutes(test.input, test.add)
		if err != nil {
			t.Errorf("AddMinutes(%q, %d): unexpected error: %v", test.input, test.add, err)
			continue
		}
		if got != test.expected {
			t.Errorf("AddMinutes(%q, %d): expected %q, got %q", test.input, test.add, test.expected, got)
		}
	}

	if _, err := AddMinutes("99:00", 5); err == nil {
		t.Error("AddMinutes with invalid time: expected error, got nil")
	}
}

func TestCompare(t *testing.T) {
	if got := Compare("09:00", "09:05"); got >= 0 {
		t.Errorf("Compare(09:00, 09:05): expected negative, got %d", got)
	}
	if got := Compare("10:30", "10:30"); got != 0 {
		t.Errorf("Compare(10:30, 10:30): expected 0, got %d", got)
	}
	if got := Compare("18:00", "06:00"); got <= 0 {
		t.Errorf("Compare(18:00, 06:00): expected positive, got %d", got)
	}
}

func TestMinutesBetween(t *testing.T) {
	got, err := MinutesBetween("10:00", "10:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5 {
		t.Errorf("MinutesBetween(10:00, 10:05): expected 5, got %d", got)
	}

	got, err = MinutesBetween("10:05", "10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -5 {
		t.Errorf("MinutesBetween(10:05, 10:00): expected -5, got %d", got)
	}
}

func TestFormatMinute(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "00:00"},
		{605, "10:05"},
		{1439, "23:59"},
		{1440, "00:00"},
		{1450, "00:10"},
		{-10, "23:50"},
	}

	for _, test := range tests {
		if got := FormatMinute(test.input); got != test.expected {
			t.Errorf("FormatMinute(%d): expected %q, got %q", test.input, test.expected, got)
		}
	}
}

func TestFormat12Hour(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"00:00", "12:00 AM"},
		{"00:30", "12:30 AM"},
		{"09:05", "9:05 AM"},
		{"12:00", "12:00 PM"},
		{"12:45", "12:45 PM"},
		{"13:30", "1:30 PM"},
		{"23:59", "11:59 PM"},
		{"", ""},
		{"not a time", ""},
	}

	for _, test := range tests {
		if got := Format12Hour(test.input); got != test.expected {
			t.Errorf("Format12Hour(%q): expected %q, got %q", test.input, test.expected, got)
		}
	}
}

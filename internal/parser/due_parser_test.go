package parser

import (
	"strings"
	"testing"
	"time"
)

func TestParseDueDate_Empty(t *testing.T) {
	due, err := ParseDueDate("")
	if err != nil {
		t.Fatalf("ParseDueDate(\"\") error: %v", err)
	}
	if due != nil {
		t.Errorf("empty input should mean no due date, got %v", due)
	}
}

func TestParseDueDate_Keywords(t *testing.T) {
	now := time.Now()

	due, err := ParseDueDate("today")
	if err != nil {
		t.Fatalf("today error: %v", err)
	}
	if due.Day() != now.Day() || due.Hour() != 23 || due.Minute() != 59 || due.Second() != 59 {
		t.Errorf("today = %v, want end of current day", due)
	}

	due, err = ParseDueDate("Tomorrow")
	if err != nil {
		t.Fatalf("tomorrow error: %v", err)
	}
	wantDay := now.AddDate(0, 0, 1)
	if due.Day() != wantDay.Day() || due.Hour() != 23 {
		t.Errorf("tomorrow = %v, want end of next day", due)
	}
}

func TestParseDueDate_Explicit(t *testing.T) {
	due, err := ParseDueDate("15/12/2026")
	if err != nil {
		t.Fatalf("ParseDueDate error: %v", err)
	}
	want := time.Date(2026, time.December, 15, 23, 59, 59, 0, time.Local)
	if !due.Equal(want) {
		t.Errorf("due = %v, want %v", due, want)
	}

	// Single-digit day and month
	due, err = ParseDueDate("1/2/2026")
	if err != nil {
		t.Fatalf("ParseDueDate error: %v", err)
	}
	if due.Day() != 1 || due.Month() != time.February {
		t.Errorf("due = %v, want 1 Feb", due)
	}
}

func TestParseDueDate_Relative(t *testing.T) {
	now := time.Now()

	due, err := ParseDueDate("3 days")
	if err != nil {
		t.Fatalf("3 days error: %v", err)
	}
	wantDay := now.AddDate(0, 0, 3)
	if due.Day() != wantDay.Day() || due.Hour() != 23 || due.Second() != 59 {
		t.Errorf("3 days = %v, want end of day +3", due)
	}

	due, err = ParseDueDate("2 weeks")
	if err != nil {
		t.Fatalf("2 weeks error: %v", err)
	}
	wantDay = now.AddDate(0, 0, 14)
	if due.Day() != wantDay.Day() || due.Hour() != 23 {
		t.Errorf("2 weeks = %v, want end of day +14", due)
	}

	// Hours keep the clock time instead of snapping to end of day.
	due, err = ParseDueDate("24 hours")
	if err != nil {
		t.Fatalf("24 hours error: %v", err)
	}
	diff := due.Sub(now.Add(24 * time.Hour))
	if diff < -2*time.Minute || diff > 2*time.Minute {
		t.Errorf("24 hours = %v, want ~%v", due, now.Add(24*time.Hour))
	}
}

func TestParseDueDate_Invalid(t *testing.T) {
	bad := []string{
		"gibberish",
		"32/01/2026", // day out of range
		"15/13/2026", // month out of range
		"01/01/2020", // year before the window
		"29/02/2026", // not a leap year
		"0 days",
		"400 days",
		"9000 hours",
		"53 weeks",
		"3 months", // unsupported unit
	}
	for _, input := range bad {
		if _, err := ParseDueDate(input); err == nil {
			t.Errorf("ParseDueDate(%q) should fail", input)
		}
	}
}

func TestParseLead(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"45 minutes", 45 * time.Minute},
		{"2 hours", 2 * time.Hour},
		{"1 day", 24 * time.Hour},
		{"1 week", 7 * 24 * time.Hour},
		{" 15M ", 15 * time.Minute},
	}
	for _, tt := range tests {
		got, err := ParseLead(tt.input)
		if err != nil {
			t.Errorf("ParseLead(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLead(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseLead_Invalid(t *testing.T) {
	for _, input := range []string{"", "soon", "-5m", "0m", "0 hours"} {
		if _, err := ParseLead(input); err == nil {
			t.Errorf("ParseLead(%q) should fail", input)
		}
	}
}

func TestFormatDueDate(t *testing.T) {
	if got := FormatDueDate(nil); got != "" {
		t.Errorf("nil due = %q, want empty", got)
	}

	past := time.Now().AddDate(0, 0, -3)
	if got := FormatDueDate(&past); !strings.Contains(got, "OVERDUE") {
		t.Errorf("past due = %q, want OVERDUE marker", got)
	}

	today := time.Now()
	if got := FormatDueDate(&today); !strings.Contains(got, "today") {
		t.Errorf("today = %q, want today marker", got)
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	if got := FormatDueDate(&tomorrow); !strings.Contains(got, "tomorrow") {
		t.Errorf("tomorrow = %q, want tomorrow marker", got)
	}

	nextWeek := time.Now().AddDate(0, 0, 5)
	if got := FormatDueDate(&nextWeek); !strings.Contains(got, "in 5 days") {
		t.Errorf("5 days out = %q, want day count", got)
	}

	later := time.Now().AddDate(0, 0, 30)
	got := FormatDueDate(&later)
	if !strings.Contains(got, later.Format("02/01/2006")) || strings.Contains(got, "in ") {
		t.Errorf("30 days out = %q, want plain date", got)
	}
}

func TestFormatFireAt(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	if got := FormatFireAt(past); !strings.Contains(got, "now") {
		t.Errorf("past fire = %q, want fires-now marker", got)
	}

	soon := time.Now().Add(time.Minute)
	if got := FormatFireAt(soon); !strings.Contains(got, "Today at") {
		t.Errorf("fire today = %q, want Today at", got)
	}

	far := time.Now().AddDate(0, 0, 10)
	if got := FormatFireAt(far); !strings.Contains(got, far.Format("02/01/2006")) {
		t.Errorf("far fire = %q, want full date", got)
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		until time.Duration
		want  string
	}{
		{-time.Minute, "now"},
		{0, "now"},
		{3 * time.Minute, "3m"},
		{65 * time.Minute, "1h 05m"},
		{52 * time.Hour, "2d 4h"},
	}
	for _, tt := range tests {
		if got := FormatCountdown(tt.until); got != tt.want {
			t.Errorf("FormatCountdown(%v) = %q, want %q", tt.until, got, tt.want)
		}
	}
}

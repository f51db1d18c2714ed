package parser

import (
	"testing"
)

func TestParseTitle_FullSyntax(t *testing.T) {
	result := ParseTitle("Pay rent #bills,monthly @home ^life +high due:15/12/2026 start:today remind:off")

	if result.Title != "Pay rent" {
		t.Errorf("Title = %q, want %q", result.Title, "Pay rent")
	}
	if len(result.Tags) != 2 || result.Tags[0] != "bills" || result.Tags[1] != "monthly" {
		t.Errorf("Tags = %v, want [bills monthly]", result.Tags)
	}
	if result.Project != "home" {
		t.Errorf("Project = %q, want home", result.Project)
	}
	if result.Area != "life" {
		t.Errorf("Area = %q, want life", result.Area)
	}
	if result.Priority != "high" {
		t.Errorf("Priority = %q, want high", result.Priority)
	}
	if result.Due == nil {
		t.Error("Due should be parsed")
	}
	if result.StartAt == nil {
		t.Error("StartAt should be parsed")
	}
	if !result.NoRemind {
		t.Error("remind:off should set NoRemind")
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}
}

func TestParseTitle_PlainTitle(t *testing.T) {
	result := ParseTitle("Just a simple task")

	if result.Title != "Just a simple task" {
		t.Errorf("Title = %q", result.Title)
	}
	if len(result.Tags) != 0 || result.Project != "" || result.Area != "" || result.Priority != "" {
		t.Errorf("plain title should carry no metadata: %+v", result)
	}
	if result.Due != nil || result.NoRemind {
		t.Errorf("plain title should have no due or remind switch: %+v", result)
	}
}

func TestParseTitle_SeparateTags(t *testing.T) {
	result := ParseTitle("Review PR #work #urgent")

	if len(result.Tags) != 2 || result.Tags[0] != "work" || result.Tags[1] != "urgent" {
		t.Errorf("Tags = %v, want [work urgent]", result.Tags)
	}
	if result.Title != "Review PR" {
		t.Errorf("Title = %q, want %q", result.Title, "Review PR")
	}
}

func TestParseTitle_NumericPriority(t *testing.T) {
	result := ParseTitle("Ship it +3")
	if result.Priority != "3" {
		t.Errorf("Priority = %q, want 3", result.Priority)
	}
}

func TestParseTitle_InvalidPriority(t *testing.T) {
	result := ParseTitle("Ship it +urgent")

	if result.Priority != "" {
		t.Errorf("Priority = %q, want empty for an invalid value", result.Priority)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one entry", result.Errors)
	}
	// The bad token is still stripped from the title.
	if result.Title != "Ship it" {
		t.Errorf("Title = %q, want %q", result.Title, "Ship it")
	}
}

func TestParseTitle_InvalidDue(t *testing.T) {
	result := ParseTitle("Call bank due:someday")

	if result.Due != nil {
		t.Errorf("Due = %v, want nil for an invalid value", result.Due)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one entry", result.Errors)
	}
	if result.Title != "Call bank" {
		t.Errorf("Title = %q, want %q", result.Title, "Call bank")
	}
}

func TestParseTitle_RemindOn(t *testing.T) {
	result := ParseTitle("Water plants due:tomorrow remind:on")

	if result.NoRemind {
		t.Error("remind:on must not set NoRemind")
	}
	if result.Title != "Water plants" {
		t.Errorf("Title = %q, want token stripped", result.Title)
	}
}

func TestParseTitle_CollapsesWhitespace(t *testing.T) {
	result := ParseTitle("  Fix   the   bug   @backend  ")
	if result.Title != "Fix the bug" {
		t.Errorf("Title = %q, want squeezed spaces", result.Title)
	}
}

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", "low"},
		{"low", "low"},
		{"2", "medium"},
		{"med", "medium"},
		{"medium", "medium"},
		{"3", "high"},
		{"HIGH", "high"},
		{"", "low"},
		{"whatever", "low"},
	}
	for _, tt := range tests {
		if got := NormalizePriority(tt.input); got != tt.want {
			t.Errorf("NormalizePriority(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

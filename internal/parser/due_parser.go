package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseDueDate parses various due date formats
// Supported formats:
// - dd/mm/yyyy (e.g., "15/12/2026")
// - today, tomorrow
// - X days (e.g., "3 days", "1 day")
// - X hours (e.g., "24 hours", "1 hour")
// - X weeks (e.g., "2 weeks", "1 week")
func ParseDueDate(input string) (*time.Time, error) {
	if input == "" {
		return nil, nil
	}

	input = strings.TrimSpace(input)

	switch strings.ToLower(input) {
	case "today":
		due := endOfDay(time.Now())
		return &due, nil
	case "tomorrow":
		due := endOfDay(time.Now().AddDate(0, 0, 1))
		return &due, nil
	}

	// Try dd/mm/yyyy format first
	if dueDate, err := parseDateFormat(input); err == nil {
		return dueDate, nil
	}

	// Try relative time formats
	if dueDate, err := parseRelativeTime(input); err == nil {
		return dueDate, nil
	}

	return nil, fmt.Errorf("invalid date format. Use: dd/mm/yyyy, today, tomorrow, X days, X hours, or X weeks")
}

// endOfDay returns 23:59:59 on t's calendar day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// parseDateFormat parses dd/mm/yyyy format
func parseDateFormat(input string) (*time.Time, error) {
	dateRegex := regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	matches := dateRegex.FindStringSubmatch(input)

	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid date format")
	}

	day, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid day")
	}

	month, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, fmt.Errorf("invalid month")
	}

	year, err := strconv.Atoi(matches[3])
	if err != nil {
		return nil, fmt.Errorf("invalid year")
	}

	// Validate date ranges
	if day < 1 || day > 31 {
		return nil, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2024 || year > 2100 {
		return nil, fmt.Errorf("year must be between 2024 and 2100")
	}

	dueDate := time.Date(year, time.Month(month), day, 23, 59, 59, 0, time.Local)

	// Check if date is valid (handles leap years, etc.)
	if dueDate.Day() != day || dueDate.Month() != time.Month(month) || dueDate.Year() != year {
		return nil, fmt.Errorf("invalid date")
	}

	return &dueDate, nil
}

// parseRelativeTime parses relative time formats like "3 days", "24 hours", etc.
func parseRelativeTime(input string) (*time.Time, error) {
	input = strings.ToLower(input)

	// Regex for "X unit" or "X units"
	relativeRegex := regexp.MustCompile(`^(\d+)\s+(hour|hours|day|days|week|weeks)$`)
	matches := relativeRegex.FindStringSubmatch(input)

	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid number")
	}

	unit := matches[2]
	now := time.Now()

	switch unit {
	case "hour", "hours":
		if amount < 1 || amount > 8760 { // Max 1 year in hours
			return nil, fmt.Errorf("hours must be between 1 and 8760")
		}
		dueDate := now.Add(time.Duration(amount) * time.Hour)
		return &dueDate, nil

	case "day", "days":
		if amount < 1 || amount > 365 { // Max 1 year in days
			return nil, fmt.Errorf("days must be between 1 and 365")
		}
		// Set to end of day (23:59:59) for the target date
		dueDate := endOfDay(now.AddDate(0, 0, amount))
		return &dueDate, nil

	case "week", "weeks":
		if amount < 1 || amount > 52 { // Max 1 year in weeks
			return nil, fmt.Errorf("weeks must be between 1 and 52")
		}
		dueDate := endOfDay(now.AddDate(0, 0, amount*7))
		return &dueDate, nil

	default:
		return nil, fmt.Errorf("unsupported time unit")
	}
}

// ParseLead parses a reminder lead span: Go duration syntax ("30m",
// "1h30m") or word form ("2 hours", "1 day", "1 week").
func ParseLead(input string) (time.Duration, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, fmt.Errorf("empty lead time")
	}

	if d, err := time.ParseDuration(input); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("lead time must be positive")
		}
		return d, nil
	}

	relativeRegex := regexp.MustCompile(`^(\d+)\s+(minute|minutes|hour|hours|day|days|week|weeks)$`)
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid lead time %q. Use: 30m, 1h30m, X minutes, X hours, X days, or X weeks", input)
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil || amount < 1 {
		return 0, fmt.Errorf("lead time must be positive")
	}

	switch matches[2] {
	case "minute", "minutes":
		return time.Duration(amount) * time.Minute, nil
	case "hour", "hours":
		return time.Duration(amount) * time.Hour, nil
	case "day", "days":
		return time.Duration(amount) * 24 * time.Hour, nil
	default: // week, weeks
		return time.Duration(amount) * 7 * 24 * time.Hour, nil
	}
}

// FormatDueDate formats a due date for display
func FormatDueDate(dueDate *time.Time) string {
	if dueDate == nil {
		return ""
	}

	now := time.Now()

	// Calculate calendar days difference
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, dueDate.Location())
	daysDiff := int(dueDay.Sub(today).Hours() / 24)

	// Always show the actual date to avoid confusion
	dateStr := dueDate.Format("02/01/2006")

	if daysDiff < 0 {
		// Overdue
		return fmt.Sprintf("⚠️ OVERDUE (%s)", dateStr)
	} else if daysDiff == 0 {
		// Due today
		return fmt.Sprintf("🔥 Due today (%s)", dateStr)
	} else if daysDiff == 1 {
		// Due tomorrow
		return fmt.Sprintf("📅 Due tomorrow (%s)", dateStr)
	} else if daysDiff <= 7 {
		// Due within a week
		return fmt.Sprintf("📅 Due %s (in %d days)", dateStr, daysDiff)
	} else {
		// Due later
		return fmt.Sprintf("📅 Due %s", dateStr)
	}
}

// FormatFireAt formats a reminder fire time for display
func FormatFireAt(fireAt time.Time) string {
	now := time.Now()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	fireDay := time.Date(fireAt.Year(), fireAt.Month(), fireAt.Day(), 0, 0, 0, 0, fireAt.Location())
	daysDiff := int(fireDay.Sub(today).Hours() / 24)

	clock := fireAt.Format("15:04")

	if fireAt.Before(now) {
		return fmt.Sprintf("🔔 Fires now (was %s %s)", fireAt.Format("02/01/2006"), clock)
	} else if daysDiff == 0 {
		return fmt.Sprintf("🔔 Today at %s", clock)
	} else if daysDiff == 1 {
		return fmt.Sprintf("🔔 Tomorrow at %s", clock)
	}
	return fmt.Sprintf("🔔 %s at %s", fireAt.Format("02/01/2006"), clock)
}

// FormatCountdown renders the span until a reminder fires, e.g.
// "2d 4h", "1h 05m", "3m". Past spans render as "now".
func FormatCountdown(until time.Duration) string {
	if until <= 0 {
		return "now"
	}

	days := int(until.Hours()) / 24
	hours := int(until.Hours()) % 24
	minutes := int(until.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

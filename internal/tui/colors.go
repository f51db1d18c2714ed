package tui

// Color constants for the tickle TUI theme
const (
	// Base Colors
	ColorAppBackground  = ""        // Use terminal default background
	ColorCardBackground = "#10231B" // Dark green
	ColorBorder         = "#3A5547" // Grey-green

	// Text Colors
	ColorPrimaryText   = "#E8F2EC" // Primary text (field labels, user input, titles)
	ColorSecondaryText = "#ADC7B8" // Secondary text - subtle green-tinted grey
	ColorDisabledText  = "#6D8377" // Disabled/muted text
	ColorPlaceholder   = "#ADC7B8" // Same as secondary
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Green theme)
	ColorAccentMain   = "#10B981" // Logo, accent elements, active borders
	ColorAccentBright = "#6EE7B7" // Hover, highlights, current step

	// State Colors
	ColorError   = "#EF4444" // Validation errors
	ColorSuccess = "#22C55E" // Success, confirmations
	ColorWarning = "#F59E0B" // Warnings, overdue reminders
)

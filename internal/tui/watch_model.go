package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkravets/tickle/internal/notify"
	"github.com/mkravets/tickle/internal/parser"
	"github.com/mkravets/tickle/internal/reminder"
)

// watchRefreshInterval is how often the pending set is re-read from the
// notification platform.
const watchRefreshInterval = 5 * time.Second

// WatchModel represents the TUI model for the live reminders view
type WatchModel struct {
	width  int
	height int

	platform notify.Platform

	handles []notify.Handle
	auth    notify.AuthStatus
	now     time.Time
	loadErr error

	// Animation state
	headerFrame int
}

// countdownTickMsg is sent every second to update the countdowns
type countdownTickMsg struct{}

// watchRefreshMsg is sent when the pending set should be re-read
type watchRefreshMsg struct{}

// NewWatchModel creates a new watch TUI model
func NewWatchModel(platform notify.Platform) WatchModel {
	m := WatchModel{
		platform: platform,
		now:      time.Now(),
	}
	m.refresh()
	return m
}

// refresh re-reads the pending set and permission status
func (m *WatchModel) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	m.auth = m.platform.AuthorizationStatus()
	handles, err := m.platform.Pending(ctx)
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.handles = handles
}

// Init initializes the watch model
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return countdownTickMsg{}
		}),
		tea.Tick(watchRefreshInterval, func(t time.Time) tea.Msg {
			return watchRefreshMsg{}
		}),
	)
}

// Update handles messages
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case countdownTickMsg:
		m.now = time.Now()
		m.headerFrame = (m.headerFrame + 1) % 2
		return m, tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return countdownTickMsg{}
		})

	case watchRefreshMsg:
		m.refresh()
		return m, tea.Tick(watchRefreshInterval, func(t time.Time) tea.Msg {
			return watchRefreshMsg{}
		})

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r", "R":
			m.refresh()
			return m, nil
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the watch TUI
func (m WatchModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	// Narrow view: just the list, full width
	if m.width < 90 {
		listPanel := m.renderListPanel(m.width, contentHeight)
		return lipgloss.JoinVertical(
			lipgloss.Left,
			listPanel,
			helpBar,
		)
	}

	// Wide view: big countdown on the left, list on the right
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	leftPanel := m.renderNextPanel(leftWidth, contentHeight)
	rightPanel := m.renderListPanel(rightWidth, contentHeight)

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanel,
		"  ",
		rightPanel,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		helpBar,
	)
}

// renderNextPanel renders the left panel: countdown to the next reminder
func (m WatchModel) renderNextPanel(width, height int) string {
	var components []string

	animChars := []string{"⏰", "🔔"}
	animChar := animChars[m.headerFrame]
	headerText := fmt.Sprintf("%s  UPCOMING REMINDERS  %s", animChar, animChar)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, headerStyle.Render(headerText))

	if len(m.handles) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width)
		components = append(components, emptyStyle.Render("No reminders scheduled"))
	} else {
		next := m.handles[0]

		idStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width)
		if taskID, ok := reminder.TaskIDFromHandle(next.ID); ok {
			components = append(components, idStyle.Render(fmt.Sprintf("#%d", taskID)))
		}

		titleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width)
		titleText := next.Title
		if len(titleText) > width-4 {
			titleText = titleText[:width-7] + "..."
		}
		components = append(components, titleStyle.Render(titleText))

		clockDisplay := renderBigCountdown(next.FireAt.Sub(m.now))
		clockContent := ""
		for _, line := range strings.Split(clockDisplay, "\n") {
			clockContent += lipgloss.NewStyle().
				Align(lipgloss.Center).
				Width(width).
				Render(line) + "\n"
		}
		components = append(components, strings.TrimRight(clockContent, "\n"))

		fireInfo := fmt.Sprintf("Fires at %s", next.FireAt.Format("15:04:05"))
		fireStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width)
		components = append(components, fireStyle.Render(fireInfo))
	}

	content := strings.Join(components, "\n\n")

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return panelStyle.Render(content)
}

// renderBigCountdown renders an ASCII art countdown clock
func renderBigCountdown(until time.Duration) string {
	if until < 0 {
		until = 0
	}
	hours := int(until.Hours())
	minutes := int(until.Minutes()) % 60
	seconds := int(until.Seconds()) % 60

	// ASCII art for digits (5x5 characters each)
	digits := map[rune][]string{
		'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
		'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
		'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
		'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
		'4': {"█   █", "█   █", "█████", "    █", "    █"},
		'5': {"█████", "█    ", "████ ", "    █", "████ "},
		'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
		'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
		'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
		'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
		':': {"     ", "  █  ", "     ", "  █  ", "     "},
	}

	var timeStr string
	if hours > 0 {
		timeStr = fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	} else {
		timeStr = fmt.Sprintf("%02d:%02d", minutes, seconds)
	}

	var lines [5]strings.Builder
	for _, char := range timeStr {
		if digitArt, ok := digits[char]; ok {
			for i := 0; i < 5; i++ {
				lines[i].WriteString(digitArt[i])
				lines[i].WriteString(" ")
			}
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	var result strings.Builder
	for i := 0; i < 5; i++ {
		result.WriteString(clockStyle.Render(lines[i].String()))
		if i < 4 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

// renderListPanel renders the pending reminders list with countdowns
func (m WatchModel) renderListPanel(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")

	permStyle := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(width - 4)
	b.WriteString(permStyle.Render(m.renderPermissionLine()))
	b.WriteString("\n\n")

	if m.loadErr != nil {
		errStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Align(lipgloss.Center).
			Width(width - 4)
		b.WriteString(errStyle.Render(fmt.Sprintf("⚠️ %v", m.loadErr)))
		b.WriteString("\n\n")
	}

	separatorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBorder)).
		Align(lipgloss.Center).
		Width(width - 4)
	b.WriteString(separatorStyle.Render(strings.Repeat("─", min(width-8, 40))))
	b.WriteString("\n\n")

	if len(m.handles) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width - 4)
		b.WriteString(emptyStyle.Render("Nothing pending. Add a task with a due date:"))
		b.WriteString("\n")
		b.WriteString(emptyStyle.Render(`tickle add "Pay rent" due:tomorrow`))
	} else {
		countdownStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Bold(true)
		timeStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText))
		titleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText))

		maxTitle := width - 34
		if maxTitle < 10 {
			maxTitle = 10
		}

		for _, h := range m.handles {
			countdown := parser.FormatCountdown(h.FireAt.Sub(m.now))
			fireAt := h.FireAt.Format("Mon 02/01 15:04")

			title := h.Title
			if len(title) > maxTitle {
				title = title[:maxTitle-3] + "..."
			}

			row := fmt.Sprintf("  %s  %s  %s",
				countdownStyle.Render(fmt.Sprintf("%-9s", "in "+countdown)),
				timeStyle.Render(fireAt),
				titleStyle.Render(title),
			)
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1)

	return panelStyle.Render(b.String())
}

// renderPermissionLine renders the notification permission status
func (m WatchModel) renderPermissionLine() string {
	switch m.auth {
	case notify.AuthGranted:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSuccess)).
			Render("✅ Notifications granted")
	case notify.AuthDenied:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Render("🚫 Notifications denied - reminders will not fire")
	default:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)).
			Render("❓ Permission not requested - run 'tickle remind enable'")
	}
}

// renderHelpBar renders the help bar at the bottom
func (m WatchModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	return helpStyle.Render("r refresh · esc/q quit")
}

// RunWatchTUI runs the live reminders view
func RunWatchTUI(platform notify.Platform) error {
	model := NewWatchModel(platform)

	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err := p.Run()
	return err
}

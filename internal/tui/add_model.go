package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/parser"
	"github.com/mkravets/tickle/internal/store"
)

// Step represents the current step in the add/edit wizard
type Step int

const (
	StepTitle Step = iota
	StepProject
	StepArea
	StepTags
	StepPriority
	StepDue
	StepStart
	StepNotes
	StepRemind
	StepSave
)

const numInputs = int(StepRemind) + 1

// AddTaskModel represents the TUI model for adding and editing tasks
type AddTaskModel struct {
	currentStep Step
	inputs      []textinput.Model
	width       int
	height      int

	st *store.Store

	// Task data
	title    string
	project  string
	area     string
	tags     []string
	priority string
	due      string
	start    string
	notes    string
	remind   string

	// Pre-filled data from flags or parsing
	prefilled   map[string]string
	initialTags string

	// Edit mode
	isEditMode bool
	editTaskID uint

	// State
	err           error
	completed     bool
	cancelled     bool
	validationErr string
	saved         *models.Task

	// Save confirmation modal
	showSaveModal   bool
	saveModalChoice bool // true for Yes, false for No
}

// NewAddTaskModel creates a new add task TUI model
func NewAddTaskModel(st *store.Store, prefilled map[string]string) AddTaskModel {
	inputs := make([]textinput.Model, numInputs)

	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 60

		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}

	inputs[StepTitle].Placeholder = "Enter task title... (required)"
	inputs[StepTitle].Focus()
	inputs[StepTitle].CharLimit = 200

	inputs[StepProject].Placeholder = "Project name (Enter to skip)"
	inputs[StepProject].CharLimit = 50

	inputs[StepArea].Placeholder = "Area name (Enter to skip)"
	inputs[StepArea].CharLimit = 50

	inputs[StepTags].Placeholder = "Add tag (Enter to skip, 'q' when done adding tags)"
	inputs[StepTags].CharLimit = 50

	inputs[StepPriority].Placeholder = "low/medium/high or 1/2/3 (Enter to skip - no priority)"
	inputs[StepPriority].CharLimit = 10

	inputs[StepDue].Placeholder = "Due: dd/mm/yyyy, today, tomorrow, 3 days (Enter to skip)"
	inputs[StepDue].CharLimit = 50

	inputs[StepStart].Placeholder = "Start: dd/mm/yyyy, today, tomorrow (Enter to skip)"
	inputs[StepStart].CharLimit = 50

	inputs[StepNotes].Placeholder = "Additional notes (Enter to skip)"
	inputs[StepNotes].CharLimit = 500

	inputs[StepRemind].Placeholder = "Reminder: on/off (Enter to keep on)"
	inputs[StepRemind].CharLimit = 5

	m := AddTaskModel{
		currentStep: StepTitle,
		inputs:      inputs,
		st:          st,
		prefilled:   prefilled,
		tags:        []string{},
	}

	// Set pre-filled values
	if title, ok := prefilled["title"]; ok {
		m.inputs[StepTitle].SetValue(title)
		m.title = title
	}
	if project, ok := prefilled["project"]; ok {
		m.inputs[StepProject].SetValue(project)
		m.project = project
	}
	if area, ok := prefilled["area"]; ok {
		m.inputs[StepArea].SetValue(area)
		m.area = area
	}
	if tags, ok := prefilled["tags"]; ok && tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
			if tag != "" {
				m.tags = append(m.tags, tag)
			}
		}
		m.inputs[StepTags].Placeholder = fmt.Sprintf("Add another tag (%d added so far, Enter to finish)", len(m.tags))
	}
	m.initialTags = strings.Join(m.tags, ",")
	if priority, ok := prefilled["priority"]; ok {
		m.inputs[StepPriority].SetValue(priority)
		m.priority = priority
	}
	if due, ok := prefilled["due"]; ok {
		m.inputs[StepDue].SetValue(due)
		m.due = due
	}
	if start, ok := prefilled["start"]; ok {
		m.inputs[StepStart].SetValue(start)
		m.start = start
	}
	if notes, ok := prefilled["notes"]; ok {
		m.inputs[StepNotes].SetValue(notes)
		m.notes = notes
	}
	if remind, ok := prefilled["remind"]; ok {
		m.inputs[StepRemind].SetValue(remind)
		m.remind = remind
	}

	return m
}

// NewEditTaskModel creates a new edit task TUI model with existing task data
func NewEditTaskModel(st *store.Store, taskID uint, prefilled map[string]string) AddTaskModel {
	m := NewAddTaskModel(st, prefilled)
	m.isEditMode = true
	m.editTaskID = taskID
	return m
}

// Init initializes the model
func (m AddTaskModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m AddTaskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Update input field widths based on available space
		maxInputWidth := (m.width * 2 / 3) - 10
		if maxInputWidth < 30 {
			maxInputWidth = 30
		}
		if maxInputWidth > 80 {
			maxInputWidth = 80
		}
		for i := range m.inputs {
			m.inputs[i].Width = maxInputWidth
		}
		return m, nil

	case tea.KeyMsg:
		// Handle save modal keys if modal is shown
		if m.showSaveModal {
			switch msg.String() {
			case "left", "right":
				m.saveModalChoice = !m.saveModalChoice
				return m, nil
			case "y", "Y":
				m.saveModalChoice = true
				return m.handleSaveChoice()
			case "n", "N":
				m.saveModalChoice = false
				return m.handleSaveChoice()
			case "enter":
				return m.handleSaveChoice()
			case "esc":
				m.showSaveModal = false
				return m, nil
			case "ctrl+c":
				m.cancelled = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit

		case "esc":
			// If on Save step, go back to the previous step instead
			if m.currentStep == StepSave {
				return m.prevStep()
			}

			if !m.hasChanges() {
				m.cancelled = true
				return m, tea.Quit
			}

			// Show save confirmation modal for unsaved changes
			m.showSaveModal = true
			m.saveModalChoice = true
			return m, nil

		case "enter":
			return m.handleEnter()

		case "tab", "down":
			// Don't allow skipping the required title field
			if m.currentStep == StepTitle && strings.TrimSpace(m.title) == "" {
				m.validationErr = "Task title is required"
				return m, nil
			}
			return m.nextStep()

		case "shift+tab", "up":
			return m.prevStep()
		}
	}

	// Update the current input (only for input steps, not the Save step)
	var cmd tea.Cmd
	if m.currentStep < StepSave {
		m.inputs[m.currentStep], cmd = m.inputs[m.currentStep].Update(msg)
		m.updateCurrentField()
	}

	return m, cmd
}

// View renders the TUI
func (m AddTaskModel) View() string {
	if m.cancelled || m.completed {
		return "" // Exit message is printed after the TUI closes
	}

	if m.width < 85 {
		return m.renderSmallLayout()
	}

	rightWidth := (m.width * 30) / 100
	if rightWidth < 46 {
		rightWidth = 46
	}
	leftWidth := m.width - rightWidth - 4
	if leftWidth < 30 {
		leftWidth = 30
		rightWidth = m.width - leftWidth - 4
	}

	leftStyle := lipgloss.NewStyle().
		Width(leftWidth).
		Height(m.height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1)

	rightStyle := lipgloss.NewStyle().
		Width(rightWidth).
		Height(m.height - 2).
		Padding(1)

	mainView := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Render(m.renderWizard()),
		" ",
		rightStyle.Render(m.renderPreview(rightWidth)),
	)

	if m.showSaveModal {
		return m.renderSaveModal()
	}

	return mainView
}

// renderWizard renders the step-by-step wizard
func (m AddTaskModel) renderWizard() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		MarginBottom(1)

	titleText := "📝 Create New Task"
	if m.isEditMode {
		titleText = fmt.Sprintf("📝 Edit Task #%d", m.editTaskID)
	}
	b.WriteString(titleStyle.Render(titleText))
	b.WriteString("\n\n")

	stepLabels := []string{"Title", "Project", "Area", "Tags", "Priority", "Due Date", "Start Date", "Notes", "Reminder", "Save"}

	currentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	filledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	skippedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	futureStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	for i, label := range stepLabels {
		step := Step(i)

		// Extra spacing before the Save step to distinguish it
		if step == StepSave {
			b.WriteString("\n")
			label = "💾 " + label
		}

		switch {
		case step == m.currentStep:
			b.WriteString(currentStyle.Render("▶ " + label))
		case m.stepHasValue(step):
			b.WriteString(filledStyle.Render("✓ " + label))
		case step < m.currentStep || m.isEditMode:
			b.WriteString(skippedStyle.Render("  " + label))
		default:
			b.WriteString(futureStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.currentStep {
	case StepTitle:
		b.WriteString("📋 Task Title\n")
		b.WriteString(m.inputs[StepTitle].View())

	case StepProject:
		b.WriteString("📁 Project\n")
		b.WriteString(m.inputs[StepProject].View())

	case StepArea:
		b.WriteString("🗂️ Area\n")
		b.WriteString(m.inputs[StepArea].View())

	case StepTags:
		b.WriteString("🔖 Tags\n")
		if len(m.tags) > 0 {
			b.WriteString(fmt.Sprintf("Added: %s\n", strings.Join(m.tags, ", ")))
		}
		b.WriteString(m.inputs[StepTags].View())

	case StepPriority:
		b.WriteString("⚡ Priority\n")
		b.WriteString(m.inputs[StepPriority].View())

	case StepDue:
		b.WriteString("📅 Due Date\n")
		b.WriteString(m.inputs[StepDue].View())

	case StepStart:
		b.WriteString("📆 Start Date\n")
		b.WriteString(m.inputs[StepStart].View())

	case StepNotes:
		b.WriteString("📝 Notes\n")
		b.WriteString(m.inputs[StepNotes].View())

	case StepRemind:
		b.WriteString("🔔 Reminder\n")
		b.WriteString(m.inputs[StepRemind].View())

	case StepSave:
		b.WriteString("💾 Save Task\n")
		b.WriteString("Press Enter to save task")
	}

	if m.validationErr != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			MarginTop(1)
		b.WriteString(errorStyle.Render("❌ " + m.validationErr))
	}

	b.WriteString("\n\n")

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)
	b.WriteString(helpStyle.Render("Enter: Next | Tab/↓: Next | Shift+Tab/↑: Back | Esc: Cancel"))

	return b.String()
}

// stepHasValue checks if a step has been filled with a value (not skipped)
func (m AddTaskModel) stepHasValue(step Step) bool {
	switch step {
	case StepTitle:
		return strings.TrimSpace(m.title) != ""
	case StepProject:
		return strings.TrimSpace(m.project) != ""
	case StepArea:
		return strings.TrimSpace(m.area) != ""
	case StepTags:
		return len(m.tags) > 0
	case StepPriority:
		return strings.TrimSpace(m.priority) != ""
	case StepDue:
		return strings.TrimSpace(m.due) != ""
	case StepStart:
		return strings.TrimSpace(m.start) != ""
	case StepNotes:
		return strings.TrimSpace(m.notes) != ""
	case StepRemind:
		return strings.TrimSpace(m.remind) != ""
	default:
		return false
	}
}

// hasChanges checks if there are any changes made to the task
func (m AddTaskModel) hasChanges() bool {
	if !m.isEditMode {
		return strings.TrimSpace(m.title) != "" ||
			strings.TrimSpace(m.project) != "" ||
			strings.TrimSpace(m.area) != "" ||
			len(m.tags) > 0 ||
			strings.TrimSpace(m.priority) != "" ||
			strings.TrimSpace(m.due) != "" ||
			strings.TrimSpace(m.start) != "" ||
			strings.TrimSpace(m.notes) != "" ||
			strings.TrimSpace(m.remind) != ""
	}

	if m.prefilled == nil {
		return true
	}

	fields := []struct{ key, value string }{
		{"title", m.title},
		{"project", m.project},
		{"area", m.area},
		{"priority", m.priority},
		{"due", m.due},
		{"start", m.start},
		{"notes", m.notes},
		{"remind", m.remind},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) != strings.TrimSpace(m.prefilled[f.key]) {
			return true
		}
	}
	return strings.Join(m.tags, ",") != m.initialTags
}

// remindOn reports whether the reminder toggle is on. It is on unless
// the user typed off or no.
func (m AddTaskModel) remindOn() bool {
	v := strings.ToLower(strings.TrimSpace(m.remind))
	return v != "off" && v != "no"
}

// renderPreview renders the live task preview card
func (m AddTaskModel) renderPreview(width int) string {
	cardWidth := 38

	var card strings.Builder

	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center)

	logo := ` ╔╦╗╦╔═╗╦╔═╦  ╔═╗
  ║ ║║  ╠╩╗║  ║╣
  ╩ ╩╚═╝╩ ╩╩═╝╚═╝`
	card.WriteString(logoStyle.Render(logo))
	card.WriteString("\n")

	titleText := m.title
	if titleText == "" {
		titleText = "Untitled Task"
	}
	titleBoxStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Center).
		Width(cardWidth - 4)
	card.WriteString(titleBoxStyle.Render("🎯 " + titleText))
	card.WriteString("\n")

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPlaceholder)).
		Bold(true).
		Align(lipgloss.Center).
		Width(cardWidth - 4)
	card.WriteString(statusStyle.Render("● todo"))
	card.WriteString("\n\n")

	card.WriteString(m.renderMetadata())

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(cardWidth).
		Padding(1)

	container := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center)

	return container.Render(cardStyle.Render(card.String()))
}

// renderMetadata renders the filled-in task fields for the preview
func (m AddTaskModel) renderMetadata() string {
	var b strings.Builder

	if m.project != "" {
		b.WriteString(fmt.Sprintf("📁 Project: %s\n", m.project))
	}
	if m.area != "" {
		b.WriteString(fmt.Sprintf("🗂️ Area: %s\n", m.area))
	}
	if len(m.tags) > 0 {
		tagStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Bold(true)
		styled := make([]string, len(m.tags))
		for i, tag := range m.tags {
			styled[i] = tagStyle.Render("#" + tag)
		}
		b.WriteString(fmt.Sprintf("🔖 Tags: %s\n", strings.Join(styled, " ")))
	}
	if m.priority != "" {
		b.WriteString(fmt.Sprintf("⚡ Priority: %s\n", renderPriority(m.priority)))
	}
	if m.due != "" {
		if parsed, err := parser.ParseDueDate(m.due); err == nil && parsed != nil {
			b.WriteString(parser.FormatDueDate(parsed) + "\n")
		} else {
			b.WriteString(fmt.Sprintf("📅 Due: %s\n", m.due))
		}
	}
	if m.start != "" {
		b.WriteString(fmt.Sprintf("📆 Starts: %s\n", m.start))
	}
	if m.remindOn() {
		b.WriteString("🔔 Reminder: on\n")
	} else {
		b.WriteString("🔕 Reminder: off\n")
	}
	if m.notes != "" {
		noteStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)
		b.WriteString(fmt.Sprintf("📝 Notes: %s\n", noteStyle.Render(m.notes)))
	}

	return b.String()
}

// renderPriority renders a priority value with its color and icon
func renderPriority(priority string) string {
	switch parser.NormalizePriority(priority) {
	case "high":
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			Render("🔥 HIGH")
	case "medium":
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)).
			Bold(true).
			Render("⚡ MEDIUM")
	default:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSuccess)).
			Bold(true).
			Render("🟢 LOW")
	}
}

// renderSmallLayout renders the entire TUI for very small terminals
func (m AddTaskModel) renderSmallLayout() string {
	style := lipgloss.NewStyle().
		Width(m.width - 2).
		Height(m.height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1)

	var b strings.Builder
	b.WriteString(m.renderWizard())
	b.WriteString("\n═══ PREVIEW ═══\n")
	b.WriteString("💡 Tip: Stretch terminal for better UI\n")
	if m.title != "" {
		b.WriteString(fmt.Sprintf("📋 %s\n", m.title))
	}
	b.WriteString(m.renderMetadata())

	return style.Render(b.String())
}

// handleEnter processes the Enter key
func (m AddTaskModel) handleEnter() (AddTaskModel, tea.Cmd) {
	m.validationErr = ""

	switch m.currentStep {
	case StepTitle:
		if strings.TrimSpace(m.title) == "" {
			m.validationErr = "Task title is required"
			return m, nil
		}
		return m.nextStep()

	case StepProject, StepArea, StepNotes:
		return m.nextStep()

	case StepTags:
		currentTag := strings.TrimSpace(m.inputs[StepTags].Value())
		if currentTag == "" || strings.EqualFold(currentTag, "q") {
			return m.nextStep()
		}
		m.tags = append(m.tags, currentTag)
		m.inputs[StepTags].SetValue("")
		m.inputs[StepTags].Placeholder = fmt.Sprintf("Add another tag (%d added so far, Enter to finish)", len(m.tags))
		return m, nil

	case StepPriority:
		priorityInput := strings.TrimSpace(m.inputs[StepPriority].Value())
		if priorityInput == "" {
			m.priority = ""
			return m.nextStep()
		}
		switch strings.ToLower(priorityInput) {
		case "low", "medium", "med", "high", "1", "2", "3":
			m.priority = priorityInput
			return m.nextStep()
		}
		m.validationErr = "Invalid priority. Use: low, medium, high, 1, 2, or 3"
		return m, nil

	case StepDue:
		dueInput := strings.TrimSpace(m.inputs[StepDue].Value())
		if dueInput != "" {
			if _, err := parser.ParseDueDate(dueInput); err != nil {
				m.validationErr = "Invalid due date: " + err.Error()
				return m, nil
			}
		}
		m.due = dueInput
		return m.nextStep()

	case StepStart:
		startInput := strings.TrimSpace(m.inputs[StepStart].Value())
		if startInput != "" {
			if _, err := parser.ParseDueDate(startInput); err != nil {
				m.validationErr = "Invalid start date: " + err.Error()
				return m, nil
			}
		}
		m.start = startInput
		return m.nextStep()

	case StepRemind:
		remindInput := strings.ToLower(strings.TrimSpace(m.inputs[StepRemind].Value()))
		switch remindInput {
		case "", "on", "off", "yes", "no":
			m.remind = remindInput
			return m.nextStep()
		}
		m.validationErr = "Reminder must be on or off"
		return m, nil

	case StepSave:
		return m.saveTask()
	}

	return m, nil
}

// nextStep moves to the next step
func (m AddTaskModel) nextStep() (AddTaskModel, tea.Cmd) {
	if m.currentStep < StepSave {
		m.inputs[m.currentStep].Blur()
		m.currentStep++
		if m.currentStep < StepSave {
			m.inputs[m.currentStep].Focus()
		}
	}
	return m, textinput.Blink
}

// prevStep moves to the previous step
func (m AddTaskModel) prevStep() (AddTaskModel, tea.Cmd) {
	if m.currentStep > StepTitle {
		if m.currentStep < StepSave {
			m.inputs[m.currentStep].Blur()
		}
		m.currentStep--
		m.inputs[m.currentStep].Focus()
	}
	return m, textinput.Blink
}

// updateCurrentField updates the model field based on current input
func (m *AddTaskModel) updateCurrentField() {
	switch m.currentStep {
	case StepTitle:
		m.title = m.inputs[StepTitle].Value()
	case StepProject:
		m.project = m.inputs[StepProject].Value()
	case StepArea:
		m.area = m.inputs[StepArea].Value()
	case StepTags, StepPriority, StepRemind:
		// Handled in handleEnter, where the value is validated
	case StepDue:
		m.due = m.inputs[StepDue].Value()
	case StepStart:
		m.start = m.inputs[StepStart].Value()
	case StepNotes:
		m.notes = m.inputs[StepNotes].Value()
	}
}

// saveTask creates or updates the task in the store
func (m AddTaskModel) saveTask() (AddTaskModel, tea.Cmd) {
	var due, start *time.Time
	if m.due != "" {
		parsed, err := parser.ParseDueDate(m.due)
		if err != nil {
			m.validationErr = "Invalid due date: " + err.Error()
			return m, nil
		}
		due = parsed
	}
	if m.start != "" {
		parsed, err := parser.ParseDueDate(m.start)
		if err != nil {
			m.validationErr = "Invalid start date: " + err.Error()
			return m, nil
		}
		start = parsed
	}

	remind := m.remindOn()

	var task *models.Task
	var err error
	if m.isEditMode {
		req := store.UpdateTaskRequest{
			ID:       m.editTaskID,
			Title:    &m.title,
			Project:  &m.project,
			Area:     &m.area,
			Tags:     &m.tags,
			Priority: &m.priority,
			Note:     &m.notes,
			Remind:   &remind,
		}
		if due != nil {
			req.Due = due
		} else {
			req.ClearDue = true
		}
		if start != nil {
			req.StartAt = start
		} else {
			req.ClearStart = true
		}
		task, err = m.st.UpdateTask(req)
	} else {
		task, err = m.st.CreateTask(store.CreateTaskRequest{
			Title:    m.title,
			Project:  m.project,
			Area:     m.area,
			Tags:     m.tags,
			Priority: m.priority,
			Note:     m.notes,
			Due:      due,
			StartAt:  start,
			NoRemind: !remind,
		})
	}
	if err != nil {
		m.err = err
		m.validationErr = err.Error()
		return m, nil
	}

	m.completed = true
	m.saved = task
	return m, tea.Quit
}

// handleSaveChoice handles the save confirmation modal response
func (m AddTaskModel) handleSaveChoice() (AddTaskModel, tea.Cmd) {
	m.showSaveModal = false

	if m.saveModalChoice {
		return m.saveTask()
	}

	m.cancelled = true
	return m, tea.Quit
}

// renderSaveModal renders the save confirmation modal
func (m AddTaskModel) renderSaveModal() string {
	var content strings.Builder
	content.WriteString("Save changes?\n\n")

	yesStyle := lipgloss.NewStyle().Padding(0, 2)
	noStyle := lipgloss.NewStyle().Padding(0, 2)

	if m.saveModalChoice {
		yesStyle = yesStyle.
			Background(lipgloss.Color(ColorAccentBright)).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)
	} else {
		noStyle = noStyle.
			Background(lipgloss.Color(ColorError)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)
	}

	content.WriteString(lipgloss.JoinHorizontal(
		lipgloss.Center,
		yesStyle.Render("Yes"),
		"   ",
		noStyle.Render("No"),
	))
	content.WriteString("\n\n")
	content.WriteString("← → or Y/N to choose, Enter to confirm\nEsc to cancel")

	modalStyle := lipgloss.NewStyle().
		Width(50).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentBright)).
		Background(lipgloss.Color(ColorCardBackground)).
		Padding(1).
		Align(lipgloss.Center)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		modalStyle.Render(content.String()),
	)
}

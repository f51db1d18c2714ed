package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkravets/tickle/internal/parser"
	"github.com/mkravets/tickle/internal/store"
	"github.com/mkravets/tickle/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [task description]",
	Short: "Add a new task",
	Long: `Add a new task with optional metadata.

Modes:
  Interactive: tickle add -i (or just 'tickle add' with no arguments)
  Quick: tickle add "Task title" (with optional flags)
  Smart parsing: tickle add "Pay rent #bills @home ^life +high due:tomorrow"

Smart parsing syntax:
  #tag1,tag2  - Tags (comma-separated or individual)
  @project    - Project name
  ^area       - Area name
  +priority   - Priority (low/medium/high or 1/2/3)
  due:3days   - Due date (dd/mm/yyyy, today, tomorrow, X days, X hours, X weeks)
  start:today - Start date (same formats as due)
  remind:off  - Skip the due-date reminder for this task`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		interactive, _ := cmd.Flags().GetBool("interactive")

		// If no args and not explicitly interactive, go interactive
		if len(args) == 0 && !interactive {
			interactive = true
		}

		if interactive {
			prefilled := make(map[string]string)
			if len(args) > 0 {
				prefilled["title"] = strings.Join(args, " ")
			}
			fillFromFlags(cmd, prefilled)
			runInteractiveAdd(prefilled)
			return
		}

		title := strings.Join(args, " ")
		parsed := parser.ParseTitle(title)

		if len(parsed.Errors) > 0 {
			// There were parsing errors, fall back to interactive with pre-filled data
			fmt.Printf("⚠️  Found issues with parsing: %s\n", strings.Join(parsed.Errors, ", "))
			fmt.Println("Opening interactive mode for confirmation...")
			prefilled := prefillFromParsed(parsed)
			fillFromFlags(cmd, prefilled)
			runInteractiveAdd(prefilled)
			return
		}

		runDirectAdd(cmd, parsed)
	},
}

// fillFromFlags overlays explicit flags onto the form values. Flags
// take precedence over smart-parsed metadata.
func fillFromFlags(cmd *cobra.Command, prefilled map[string]string) {
	if project, _ := cmd.Flags().GetString("project"); project != "" {
		prefilled["project"] = project
	}
	if area, _ := cmd.Flags().GetString("area"); area != "" {
		prefilled["area"] = area
	}
	if tags, _ := cmd.Flags().GetStringSlice("tags"); len(tags) > 0 {
		prefilled["tags"] = strings.Join(tags, ", ")
	}
	if priority, _ := cmd.Flags().GetString("priority"); priority != "" {
		prefilled["priority"] = priority
	}
	if due, _ := cmd.Flags().GetString("due"); due != "" {
		prefilled["due"] = due
	}
	if start, _ := cmd.Flags().GetString("start"); start != "" {
		prefilled["start"] = start
	}
	if note, _ := cmd.Flags().GetString("note"); note != "" {
		prefilled["notes"] = note
	}
	if noRemind, _ := cmd.Flags().GetBool("no-remind"); noRemind {
		prefilled["remind"] = "off"
	}
}

// prefillFromParsed converts smart-parsed metadata back into form values.
func prefillFromParsed(parsed parser.ParsedTask) map[string]string {
	prefilled := make(map[string]string)
	prefilled["title"] = parsed.Title

	if parsed.Project != "" {
		prefilled["project"] = parsed.Project
	}
	if parsed.Area != "" {
		prefilled["area"] = parsed.Area
	}
	if len(parsed.Tags) > 0 {
		prefilled["tags"] = strings.Join(parsed.Tags, ", ")
	}
	if parsed.Priority != "" {
		prefilled["priority"] = parsed.Priority
	}
	if parsed.Due != nil {
		prefilled["due"] = parsed.Due.Format("02/01/2006")
	}
	if parsed.StartAt != nil {
		prefilled["start"] = parsed.StartAt.Format("02/01/2006")
	}
	if parsed.NoRemind {
		prefilled["remind"] = "off"
	}
	return prefilled
}

// runInteractiveAdd starts the add form and reconciles the reminder for
// whatever it saved.
func runInteractiveAdd(prefilled map[string]string) {
	task, err := tui.RunAddTaskTUI(st, prefilled)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if task != nil {
		reconcileTask(task)
		printReminderLine(task)
	}
}

// runDirectAdd creates task directly without TUI
func runDirectAdd(cmd *cobra.Command, parsed parser.ParsedTask) {
	// Start with parsed data, let explicit flags win
	req := store.CreateTaskRequest{
		Title:    parsed.Title,
		Project:  parsed.Project,
		Area:     parsed.Area,
		Tags:     parsed.Tags,
		Priority: parsed.Priority,
		Due:      parsed.Due,
		StartAt:  parsed.StartAt,
		NoRemind: parsed.NoRemind,
	}

	if project, _ := cmd.Flags().GetString("project"); project != "" {
		req.Project = project
	}
	if area, _ := cmd.Flags().GetString("area"); area != "" {
		req.Area = area
	}
	if tags, _ := cmd.Flags().GetStringSlice("tags"); len(tags) > 0 {
		req.Tags = tags
	}
	if priority, _ := cmd.Flags().GetString("priority"); priority != "" {
		req.Priority = priority
	}
	if due, _ := cmd.Flags().GetString("due"); due != "" {
		parsedDue, err := parser.ParseDueDate(due)
		if err != nil {
			fmt.Printf("Error parsing due date: %v\n", err)
			return
		}
		req.Due = parsedDue
	}
	if start, _ := cmd.Flags().GetString("start"); start != "" {
		parsedStart, err := parser.ParseDueDate(start)
		if err != nil {
			fmt.Printf("Error parsing start date: %v\n", err)
			return
		}
		req.StartAt = parsedStart
	}
	if noRemind, _ := cmd.Flags().GetBool("no-remind"); noRemind {
		req.NoRemind = true
	}
	req.Note, _ = cmd.Flags().GetString("note")

	task, err := st.CreateTask(req)
	if err != nil {
		fmt.Printf("Error creating task: %v\n", err)
		return
	}

	fmt.Printf("Created task #%d: %s\n", task.ID, task.Title)
	if req.Project != "" {
		fmt.Printf("  Project: %s\n", req.Project)
	}
	if req.Area != "" {
		fmt.Printf("  Area: %s\n", req.Area)
	}
	if len(task.Tags) > 0 {
		var tagNames []string
		for _, tag := range task.Tags {
			tagNames = append(tagNames, tag.Name)
		}
		fmt.Printf("  Tags: %s\n", strings.Join(tagNames, ", "))
	}
	if task.Priority > 0 {
		fmt.Printf("  Priority: %s\n", priorityName(task.Priority))
	}
	if task.Due != nil {
		fmt.Printf("  Due: %s\n", parser.FormatDueDate(task.Due))
	}
	if task.StartAt != nil {
		fmt.Printf("  Starts: %s\n", task.StartAt.Format("02/01/2006"))
	}

	reconcileTask(task)
	printReminderLine(task)
}

// priorityName maps the stored priority to its display name.
func priorityName(priority int) string {
	priorities := []string{"", "low", "medium", "high"}
	if priority > 0 && priority < len(priorities) {
		return priorities[priority]
	}
	return ""
}

func init() {
	// Add flags to the add command
	addCmd.Flags().BoolP("interactive", "i", false, "Interactive mode with TUI")
	addCmd.Flags().StringP("project", "p", "", "Project name")
	addCmd.Flags().String("area", "", "Area name")
	addCmd.Flags().StringSliceP("tags", "t", []string{}, "Comma-separated tags")
	addCmd.Flags().String("priority", "", "Priority: low, medium, high, or 1-3")
	addCmd.Flags().String("due", "", "Due date: dd/mm/yyyy, today, tomorrow, X days, X hours, X weeks")
	addCmd.Flags().String("start", "", "Start date: same formats as --due")
	addCmd.Flags().String("note", "", "Additional notes")
	addCmd.Flags().Bool("no-remind", false, "Skip the due-date reminder for this task")
}

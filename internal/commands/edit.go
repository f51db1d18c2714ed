package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/parser"
	"github.com/mkravets/tickle/internal/store"
	"github.com/mkravets/tickle/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit <task_id>",
	Short: "Edit an existing task",
	Long: `Edit an existing task.

With flags, applies a partial update and leaves everything else alone:
  tickle edit 42 --due tomorrow
  tickle edit 42 --project "" --note "moved out of the project"
  tickle edit 42 --no-remind

Without flags, opens the interactive form pre-populated with the
current task data:
  tickle edit 42`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initApp()

		taskID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: Invalid task ID '%s'. Please provide a valid numeric ID.\n", args[0])
			return
		}

		task, err := st.GetTaskByID(uint(taskID))
		if err != nil {
			fmt.Printf("Error: Task #%d not found.\n", taskID)
			return
		}

		if !anyEditFlag(cmd) {
			runInteractiveEdit(task)
			return
		}

		req, err := updateFromFlags(cmd, task.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		updated, err := st.UpdateTask(req)
		if err != nil {
			fmt.Printf("Error updating task: %v\n", err)
			return
		}

		fmt.Printf("✏️  Updated task #%d: %s\n", updated.ID, updated.Title)
		reconcileTask(updated)
		printReminderLine(updated)
	},
}

var editFlagNames = []string{
	"title", "project", "area", "tags", "priority",
	"due", "clear-due", "start", "clear-start",
	"note", "remind", "no-remind",
}

// anyEditFlag reports whether any update flag was set; none means the
// interactive form.
func anyEditFlag(cmd *cobra.Command) bool {
	for _, name := range editFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// updateFromFlags builds the partial update. Only flags the user set
// land in the request; empty --project/--area mean detach.
func updateFromFlags(cmd *cobra.Command, taskID uint) (store.UpdateTaskRequest, error) {
	req := store.UpdateTaskRequest{ID: taskID}
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		req.Title = &title
	}
	if flags.Changed("project") {
		project, _ := flags.GetString("project")
		req.Project = &project
	}
	if flags.Changed("area") {
		area, _ := flags.GetString("area")
		req.Area = &area
	}
	if flags.Changed("tags") {
		tags, _ := flags.GetStringSlice("tags")
		req.Tags = &tags
	}
	if flags.Changed("priority") {
		priority, _ := flags.GetString("priority")
		req.Priority = &priority
	}
	if flags.Changed("note") {
		note, _ := flags.GetString("note")
		req.Note = &note
	}

	if flags.Changed("due") {
		raw, _ := flags.GetString("due")
		due, err := parser.ParseDueDate(raw)
		if err != nil {
			return req, fmt.Errorf("invalid --due: %w", err)
		}
		req.Due = due
	}
	if clearDue, _ := flags.GetBool("clear-due"); clearDue {
		req.ClearDue = true
	}

	if flags.Changed("start") {
		raw, _ := flags.GetString("start")
		start, err := parser.ParseDueDate(raw)
		if err != nil {
			return req, fmt.Errorf("invalid --start: %w", err)
		}
		req.StartAt = start
	}
	if clearStart, _ := flags.GetBool("clear-start"); clearStart {
		req.ClearStart = true
	}

	remindOn, _ := flags.GetBool("remind")
	remindOff, _ := flags.GetBool("no-remind")
	if remindOn && remindOff {
		return req, fmt.Errorf("--remind and --no-remind are mutually exclusive")
	}
	if flags.Changed("remind") {
		req.Remind = &remindOn
	}
	if flags.Changed("no-remind") {
		off := !remindOff
		req.Remind = &off
	}

	return req, nil
}

// runInteractiveEdit opens the form prefilled with the current task and
// reconciles whatever it saved.
func runInteractiveEdit(task *models.Task) {
	prefilled := make(map[string]string)
	prefilled["title"] = task.Title
	prefilled["notes"] = task.Note

	projects, areas := entityNames()
	if task.ProjectID != nil {
		prefilled["project"] = projects[*task.ProjectID]
	}
	if task.AreaID != nil {
		prefilled["area"] = areas[*task.AreaID]
	}

	if name := priorityName(task.Priority); name != "" {
		prefilled["priority"] = name
	}

	if len(task.Tags) > 0 {
		var tagNames []string
		for _, tag := range task.Tags {
			tagNames = append(tagNames, tag.Name)
		}
		prefilled["tags"] = strings.Join(tagNames, ", ")
	}

	if task.Due != nil {
		prefilled["due"] = task.Due.Format("02/01/2006")
	}
	if task.StartAt != nil {
		prefilled["start"] = task.StartAt.Format("02/01/2006")
	}
	if !task.Remind {
		prefilled["remind"] = "off"
	}

	updated, err := tui.RunEditTaskTUI(st, task.ID, prefilled)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if updated != nil {
		reconcileTask(updated)
		printReminderLine(updated)
	}
}

func init() {
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().StringP("project", "p", "", "Project name (empty string detaches)")
	editCmd.Flags().String("area", "", "Area name (empty string detaches)")
	editCmd.Flags().StringSliceP("tags", "t", []string{}, "Replace tags (comma-separated)")
	editCmd.Flags().String("priority", "", "Priority: low, medium, high, 1-3, or empty to clear")
	editCmd.Flags().String("due", "", "New due date")
	editCmd.Flags().Bool("clear-due", false, "Remove the due date")
	editCmd.Flags().String("start", "", "New start date")
	editCmd.Flags().Bool("clear-start", false, "Remove the start date")
	editCmd.Flags().String("note", "", "Replace the note")
	editCmd.Flags().Bool("remind", false, "Turn the due-date reminder on")
	editCmd.Flags().Bool("no-remind", false, "Turn the due-date reminder off")
}

package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/parser"
	"github.com/mkravets/tickle/internal/store"
	"github.com/mkravets/tickle/internal/tui"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Long:    "List tasks with optional filters for status, project, area, tags, and due dates",
	Run: func(cmd *cobra.Command, args []string) {
		initApp()

		opts, err := queryOptsFromFlags(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		tasks, err := st.ListTasks(opts)
		if err != nil {
			fmt.Printf("Error fetching tasks: %v\n", err)
			return
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			printTasksJSON(tasks)
			return
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found. Use 'tickle add \"task description\"' to create your first task.")
			return
		}

		renderTaskTable(tasks)
	},
}

// queryOptsFromFlags translates the shared ls/search filter flags into
// store query options. Default view is todo tasks; --all lifts the
// status filter entirely.
func queryOptsFromFlags(cmd *cobra.Command) (store.TaskQueryOptions, error) {
	opts := store.TaskQueryOptions{}

	opts.Status, _ = cmd.Flags().GetString("status")
	all, _ := cmd.Flags().GetBool("all")
	if opts.Status == "" && !all {
		opts.Status = models.StatusTodo
	}

	opts.Project, _ = cmd.Flags().GetString("project")
	opts.Area, _ = cmd.Flags().GetString("area")
	opts.Tag, _ = cmd.Flags().GetString("tag")
	opts.Overdue, _ = cmd.Flags().GetBool("overdue")

	if before, _ := cmd.Flags().GetString("due-before"); before != "" {
		t, err := parser.ParseDueDate(before)
		if err != nil {
			return opts, fmt.Errorf("invalid --due-before: %w", err)
		}
		opts.DueBefore = t
	}
	if after, _ := cmd.Flags().GetString("due-after"); after != "" {
		t, err := parser.ParseDueDate(after)
		if err != nil {
			return opts, fmt.Errorf("invalid --due-after: %w", err)
		}
		opts.DueAfter = t
	}
	return opts, nil
}

// taskView is the JSON shape for scripted output, with project and area
// resolved to names.
type taskView struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Priority  string     `json:"priority,omitempty"`
	Project   string     `json:"project,omitempty"`
	Area      string     `json:"area,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Due       *time.Time `json:"due,omitempty"`
	StartAt   *time.Time `json:"start_at,omitempty"`
	Remind    bool       `json:"remind"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func printTasksJSON(tasks []models.Task) {
	projects, areas := entityNames()

	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		view := taskView{
			ID:        task.ID,
			Title:     task.Title,
			Status:    task.Status,
			Priority:  priorityName(task.Priority),
			Due:       task.Due,
			StartAt:   task.StartAt,
			Remind:    task.Remind,
			Note:      task.Note,
			CreatedAt: task.CreatedAt,
		}
		if task.ProjectID != nil {
			view.Project = projects[*task.ProjectID]
		}
		if task.AreaID != nil {
			view.Area = areas[*task.AreaID]
		}
		for _, tag := range task.Tags {
			view.Tags = append(view.Tags, tag.Name)
		}
		views = append(views, view)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(views); err != nil {
		fmt.Printf("Error encoding tasks: %v\n", err)
	}
}

// entityNames loads id→name maps for projects and areas. Tasks only
// carry the IDs, so table and JSON output resolve names here.
func entityNames() (map[uint]string, map[uint]string) {
	projects := make(map[uint]string)
	areas := make(map[uint]string)

	if list, err := st.ListProjects(); err == nil {
		for _, p := range list {
			projects[p.ID] = p.Name
		}
	}
	if list, err := st.ListAreas(); err == nil {
		for _, a := range list {
			areas[a.ID] = a.Name
		}
	}
	return projects, areas
}

// renderTaskTable prints the shared task table used by ls and search.
func renderTaskTable(tasks []models.Task) {
	projects, _ := entityNames()

	fmt.Printf("%-5s %-8s %-38s %-14s %-6s %-10s %s\n",
		"ID", "STATUS", "TITLE", "PROJECT", "PRI", "DUE", "TAGS")
	fmt.Println(strings.Repeat("-", 92))

	for _, task := range tasks {
		var tagNames []string
		for _, tag := range task.Tags {
			tagNames = append(tagNames, tag.Name)
		}
		tagsStr := strings.Join(tagNames, ",")

		priorities := []string{"", "low", "med", "high"}
		priorityStr := ""
		if task.Priority > 0 && task.Priority < len(priorities) {
			priorityStr = priorities[task.Priority]
		}

		title := task.Title
		if len(title) > 36 {
			title = title[:33] + "..."
		}

		project := ""
		if task.ProjectID != nil {
			project = projects[*task.ProjectID]
		}
		if len(project) > 12 {
			project = project[:9] + "..."
		}

		fmt.Printf("%-5d %-8s %-38s %-14s %-6s %s %s\n",
			task.ID,
			task.Status,
			title,
			project,
			priorityStr,
			dueCell(&task, 10),
			tagsStr)
	}
}

// dueCell renders the compact due column, padded to width before
// styling so the ANSI codes do not break alignment.
func dueCell(task *models.Task, width int) string {
	text := compactDue(task.Due)
	padded := fmt.Sprintf("%-*s", width, text)

	if task.Due == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorDisabledText)).Render(padded)
	}

	now := time.Now()
	days := calendarDays(now, *task.Due)
	switch {
	case days < 0 && task.Status == models.StatusTodo:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorError)).Render(padded)
	case days <= 1 && task.Status == models.StatusTodo:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorWarning)).Render(padded)
	case days <= 7 && task.Status == models.StatusTodo:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorAccentBright)).Render(padded)
	default:
		return padded
	}
}

// compactDue is the short table form: OVERDUE, TODAY, TOMORROW, Nd, or
// the date itself for far-out tasks.
func compactDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	days := calendarDays(time.Now(), *due)
	switch {
	case days < 0:
		return "OVERDUE"
	case days == 0:
		return "TODAY"
	case days == 1:
		return "TOMORROW"
	case days <= 7:
		return fmt.Sprintf("%dd", days)
	default:
		return due.Format("02/01")
	}
}

// calendarDays counts whole calendar days from now to t, negative for
// the past.
func calendarDays(now, t time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return int(day.Sub(today).Hours() / 24)
}

// registerFilterFlags adds the shared ls/search filter set to a command.
func registerFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("status", "s", "", "Filter by status: todo, done, archived")
	cmd.Flags().StringP("project", "p", "", "Filter by project")
	cmd.Flags().String("area", "", "Filter by area")
	cmd.Flags().StringP("tag", "t", "", "Filter by tag")
	cmd.Flags().Bool("overdue", false, "Show only overdue todo tasks")
	cmd.Flags().String("due-before", "", "Only tasks due on or before this date")
	cmd.Flags().String("due-after", "", "Only tasks due on or after this date")
	cmd.Flags().BoolP("all", "a", false, "Include done and archived tasks")
	cmd.Flags().Bool("json", false, "JSON output")
}

func init() {
	registerFilterFlags(listCmd)
}

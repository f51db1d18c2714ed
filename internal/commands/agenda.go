package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/store"
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show upcoming tasks grouped by day",
	Long:  "Show overdue tasks and the next days of due tasks, with reminder times where one is scheduled",
	Run: func(cmd *cobra.Command, args []string) {
		initApp()

		days, _ := cmd.Flags().GetInt("days")
		if days < 1 {
			days = 1
		}

		tasks, err := st.ListTasks(store.TaskQueryOptions{Status: models.StatusTodo})
		if err != nil {
			fmt.Printf("Error fetching tasks: %v\n", err)
			return
		}

		now := time.Now()
		var overdue []models.Task
		byDay := make(map[int][]models.Task)

		for _, task := range tasks {
			if task.Due == nil {
				continue
			}
			diff := calendarDays(now, *task.Due)
			switch {
			case diff < 0:
				overdue = append(overdue, task)
			case diff < days:
				byDay[diff] = append(byDay[diff], task)
			}
		}

		if len(overdue) == 0 && len(byDay) == 0 {
			fmt.Printf("Nothing due in the next %d day(s). 🎉\n", days)
			return
		}

		if len(overdue) > 0 {
			sort.Slice(overdue, func(i, j int) bool { return overdue[i].Due.Before(*overdue[j].Due) })
			fmt.Printf("⚠️  Overdue (%d)\n", len(overdue))
			for _, task := range overdue {
				printAgendaLine(&task, now)
			}
			fmt.Println()
		}

		for offset := 0; offset < days; offset++ {
			dayTasks, ok := byDay[offset]
			if !ok {
				continue
			}
			sort.Slice(dayTasks, func(i, j int) bool { return dayTasks[i].Due.Before(*dayTasks[j].Due) })

			day := now.AddDate(0, 0, offset)
			switch offset {
			case 0:
				fmt.Printf("🔥 Today — %s\n", day.Format("Monday, 02 Jan"))
			case 1:
				fmt.Printf("📅 Tomorrow — %s\n", day.Format("Monday, 02 Jan"))
			default:
				fmt.Printf("📅 %s\n", day.Format("Monday, 02 Jan"))
			}
			for _, task := range dayTasks {
				printAgendaLine(&task, now)
			}
			fmt.Println()
		}
	},
}

// printAgendaLine prints a single agenda row: id, title, due time,
// reminder marker, priority.
func printAgendaLine(task *models.Task, now time.Time) {
	var parts []string
	parts = append(parts, fmt.Sprintf("#%-4d %s", task.ID, task.Title))

	if task.Due != nil {
		parts = append(parts, task.Due.Format("15:04"))
	}

	if req, ok := cfg.Policy().Request(task, now); ok {
		if calendarDays(now, req.FireAt) == calendarDays(now, *task.Due) {
			parts = append(parts, fmt.Sprintf("🔔 %s", req.FireAt.Format("15:04")))
		} else {
			parts = append(parts, fmt.Sprintf("🔔 %s", req.FireAt.Format("02/01 15:04")))
		}
	}

	if name := priorityName(task.Priority); name != "" {
		parts = append(parts, "+"+name)
	}

	fmt.Printf("  %s\n", strings.Join(parts, "  "))
}

func init() {
	agendaCmd.Flags().IntP("days", "d", 7, "How many days ahead to show")
}

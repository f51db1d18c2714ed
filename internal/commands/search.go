package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search tasks by title and notes",
	Long: `Search tasks with case-insensitive matching across title and notes.

The usual ls filters (--status, --project, --area, --tag, --overdue,
--all) narrow the result set. Default scope is todo tasks; --all
searches everything that is not deleted.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		query := strings.Join(args, " ")

		opts, err := queryOptsFromFlags(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		tasks, err := st.SearchTasks(query, opts)
		if err != nil {
			fmt.Printf("Error searching tasks: %v\n", err)
			return
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			printTasksJSON(tasks)
			return
		}

		fmt.Printf("Search results for '%s' (%d found):\n", query, len(tasks))
		if len(tasks) == 0 {
			fmt.Println("No tasks found matching your search.")
			return
		}

		fmt.Println()
		renderTaskTable(tasks)
	},
}

func init() {
	// Same filter set as ls
	registerFilterFlags(searchCmd)
}

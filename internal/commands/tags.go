package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/store"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List all tags with open task counts",
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		tags, err := st.ListTags()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(tags) == 0 {
			fmt.Println("No tags yet. Tag tasks with '#name' in 'tickle add'.")
			return
		}

		fmt.Printf("%-20s %s\n", "TAG", "OPEN")
		fmt.Println(strings.Repeat("-", 28))
		for _, tag := range tags {
			open := 0
			tasks, err := st.ListTasks(store.TaskQueryOptions{
				Status: models.StatusTodo,
				Tag:    tag.Name,
			})
			if err == nil {
				open = len(tasks)
			}
			fmt.Printf("%-20s %d\n", tag.Name, open)
		}
	},
}

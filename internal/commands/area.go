package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/store"
)

var areaCmd = &cobra.Command{
	Use:   "area",
	Short: "Manage areas",
	Long:  "Add, list, and remove areas. Areas are broad buckets like Work or Home.",
}

var areaAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an area",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		name := strings.Join(args, " ")

		area, err := st.CreateArea(name)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🗂️  Created area: %s\n", area.Name)
	},
}

var areaLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List areas with open task counts",
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		areas, err := st.ListAreas()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(areas) == 0 {
			fmt.Println("No areas yet. Use 'tickle area add <name>' to create one.")
			return
		}

		fmt.Printf("%-20s %s\n", "AREA", "OPEN")
		fmt.Println(strings.Repeat("-", 28))
		for _, area := range areas {
			open := 0
			tasks, err := st.ListTasks(store.TaskQueryOptions{
				Status: models.StatusTodo,
				Area:   area.Name,
			})
			if err == nil {
				open = len(tasks)
			}
			fmt.Printf("%-20s %d\n", area.Name, open)
		}
	},
}

var areaRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete an area",
	Long: `Delete an area.

Member projects are always detached, never deleted. Member tasks are
detached by default, or soft-deleted with --cascade. Reminders for
every affected task are brought back in sync either way.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		name := strings.Join(args, " ")
		cascade, _ := cmd.Flags().GetBool("cascade")

		area, err := st.GetAreaByName(name)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if err := st.DeleteArea(area.ID, cascade); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if cascade {
			fmt.Printf("🗑️  Deleted area %s and its tasks\n", area.Name)
		} else {
			fmt.Printf("🗑️  Deleted area %s (tasks and projects kept, detached)\n", area.Name)
		}

		resyncAll()
	},
}

func init() {
	areaRmCmd.Flags().Bool("cascade", false, "Also delete the area's tasks")

	areaCmd.AddCommand(areaAddCmd)
	areaCmd.AddCommand(areaLsCmd)
	areaCmd.AddCommand(areaRmCmd)
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/store"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  "Add, list, and remove projects. Tasks reference projects by name.",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		name := strings.Join(args, " ")
		area, _ := cmd.Flags().GetString("area")

		project, err := st.CreateProject(name, area)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("📁 Created project: %s\n", project.Name)
	},
}

var projectLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List projects with open task counts",
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		projects, err := st.ListProjects()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(projects) == 0 {
			fmt.Println("No projects yet. Use 'tickle project add <name>' to create one.")
			return
		}

		_, areas := entityNames()

		fmt.Printf("%-20s %-12s %s\n", "PROJECT", "AREA", "OPEN")
		fmt.Println(strings.Repeat("-", 42))
		for _, project := range projects {
			area := ""
			if project.AreaID != nil {
				area = areas[*project.AreaID]
			}
			open := 0
			tasks, err := st.ListTasks(store.TaskQueryOptions{
				Status:  models.StatusTodo,
				Project: project.Name,
			})
			if err == nil {
				open = len(tasks)
			}
			fmt.Printf("%-20s %-12s %d\n", project.Name, area, open)
		}
	},
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a project",
	Long: `Delete a project.

By default its tasks are detached and stay alive. With --cascade the
tasks are soft-deleted along with it. Reminders for every affected
task are brought back in sync either way.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		name := strings.Join(args, " ")
		cascade, _ := cmd.Flags().GetBool("cascade")

		project, err := st.GetProjectByName(name)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if err := st.DeleteProject(project.ID, cascade); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if cascade {
			fmt.Printf("🗑️  Deleted project %s and its tasks\n", project.Name)
		} else {
			fmt.Printf("🗑️  Deleted project %s (tasks kept, detached)\n", project.Name)
		}

		// One-shot invocation: nothing is consuming the change stream,
		// so bring the reminders in line here.
		resyncAll()
	},
}

func init() {
	projectAddCmd.Flags().String("area", "", "Attach the project to an area")
	projectRmCmd.Flags().Bool("cascade", false, "Also delete the project's tasks")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectLsCmd)
	projectCmd.AddCommand(projectRmCmd)
}

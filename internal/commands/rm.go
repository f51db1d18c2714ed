package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task (soft delete, restorable)",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		taskID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid task ID '%s'\n", args[0])
			return
		}

		// Snapshot the title before the row disappears from default scope
		task, err := st.GetTaskByID(uint(taskID))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		title := task.Title

		if err := st.DeleteTask(uint(taskID)); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("🗑️  Deleted task #%d: %s\n", taskID, title)
		fmt.Printf("Use 'tickle restore %d' to bring it back.\n", taskID)

		// Deleted tasks must not keep a pending reminder
		cancelReminder(uint(taskID))
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [task-id]",
	Short: "Restore a deleted task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		taskID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid task ID '%s'\n", args[0])
			return
		}

		task, err := st.RestoreTask(uint(taskID))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("♻️  Restored task #%d: %s\n", task.ID, task.Title)
		fmt.Printf("Status: %s\n", task.Status)

		reconcileTask(task)
		printReminderLine(task)
	},
}

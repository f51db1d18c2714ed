package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/tickle/internal/backup"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all tasks to a JSON backup",
	Long: `Export areas, projects and tasks to a JSON backup file.

Without an argument the backup goes to tickle-backup-<date>.json in
the current directory. Reminders are not exported; they are derived
state and come back on import.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initApp()

		path := fmt.Sprintf("tickle-backup-%s.json", time.Now().Format("2006-01-02"))
		if len(args) == 1 {
			path = args[0]
		}

		b, err := backup.Dump(st)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			fmt.Printf("Error encoding backup: %v\n", err)
			return
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", path, err)
			return
		}

		fmt.Printf("📦 Exported %d task(s) to %s\n", len(b.Tasks), path)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import tasks from a JSON backup",
	Long: `Import a backup produced by 'tickle export'.

The file is validated against the backup schema before anything is
written. Imported tasks are added to what is already there, and
reminders are reconciled for all of them afterwards.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initApp()

		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", args[0], err)
			return
		}

		b, err := backup.Parse(data)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		tasks, err := backup.Restore(st, b)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("📥 Imported %d task(s) from %s\n", len(tasks), args[0])

		// The import bypasses per-command reconciles, so repair the
		// whole pending set in one pass.
		resyncAll()
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and cancel all reminders",
	Long: `Delete every task, project, area and tag, and cancel every pending
reminder. This cannot be undone; it requires --yes.`,
	Run: func(cmd *cobra.Command, args []string) {
		confirmed, _ := cmd.Flags().GetBool("yes")
		if !confirmed {
			fmt.Println("Refusing to reset without --yes.")
			fmt.Println("This deletes all tasks, projects, areas, tags and reminders.")
			return
		}

		initApp()
		ctx, cancel := opCtx()
		defer cancel()

		// Reminders first: once the tasks are gone there is nothing to
		// diff the pending set against.
		if err := scheduler.CancelAll(ctx); err != nil {
			fmt.Printf("Error cancelling reminders: %v\n", err)
			return
		}

		if err := st.Reset(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Println("💥 All data deleted.")
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}

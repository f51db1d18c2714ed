package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mkravets/tickle/internal/config"
	"github.com/mkravets/tickle/internal/logging"
	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/notify"
	"github.com/mkravets/tickle/internal/parser"
	"github.com/mkravets/tickle/internal/reminder"
	"github.com/mkravets/tickle/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Shared application state, wired by initApp.
var (
	cfg       *config.Config
	logger    *log.Logger
	st        *store.Store
	platform  *notify.LocalPlatform
	scheduler *reminder.Scheduler
)

var rootCmd = &cobra.Command{
	Use:   "tickle",
	Short: "A CLI task manager with reliable due-date reminders",
	Long: `tickle is a command-line task manager that keeps local notifications
in sync with your tasks. Organize work into projects, areas and tags,
set due dates, and the reminder scheduler handles the rest.`,
}

// initApp loads configuration and wires the store, notification
// platform and reminder scheduler. Commands call it first thing in Run.
func initApp() {
	var err error

	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	st, err = store.Open(cfg.DBPath(), store.Options{StreamBuffer: cfg.StreamBuffer})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open task store: %v\n", err)
		os.Exit(1)
	}

	platform, err = notify.NewLocalPlatform(cfg.NotifyStatePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open notification state: %v\n", err)
		os.Exit(1)
	}

	scheduler = reminder.NewScheduler(st, platform, cfg.Policy(), logger)
}

// opCtx bounds one-shot scheduler and platform calls from commands.
func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// reconcileTask syncs one task's reminder after a mutation. The task
// itself is already saved, so a scheduling failure is reported rather
// than failing the command; re-running any mutating command retries.
func reconcileTask(task *models.Task) {
	ctx, cancel := opCtx()
	defer cancel()

	if err := scheduler.Reconcile(ctx, task); err != nil {
		fmt.Printf("⚠️  Reminder not updated: %v\n", err)
	}
}

// cancelReminder drops a task's reminder by id. Used after deletions,
// where no snapshot survives to reconcile against.
func cancelReminder(taskID uint) {
	ctx, cancel := opCtx()
	defer cancel()

	if err := scheduler.CancelReminder(ctx, taskID); err != nil {
		fmt.Printf("⚠️  Reminder not cancelled: %v\n", err)
	}
}

// resyncAll repairs the whole pending set against the active task set.
// Used after bulk operations: imports and project/area deletions.
func resyncAll() {
	ctx, cancel := opCtx()
	defer cancel()

	tasks, err := st.ActiveTasks()
	if err != nil {
		fmt.Printf("⚠️  Reminder sync skipped: %v\n", err)
		return
	}

	failures, err := scheduler.ReconcileAll(ctx, tasks)
	if err != nil {
		fmt.Printf("⚠️  Reminder sync failed: %v\n", err)
		return
	}
	for _, f := range failures {
		fmt.Printf("⚠️  Task #%d reminder: %v\n", f.TaskID, f.Err)
	}
}

// printReminderLine shows when the task's reminder will fire, if the
// task wants one under the current policy.
func printReminderLine(task *models.Task) {
	req, ok := cfg.Policy().Request(task, time.Now())
	if !ok {
		return
	}

	switch scheduler.AuthorizationStatus() {
	case notify.AuthDenied:
		fmt.Println("🔕 Reminder skipped: notifications are disabled. Run 'tickle remind enable'.")
	case notify.AuthNotDetermined:
		fmt.Printf("%s (enable delivery with 'tickle remind enable')\n", parser.FormatFireAt(req.FireAt))
	default:
		fmt.Println(parser.FormatFireAt(req.FireAt))
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(agendaCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoneCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(unarchiveCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(areaCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}

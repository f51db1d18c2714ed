package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/tickle/internal/notify"
	"github.com/mkravets/tickle/internal/parser"
	"github.com/mkravets/tickle/internal/reminder"
	"github.com/mkravets/tickle/internal/tui"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage due-date reminders",
	Long: `Manage the local reminder system.

Reminders are derived from your tasks: every active task with a due
date and reminders on gets exactly one pending notification. The
subcommands inspect that set, repair it, and run the delivery daemon.`,
}

var remindStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show permission state and pending reminders",
	Run: func(cmd *cobra.Command, args []string) {
		initApp()

		switch platform.AuthorizationStatus() {
		case notify.AuthGranted:
			fmt.Println("🔔 Notifications: enabled")
		case notify.AuthDenied:
			fmt.Println("🔕 Notifications: disabled (run 'tickle remind enable')")
		default:
			fmt.Println("❔ Notifications: not set up yet (run 'tickle remind enable')")
		}

		ctx, cancel := opCtx()
		defer cancel()

		pending, err := platform.Pending(ctx)
		if err != nil {
			fmt.Printf("Error reading pending reminders: %v\n", err)
			return
		}

		if len(pending) == 0 {
			fmt.Println("No pending reminders.")
			return
		}

		sort.Slice(pending, func(i, j int) bool {
			return pending[i].FireAt.Before(pending[j].FireAt)
		})

		now := time.Now()
		fmt.Printf("\n%-6s %-18s %-12s %s\n", "TASK", "FIRES", "IN", "TITLE")
		fmt.Println(strings.Repeat("-", 60))
		for _, h := range pending {
			taskCol := "-"
			if id, ok := reminder.TaskIDFromHandle(h.ID); ok {
				taskCol = fmt.Sprintf("#%d", id)
			}
			title := h.Title
			if len(title) > 30 {
				title = title[:27] + "..."
			}
			fmt.Printf("%-6s %-18s %-12s %s\n",
				taskCol,
				h.FireAt.Format("02/01 15:04"),
				parser.FormatCountdown(h.FireAt.Sub(now)),
				title)
		}
	},
}

var remindSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile all reminders against active tasks",
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		ctx, cancel := opCtx()
		defer cancel()

		tasks, err := st.ActiveTasks()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		failures, err := scheduler.ReconcileAll(ctx, tasks)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		for _, f := range failures {
			fmt.Printf("⚠️  Task #%d: %v\n", f.TaskID, f.Err)
		}

		pending, _ := platform.Pending(ctx)
		fmt.Printf("🔄 Synced %d active task(s); %d reminder(s) pending.\n",
			len(tasks), len(pending))
	},
}

var remindEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable notifications and schedule reminders",
	Run: func(cmd *cobra.Command, args []string) {
		initApp()

		// Enable is an explicit user decision, so it overrides an
		// earlier denial rather than asking again.
		if err := platform.SetAuthorization(notify.AuthGranted); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Println("🔔 Notifications enabled.")

		resyncAll()

		ctx, cancel := opCtx()
		defer cancel()
		pending, _ := platform.Pending(ctx)
		fmt.Printf("%d reminder(s) pending.\n", len(pending))
	},
}

var remindDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable notifications and cancel all reminders",
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		ctx, cancel := opCtx()
		defer cancel()

		if err := scheduler.CancelAll(ctx); err != nil {
			fmt.Printf("Error cancelling reminders: %v\n", err)
			return
		}
		if err := platform.SetAuthorization(notify.AuthDenied); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Println("🔕 Notifications disabled. All pending reminders cancelled.")
	},
}

var remindClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Cancel all pending reminders",
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		ctx, cancel := opCtx()
		defer cancel()

		if err := scheduler.CancelAll(ctx); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Println("🧹 Cancelled all pending reminders.")
		fmt.Println("Run 'tickle remind sync' to schedule them again.")
	},
}

var remindRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reminder delivery daemon",
	Long: `Run the reminder daemon in the foreground.

The daemon reconciles all reminders on startup, follows task changes
live, fires due notifications on every tick, and does a full resync
on a slower cadence to repair anything missed. Stop with Ctrl-C.`,
	Run: func(cmd *cobra.Command, args []string) {
		initApp()

		tick := cfg.Tick()
		if raw, _ := cmd.Flags().GetString("tick"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				fmt.Printf("Error: invalid --tick: %v\n", err)
				return
			}
			tick = d
		}
		resync := cfg.Resync()
		if raw, _ := cmd.Flags().GetString("resync"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				fmt.Printf("Error: invalid --resync: %v\n", err)
				return
			}
			resync = d
		}

		runDaemon(tick, resync)
	},
}

// runDaemon is the remind run main loop.
func runDaemon(tick, resync time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig)
		cancel()
	}()

	logger.Info("reminder daemon starting",
		"tick", tick, "resync", resync,
		"authorization", platform.AuthorizationStatus())

	if err := daemonResync(ctx); err != nil {
		logger.Error("initial sync failed", "err", err)
	}

	// Follow task changes live. The subscription drops events under
	// backpressure; the periodic resync below repairs those.
	sub := st.Subscribe()
	defer sub.Unsubscribe()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- scheduler.Run(ctx, sub.Changes())
	}()

	deliverTicker := time.NewTicker(tick)
	defer deliverTicker.Stop()
	resyncTicker := time.NewTicker(resync)
	defer resyncTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("reminder daemon stopped")
			return

		case err := <-watchErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("change watcher exited", "err", err)
			}
			return

		case now := <-deliverTicker.C:
			fired, err := platform.DeliverDue(ctx, now)
			if err != nil {
				logger.Error("delivery failed", "err", err)
			}
			for _, h := range fired {
				logger.Info("delivered reminder", "handle", h.ID, "title", h.Title)
			}

		case <-resyncTicker.C:
			if err := daemonResync(ctx); err != nil {
				logger.Error("resync failed", "err", err)
			}
		}
	}
}

// daemonResync runs one full reconcile pass and logs the outcome.
func daemonResync(ctx context.Context) error {
	tasks, err := st.ActiveTasks()
	if err != nil {
		return err
	}

	failures, err := scheduler.ReconcileAll(ctx, tasks)
	if err != nil {
		return err
	}
	for _, f := range failures {
		logger.Warn("task failed to reconcile", "task", f.TaskID, "err", f.Err)
	}

	logger.Info("resync complete", "tasks", len(tasks), "failures", len(failures))
	return nil
}

var remindWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of upcoming reminders",
	Run: func(cmd *cobra.Command, args []string) {
		initApp()
		if err := tui.RunWatchTUI(platform); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	},
}

func init() {
	remindRunCmd.Flags().String("tick", "", "Delivery check interval (e.g. 30s), overrides config")
	remindRunCmd.Flags().String("resync", "", "Full resync interval (e.g. 5m), overrides config")

	remindCmd.AddCommand(remindStatusCmd)
	remindCmd.AddCommand(remindSyncCmd)
	remindCmd.AddCommand(remindEnableCmd)
	remindCmd.AddCommand(remindDisableCmd)
	remindCmd.AddCommand(remindClearCmd)
	remindCmd.AddCommand(remindRunCmd)
	remindCmd.AddCommand(remindWatchCmd)
}

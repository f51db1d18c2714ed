package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for tickle",
	Long:  `Display detailed help for all tickle commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
████████╗██╗ ██████╗██╗  ██╗██╗     ███████╗
╚══██╔══╝██║██╔════╝██║ ██╔╝██║     ██╔════╝
   ██║   ██║██║     █████╔╝ ██║     █████╗
   ██║   ██║██║     ██╔═██╗ ██║     ██╔══╝
   ██║   ██║╚██████╗██║  ██╗███████╗███████╗
   ╚═╝   ╚═╝ ╚═════╝╚═╝  ╚═╝╚══════╝╚══════╝

tickle - CLI tasks with reliable reminders

COMMANDS:

  add <task>              Create a new task with smart parsing
    -i, --interactive     Open the form
    -p, --project         Set project name
    --area                Set area name
    -t, --tags            Comma-separated tags
    --priority            Priority: low|medium|high
    --due                 Due date (dd/mm/yyyy, today, tomorrow, 3 days)
    --start               Start date (same formats)
    --note                Additional notes
    --no-remind           Skip the due-date reminder

    Smart syntax:
      #hashtags     Auto-create tags
      @project      Set project
      ^area         Set area
      +priority     Set priority (low/medium/high)
      due:tomorrow  Set due date
      start:today   Set start date
      remind:off    No reminder for this task

    Example:
      tickle add "Pay rent #bills @home ^life +high due:tomorrow"

  ls                      List tasks
    -s, --status          Filter by status: todo|done|archived
    -p, --project         Filter by project
    --area                Filter by area
    -t, --tag             Filter by tag
    --overdue             Only overdue todo tasks
    --due-before/-after   Due date range
    -a, --all             Include done and archived
    --json                JSON output

  agenda                  Overdue plus the next days, grouped by day
    -d, --days            How many days ahead (default 7)

  edit <id>               Partial update via flags, or the form with none
  done / undone <id>      Complete / un-complete (reminder follows)
  archive / unarchive <id>
  rm / restore <id>       Soft delete / bring back
  search <query>          Match against title and notes (ls filters apply)

  project add|ls|rm       Manage projects (--cascade deletes member tasks)
  area add|ls|rm          Manage areas (--cascade deletes member tasks)
  tags                    List tags

  remind status           Permission state + pending reminders
  remind sync             Reconcile reminders against active tasks
  remind enable|disable   Notifications on/off (disable cancels all)
  remind clear            Cancel all pending reminders
  remind run              Delivery daemon (--tick, --resync)
  remind watch            Live countdown view

  export [file]           JSON backup
  import <file>           Restore a backup (schema-validated)
  reset --yes             Delete everything

  version                 Show version
  help                    Show this help

Every task with a due date gets a reminder 30 minutes before it is
due (configurable). Run 'tickle remind enable' once, then keep
'tickle remind run' going to get notified.

`)
}

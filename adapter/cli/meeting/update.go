package meeting

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	meetingCommands "github.com/felixgeelhaar/rendezvous/internal/meetings/application/commands"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
)

var (
	updateSummary     string
	updateAttendees   string
	updateStart       string
	updateEnd         string
	updateDescription string
	updateDryRun      bool
)

var updateCmd = &cobra.Command{
	Use:   "update <event-id>",
	Short: "Change a meeting's time, title or attendees",
	Long: `Patch an existing event. Only the flags you pass are changed.

With --dry-run the new window is checked for conflicts and nothing is written.

Examples:
  rendezvous meeting update evt123 --start 2026-10-14T16:00 --end 2026-10-14T16:30
  rendezvous meeting update evt123 --start 2026-10-14T16:00 --end 2026-10-14T16:30 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		command := meetingCommands.UpdateMeetingCommand{
			EventID:   args[0],
			Attendees: domain.SplitAttendees(updateAttendees),
			DryRun:    updateDryRun,
		}
		if flags.Changed("summary") {
			command.Summary = &updateSummary
		}
		if flags.Changed("description") {
			command.Description = &updateDescription
		}
		if updateStart != "" {
			start, err := parseTime(app, "start", updateStart)
			if err != nil {
				return err
			}
			command.Start = &start
		}
		if updateEnd != "" {
			end, err := parseTime(app, "end", updateEnd)
			if err != nil {
				return err
			}
			command.End = &end
		}

		result := app.UpdateMeetingHandler.Handle(cmd.Context(), command)
		return cli.PrintResult(cmd.OutOrStdout(), result)
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateSummary, "summary", "", "new title")
	updateCmd.Flags().StringVar(&updateAttendees, "attendees", "", "replacement comma-separated attendee emails")
	updateCmd.Flags().StringVar(&updateStart, "start", "", "new start time (ISO-8601)")
	updateCmd.Flags().StringVar(&updateEnd, "end", "", "new end time (ISO-8601)")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "new description")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "only check the new time for conflicts")
}

package meeting

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	meetingCommands "github.com/felixgeelhaar/rendezvous/internal/meetings/application/commands"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
)

var (
	scheduleAttendees   string
	scheduleStart       string
	scheduleEnd         string
	scheduleDescription string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <summary>",
	Short: "Book a meeting and email the attendees",
	Long: `Create a calendar event with a video link and send the confirmation email.

Times are ISO-8601; values without an offset use MEETING_TIMEZONE.

Examples:
  rendezvous meeting schedule "Design review" --attendees raj@example.com,priya@example.com \
    --start 2026-10-14T15:00 --end 2026-10-14T15:30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		attendees := domain.SplitAttendees(scheduleAttendees)
		if len(attendees) == 0 {
			return errors.New("--attendees requires at least one email")
		}
		start, err := parseTime(app, "start", scheduleStart)
		if err != nil {
			return err
		}
		end, err := parseTime(app, "end", scheduleEnd)
		if err != nil {
			return err
		}

		result := app.ScheduleMeetingHandler.Handle(cmd.Context(), meetingCommands.ScheduleMeetingCommand{
			Summary:     args[0],
			Attendees:   attendees,
			Start:       start,
			End:         end,
			Description: scheduleDescription,
		})
		return cli.PrintResult(cmd.OutOrStdout(), result)
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleAttendees, "attendees", "", "comma-separated attendee emails")
	scheduleCmd.Flags().StringVar(&scheduleStart, "start", "", "start time (ISO-8601)")
	scheduleCmd.Flags().StringVar(&scheduleEnd, "end", "", "end time (ISO-8601)")
	scheduleCmd.Flags().StringVar(&scheduleDescription, "description", "", "event description")
	_ = scheduleCmd.MarkFlagRequired("attendees")
	_ = scheduleCmd.MarkFlagRequired("start")
	_ = scheduleCmd.MarkFlagRequired("end")
}

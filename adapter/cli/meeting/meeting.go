package meeting

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
)

// Cmd is the meeting command group.
var Cmd = &cobra.Command{
	Use:   "meeting",
	Short: "Schedule and manage meetings",
	Long:  `Schedule, reschedule, cancel and list calendar meetings directly.`,
}

func init() {
	Cmd.AddCommand(scheduleCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(upcomingCmd)
}

// parseTime reads a flag value in the meeting time zone.
func parseTime(app *cli.App, flag, value string) (time.Time, error) {
	t, err := domain.ParseTimestamp(value, app.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return t, nil
}

package meeting

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	meetingCommands "github.com/felixgeelhaar/rendezvous/internal/meetings/application/commands"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <event-id>",
	Short: "Cancel a meeting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		result := app.CancelMeetingHandler.Handle(cmd.Context(), meetingCommands.CancelMeetingCommand{EventID: args[0]})
		return cli.PrintResult(cmd.OutOrStdout(), result)
	},
}

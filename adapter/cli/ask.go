package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <request>",
	Short: "Ask the assistant in plain language",
	Long: `Interpret a meeting request and report availability, conflicts or
the confirmation needed before a change.

Examples:
  rendezvous ask "30 min with Raj tomorrow afternoon"
  rendezvous ask "move my sync with Priya on 2026-10-14 at 10:00 to 15:00"
  rendezvous ask "cancel the design review on 2026-10-14 at 11:00"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return errors.New("no query provided")
		}
		result := app.Assistant.ProcessMeetingRequest(cmd.Context(), query)
		return PrintResult(cmd.OutOrStdout(), result)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	identityOAuth "github.com/felixgeelhaar/rendezvous/internal/identity/application/oauth"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show configuration and authorization status",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		cfg := app.Config

		fmt.Fprintf(out, "User:      %s\n", cfg.UserEmail)
		fmt.Fprintf(out, "Time zone: %s\n", app.Location)
		fmt.Fprintf(out, "Calendar:  %s\n", cfg.CalendarProvider)
		fmt.Fprintf(out, "Notifier:  %s\n", cfg.Notifier)
		fmt.Fprintf(out, "Contacts:  %s\n", cfg.ContactsBackend)
		for _, purpose := range []identityOAuth.Purpose{identityOAuth.PurposeCalendar, identityOAuth.PurposeGmail} {
			fmt.Fprintf(out, "OAuth %-8s %s\n", purpose+":", oauthStatus(cmd.Context(), app, purpose))
		}
		return nil
	},
}

func oauthStatus(ctx context.Context, app *App, purpose identityOAuth.Purpose) string {
	service := app.OAuth.Get(purpose)
	if service == nil {
		return "client secrets missing"
	}
	if _, err := service.TokenSource(ctx); err != nil {
		return "not authorized (run: rendezvous auth " + string(purpose) + ")"
	}
	return "authorized"
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

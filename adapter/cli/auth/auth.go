// Package auth provides the OAuth authorization commands.
package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	identityOAuth "github.com/felixgeelhaar/rendezvous/internal/identity/application/oauth"
)

// Authorizer runs the installed-app consent flow for one purpose.
type Authorizer interface {
	AuthURL(state string) string
	ExchangeAndStore(ctx context.Context, code string) (*oauth2.Token, error)
}

// ErrNoClientSecrets is returned when OAUTH_CLIENT_SECRETS_PATH is missing.
var ErrNoClientSecrets = errors.New("OAuth client secrets not found: set OAUTH_CLIENT_SECRETS_PATH")

var authCode string

// Cmd is the auth command group.
var Cmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to Google Calendar and Gmail",
	Long: `Run the OAuth consent flow and store the resulting token.

Open the printed URL, approve access, then paste the authorization code.
The code can also be passed with --code.`,
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Authorize Google Calendar access",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(cmd, identityOAuth.PurposeCalendar)
	},
}

var gmailCmd = &cobra.Command{
	Use:   "gmail",
	Short: "Authorize sending confirmation emails through Gmail",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(cmd, identityOAuth.PurposeGmail)
	},
}

func runFlow(cmd *cobra.Command, purpose identityOAuth.Purpose) error {
	app, err := cli.RequireApp()
	if err != nil {
		return err
	}
	service := app.OAuth.Get(purpose)
	if service == nil {
		return ErrNoClientSecrets
	}
	return Authorize(cmd.Context(), service, cmd.InOrStdin(), cmd.OutOrStdout(), authCode)
}

// Authorize prints the consent URL, reads the code from in unless one is
// given, and stores the exchanged token.
func Authorize(ctx context.Context, a Authorizer, in io.Reader, out io.Writer, code string) error {
	state := uuid.NewString()
	fmt.Fprintln(out, "Open this URL in your browser and approve access:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  "+a.AuthURL(state))
	fmt.Fprintln(out)

	if code == "" {
		fmt.Fprint(out, "Authorization code: ")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read authorization code: %w", err)
		}
		code = strings.TrimSpace(line)
	}
	if code == "" {
		return errors.New("no authorization code provided")
	}

	if _, err := a.ExchangeAndStore(ctx, code); err != nil {
		return err
	}
	fmt.Fprintln(out, "Authorized. Token stored.")
	return nil
}

func init() {
	Cmd.PersistentFlags().StringVar(&authCode, "code", "", "authorization code")

	Cmd.AddCommand(calendarCmd)
	Cmd.AddCommand(gmailCmd)
}

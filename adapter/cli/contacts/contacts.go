// Package contacts provides the contact directory commands.
package contacts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	directoryCommands "github.com/felixgeelhaar/rendezvous/internal/directory/application/commands"
	directoryQueries "github.com/felixgeelhaar/rendezvous/internal/directory/application/queries"
	"github.com/felixgeelhaar/rendezvous/internal/directory/domain"
)

// Cmd is the contacts command group.
var Cmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage the contact directory used to resolve names",
}

var listSearch string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		contacts, err := app.ListContactsHandler.Handle(cmd.Context(), directoryQueries.ListContactsQuery{Search: listSearch})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			if contacts == nil {
				contacts = []domain.Contact{}
			}
			return cli.PrintJSON(out, contacts)
		}
		if len(contacts) == 0 {
			fmt.Fprintln(out, "No contacts.")
			return nil
		}
		for _, c := range contacts {
			fmt.Fprintf(out, "%-32s %s\n", c.PrimaryEmail, c.DisplayName)
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <email> <display name>",
	Short: "Add a contact",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		contact, err := app.AddContactHandler.Handle(cmd.Context(), directoryCommands.AddContactCommand{
			Email:       args[0],
			DisplayName: strings.Join(args[1:], " "),
		})
		if errors.Is(err, domain.ErrContactExists) {
			return errors.New("contact with this email already exists")
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s <%s>\n", contact.DisplayName, contact.PrimaryEmail)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <email>",
	Aliases: []string{"rm"},
	Short:   "Delete a contact",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		err = app.DeleteContactHandler.Handle(cmd.Context(), directoryCommands.DeleteContactCommand{Email: args[0]})
		if errors.Is(err, domain.ErrContactNotFound) {
			return errors.New("contact not found")
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by name or email")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(deleteCmd)
}

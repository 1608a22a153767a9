package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/rendezvous/internal/directory/application/commands"
	"github.com/felixgeelhaar/rendezvous/internal/directory/application/queries"
	"github.com/felixgeelhaar/rendezvous/internal/directory/domain"
)

type contactsListInput struct {
	Search string `json:"search,omitempty"`
}

type contactsAddInput struct {
	Email       string `json:"email" jsonschema:"required"`
	DisplayName string `json:"display_name" jsonschema:"required"`
}

type contactsDeleteInput struct {
	Email string `json:"email" jsonschema:"required"`
}

func (t *toolset) registerContactTools(srv *mcp.Server) {
	srv.Tool("contacts.list").
		Description("List directory contacts, optionally filtered by name or email").
		Handler(t.listContacts)

	srv.Tool("contacts.add").
		Description("Add a contact used to resolve participant names").
		Handler(t.addContact)

	srv.Tool("contacts.delete").
		Description("Delete a contact by email").
		Handler(t.deleteContact)
}

func (t *toolset) listContacts(ctx context.Context, input contactsListInput) ([]domain.Contact, error) {
	contacts, err := t.app.ListContactsHandler.Handle(ctx, queries.ListContactsQuery{Search: input.Search})
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return contacts, nil
}

func (t *toolset) addContact(ctx context.Context, input contactsAddInput) (*domain.Contact, error) {
	return t.app.AddContactHandler.Handle(ctx, commands.AddContactCommand{
		Email:       input.Email,
		DisplayName: input.DisplayName,
	})
}

func (t *toolset) deleteContact(ctx context.Context, input contactsDeleteInput) (map[string]any, error) {
	if err := t.app.DeleteContactHandler.Handle(ctx, commands.DeleteContactCommand{Email: input.Email}); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true, "email": input.Email}, nil
}

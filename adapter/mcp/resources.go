package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/rendezvous/internal/meetings/application/queries"
)

const jsonMime = "application/json"

// RegisterResources exposes upcoming meetings, contacts and status as resources.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil || deps.App.Container == nil {
		return errors.New("app is required")
	}
	t := &toolset{app: deps.App}

	srv.Resource("rendezvous://meetings/upcoming").
		Name("Upcoming meetings").
		Description("Meetings in the next 30 days").
		MimeType(jsonMime).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			events, err := t.app.ListUpcomingHandler.Handle(ctx, queries.ListUpcomingQuery{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, events)
		})

	srv.Resource("rendezvous://contacts").
		Name("Contacts").
		Description("Directory contacts used to resolve names").
		MimeType(jsonMime).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			contacts, err := t.listContacts(ctx, contactsListInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, contacts)
		})

	srv.Resource("rendezvous://status").
		Name("Status").
		Description("User, time zone, providers and authorized OAuth purposes").
		MimeType(jsonMime).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return jsonResource(uri, t.status())
		})

	return nil
}

func (t *toolset) status() map[string]any {
	cfg := t.app.Config
	return map[string]any{
		"user_email":        cfg.UserEmail,
		"timezone":          t.app.Location.String(),
		"calendar_provider": cfg.CalendarProvider,
		"notifier":          cfg.Notifier,
		"contacts_backend":  cfg.ContactsBackend,
		"oauth_purposes":    t.app.OAuth.Purposes(),
	}
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: jsonMime,
		Text:     string(data),
	}, nil
}

package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// toolset holds the tool handlers so they can be exercised without a transport.
type toolset struct {
	app *cli.App
}

// RegisterTools registers the meeting, contact and auth tools.
func RegisterTools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil || deps.App.Container == nil {
		return errors.New("app is required")
	}

	t := &toolset{app: deps.App}
	t.registerMeetingTools(srv)
	t.registerContactTools(srv)
	t.registerAuthTools(srv)
	return nil
}

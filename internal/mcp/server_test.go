package mcp

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/internal/app/apptest"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
)

func TestServe_Validation(t *testing.T) {
	ctx := context.Background()

	assert.EqualError(t, Serve(ctx, nil, nil, nil), "config is required")
	assert.EqualError(t, Serve(ctx, &config.Config{}, nil, nil), "CLI app is required")
}

func TestNewServer_RegistersTools(t *testing.T) {
	h := apptest.New(t)

	srv, err := NewServer(NewCLIApp(h.Container), nil)
	require.NoError(t, err)

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)
	assert.Len(t, tools, 10)
}

func TestMiddleware(t *testing.T) {
	cfg := apptest.Config(t)
	logger := apptest.New(t).Container.Logger

	open := Middleware(cfg, logger)
	cfg.MCPAuthToken = "secret"
	authed := Middleware(cfg, logger)

	assert.Len(t, authed, len(open)+1)
}

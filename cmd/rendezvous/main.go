package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	cliAuth "github.com/felixgeelhaar/rendezvous/adapter/cli/auth"
	"github.com/felixgeelhaar/rendezvous/adapter/cli/contacts"
	"github.com/felixgeelhaar/rendezvous/adapter/cli/mcp"
	"github.com/felixgeelhaar/rendezvous/adapter/cli/meeting"
	"github.com/felixgeelhaar/rendezvous/internal/app"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
	"github.com/felixgeelhaar/rendezvous/pkg/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logCfg := observability.DefaultLogConfig()
	logCfg.ServiceVersion = cli.Version
	logger := observability.NewLogger(logCfg)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.LogLevel != "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
		logger = observability.NewLogger(logCfg)
	}
	cli.SetLogger(logger)

	// version and help still work when the container cannot be built
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Warn("failed to initialize application", "error", err)
		cli.SetInitError(err)
	} else {
		defer container.Close()
		cli.SetApp(cli.NewApp(container))
	}

	cli.AddCommand(meeting.Cmd)
	cli.AddCommand(contacts.Cmd)
	cli.AddCommand(cliAuth.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.Execute(ctx)
}

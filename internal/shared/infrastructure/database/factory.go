package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config selects and configures a SQL backend.
type Config struct {
	// Driver is detected from URL when empty.
	Driver     Driver
	URL        string
	SQLitePath string
	MaxConns   int
}

// Opener opens a connection for a driver. Driver packages register one in init.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]Opener{}

// Register makes a driver available to NewConnection.
func Register(driver Driver, open Opener) {
	openers[driver] = open
}

// NewConnection opens a connection for cfg. The driver package must be
// imported for its side effect.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DetectDriver(cfg.URL)
	}

	open, ok := openers[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath returns ~/.rendezvous/contacts.db.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".rendezvous", "contacts.db")
}

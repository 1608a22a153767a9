package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/rendezvous/internal/app"
)

// ErrNotInitialized is returned by commands run without a wired application.
var ErrNotInitialized = errors.New("rendezvous is not initialized: check your configuration")

// App holds the CLI application dependencies.
type App struct {
	*app.Container
}

// NewApp wraps a container for the CLI commands.
func NewApp(container *app.Container) *App {
	return &App{Container: container}
}

var (
	// current is the global CLI application instance
	current *App
	initErr error
)

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	current = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return current
}

// SetInitError records why the application could not be built.
func SetInitError(err error) {
	initErr = err
}

// RequireApp returns the application or ErrNotInitialized, carrying the
// recorded initialization error.
func RequireApp() (*App, error) {
	if current == nil || current.Container == nil {
		if initErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotInitialized, initErr)
		}
		return nil, ErrNotInitialized
	}
	return current, nil
}

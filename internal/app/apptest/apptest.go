// Package apptest builds containers backed by in-memory fakes for adapter tests.
package apptest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/internal/app"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/calendartest"
	meetingsDomain "github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
)

// Now is the fixed clock of test containers: Monday 2026-10-12 08:00 UTC.
var Now = time.Date(2026, time.October, 12, 8, 0, 0, 0, time.UTC)

// Config returns a valid configuration rooted in a temporary directory, with
// the log notifier and the file contact store.
func Config(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		AppEnv:                  "test",
		UserEmail:               "me@example.com",
		Timezone:                "Asia/Kolkata",
		OAuthClientSecretsPath:  filepath.Join(dir, "client_secret.json"),
		CalendarTokenPath:       filepath.Join(dir, "token_calendar.json"),
		GmailTokenPath:          filepath.Join(dir, "token_gmail.json"),
		CalendarProvider:        config.CalendarProviderGoogle,
		CalendarID:              "primary",
		CalendarTimeout:         time.Second,
		CalendarBreakerFailures: 3,
		CalendarBreakerTimeout:  time.Minute,
		WorkdayStartHour:        9,
		WorkdayEndHour:          17,
		Notifier:                config.NotifierLog,
		ContactsBackend:         config.ContactsBackendFile,
		ContactsFile:            filepath.Join(dir, "contacts.json"),
	}
}

// Oracle returns a canned ParsedRequest and records the texts it was given.
type Oracle struct {
	Parsed meetingsDomain.ParsedRequest
	Texts  []string
}

// Parse implements the assistant's oracle port.
func (o *Oracle) Parse(_ context.Context, text string) meetingsDomain.ParsedRequest {
	o.Texts = append(o.Texts, text)
	return o.Parsed
}

// Harness is a container wired to a fake calendar and oracle.
type Harness struct {
	Container *app.Container
	Calendar  *calendartest.Fake
	Oracle    *Oracle
}

// New builds a harness; the container is closed when the test ends.
func New(t *testing.T) *Harness {
	t.Helper()
	h := &Harness{Calendar: calendartest.New(), Oracle: &Oracle{}}
	c, err := app.NewContainerWith(context.Background(), Config(t), nil, app.Overrides{
		Calendar: h.Calendar,
		Oracle:   h.Oracle,
		Now:      func() time.Time { return Now },
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	h.Container = c
	return h
}

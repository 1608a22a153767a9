// Package app wires the rendezvous components from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"google.golang.org/api/option"

	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/infrastructure/caldav"
	calendarSetup "github.com/felixgeelhaar/rendezvous/internal/calendar/setup"
	directoryCommands "github.com/felixgeelhaar/rendezvous/internal/directory/application/commands"
	directoryQueries "github.com/felixgeelhaar/rendezvous/internal/directory/application/queries"
	directoryServices "github.com/felixgeelhaar/rendezvous/internal/directory/application/services"
	directoryDomain "github.com/felixgeelhaar/rendezvous/internal/directory/domain"
	identityOAuth "github.com/felixgeelhaar/rendezvous/internal/identity/application/oauth"
	"github.com/felixgeelhaar/rendezvous/internal/identity/infrastructure/tokenstore"
	meetingCommands "github.com/felixgeelhaar/rendezvous/internal/meetings/application/commands"
	meetingQueries "github.com/felixgeelhaar/rendezvous/internal/meetings/application/queries"
	meetingServices "github.com/felixgeelhaar/rendezvous/internal/meetings/application/services"
	meetingsDomain "github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/infrastructure/nlp"
	notificationApp "github.com/felixgeelhaar/rendezvous/internal/notification/application"
	"github.com/felixgeelhaar/rendezvous/internal/notification/infrastructure/gmail"
	"github.com/felixgeelhaar/rendezvous/internal/notification/infrastructure/logsender"
	schedulerServices "github.com/felixgeelhaar/rendezvous/internal/scheduling/application/services"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/convert"
	sharedCrypto "github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
)

// Overrides replaces externally backed components. Nil fields are built
// from configuration.
type Overrides struct {
	Calendar  calendarApp.Service
	Oracle    meetingServices.Oracle
	Sender    notificationApp.Sender
	Publisher eventbus.Publisher
	Contacts  directoryDomain.Repository
	Now       func() time.Time
}

// Container holds all application dependencies.
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Location *time.Location

	// Infrastructure
	Repositories   *RepositoryFactory
	ContactRepo    directoryDomain.Repository
	OAuth          *identityOAuth.Registry
	Calendar       calendarApp.Service
	Notifier       notificationApp.Sender
	Publisher      eventbus.Publisher
	EventPublisher *eventbus.EventPublisher

	// Services
	Oracle     meetingServices.Oracle
	Resolver   *directoryServices.ParticipantResolver
	SlotSearch *schedulerServices.SlotSearch
	Assistant  *meetingServices.Assistant

	// Meeting Command Handlers
	ScheduleMeetingHandler *meetingCommands.ScheduleMeetingHandler
	UpdateMeetingHandler   *meetingCommands.UpdateMeetingHandler
	CancelMeetingHandler   *meetingCommands.CancelMeetingHandler

	// Meeting Query Handlers
	ListUpcomingHandler *meetingQueries.ListUpcomingHandler

	// Contact Handlers
	AddContactHandler    *directoryCommands.AddContactHandler
	DeleteContactHandler *directoryCommands.DeleteContactHandler
	ListContactsHandler  *directoryQueries.ListContactsHandler
}

// NewContainer creates a container from configuration.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	return NewContainerWith(ctx, cfg, logger, Overrides{})
}

// NewContainerWith creates a container, using the given overrides in place
// of the configured backends.
func NewContainerWith(ctx context.Context, cfg *config.Config, logger *slog.Logger, overrides Overrides) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:       cfg,
		Logger:       logger,
		Location:     loc,
		Repositories: NewRepositoryFactory(cfg, logger),
	}

	if err := c.initOAuth(); err != nil {
		return nil, err
	}

	// Contacts
	c.ContactRepo = overrides.Contacts
	if c.ContactRepo == nil {
		if c.ContactRepo, err = c.Repositories.ContactRepository(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to open contacts: %w", err)
		}
	}
	logger.Info("contact store ready", "backend", cfg.ContactsBackend)

	// Calendar
	c.Calendar = overrides.Calendar
	if c.Calendar == nil {
		if c.Calendar, err = c.newCalendar(); err != nil {
			c.Close()
			return nil, err
		}
	}

	// Notifications
	c.Notifier = overrides.Sender
	if c.Notifier == nil {
		c.Notifier = c.newNotifier()
	}

	// Domain events
	c.Publisher = overrides.Publisher
	if c.Publisher == nil {
		c.Publisher = c.newPublisher()
	}
	c.EventPublisher = eventbus.NewEventPublisher(c.Publisher, logger)

	// Language oracle
	c.Oracle = overrides.Oracle
	if c.Oracle == nil {
		if c.Oracle, err = c.newOracle(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}

	// Services
	c.Resolver = directoryServices.NewParticipantResolver(c.ContactRepo, cfg.UserEmail, logger)

	slotConfig := schedulerServices.DefaultSlotSearchConfig(loc)
	slotConfig.WorkStart = time.Duration(cfg.WorkdayStartHour) * time.Hour
	slotConfig.WorkEnd = time.Duration(cfg.WorkdayEndHour) * time.Hour
	c.SlotSearch = schedulerServices.NewSlotSearch(c.Calendar, slotConfig, logger).WithClock(overrides.Now)

	c.Assistant = meetingServices.NewAssistant(c.Oracle, c.Resolver, c.Calendar, c.SlotSearch, loc, logger)

	// Meeting handlers
	followUp := meetingCommands.NewFollowUp(c.Notifier, c.EventPublisher, cfg.UserEmail, loc, logger)
	c.ScheduleMeetingHandler = meetingCommands.NewScheduleMeetingHandler(c.Calendar, followUp, logger)
	c.UpdateMeetingHandler = meetingCommands.NewUpdateMeetingHandler(c.Calendar, c.SlotSearch, followUp, logger)
	c.CancelMeetingHandler = meetingCommands.NewCancelMeetingHandler(c.Calendar, followUp, logger)
	c.ListUpcomingHandler = meetingQueries.NewListUpcomingHandler(c.Calendar, loc, logger).WithClock(overrides.Now)

	// Contact handlers
	c.AddContactHandler = directoryCommands.NewAddContactHandler(c.ContactRepo, logger)
	c.DeleteContactHandler = directoryCommands.NewDeleteContactHandler(c.ContactRepo, logger)
	c.ListContactsHandler = directoryQueries.NewListContactsHandler(c.ContactRepo)

	logger.Info("container initialized",
		"calendar_provider", cfg.CalendarProvider,
		"notifier", cfg.Notifier,
		"events_enabled", cfg.EventsEnabled,
		"timezone", loc.String(),
	)
	return c, nil
}

// initOAuth registers the calendar and Gmail OAuth services when client
// secrets are available. Without them Google-backed components fail on use.
func (c *Container) initOAuth() error {
	c.OAuth = identityOAuth.NewRegistry()

	secrets, err := security.ReadFile(c.Config.OAuthClientSecretsPath)
	if errors.Is(err, fs.ErrNotExist) {
		c.Logger.Warn("OAuth client secrets not found, Google services disabled",
			"path", c.Config.OAuthClientSecretsPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read client secrets: %w", err)
	}

	var encrypter sharedCrypto.Encrypter
	if c.Config.EncryptionKey != "" {
		enc, err := sharedCrypto.NewAESGCMFromBase64Key(c.Config.EncryptionKey)
		if err != nil {
			return fmt.Errorf("invalid RENDEZVOUS_ENCRYPTION_KEY: %w", err)
		}
		encrypter = enc
	}

	tokenPaths := map[identityOAuth.Purpose]string{
		identityOAuth.PurposeCalendar: c.Config.CalendarTokenPath,
		identityOAuth.PurposeGmail:    c.Config.GmailTokenPath,
	}
	for _, purpose := range []identityOAuth.Purpose{identityOAuth.PurposeCalendar, identityOAuth.PurposeGmail} {
		store := tokenstore.NewFileStore(tokenPaths[purpose], encrypter)
		service, err := identityOAuth.NewServiceFromSecrets(purpose, secrets, store, c.Logger)
		if err != nil {
			return err
		}
		c.OAuth.Register(service)
	}
	return nil
}

func (c *Container) newCalendar() (calendarApp.Service, error) {
	providerCfg := calendarSetup.ProviderConfig{
		GoogleCalendarID: c.Config.CalendarID,
		CalDAV: caldav.Config{
			BaseURL:      c.Config.CalDAVURL,
			Username:     c.Config.CalDAVUsername,
			Password:     c.Config.CalDAVPassword,
			CalendarPath: c.Config.CalDAVCalendarPath,
			OwnerEmail:   c.Config.UserEmail,
		},
		Location: c.Location,
		Logger:   c.Logger,
	}
	if svc := c.OAuth.Get(identityOAuth.PurposeCalendar); svc != nil {
		providerCfg.GoogleOAuth = svc
	}

	registry := calendarApp.NewProviderRegistry()
	calendarSetup.RegisterProviders(registry, providerCfg)

	resilience := calendarApp.DefaultResilienceConfig()
	resilience.CallTimeout = c.Config.CalendarTimeout
	resilience.OpenTimeout = c.Config.CalendarBreakerTimeout
	resilience.FailureThreshold = convert.IntToUint32Clamped(c.Config.CalendarBreakerFailures)

	return calendarSetup.NewService(registry, calendarDomain.ProviderType(c.Config.CalendarProvider), resilience, c.Logger)
}

func (c *Container) newNotifier() notificationApp.Sender {
	if c.Config.Notifier == config.NotifierLog {
		return logsender.NewSender(c.Logger)
	}
	return notificationApp.NewLazySender(func(ctx context.Context) (notificationApp.Sender, error) {
		svc := c.OAuth.Get(identityOAuth.PurposeGmail)
		if svc == nil {
			return nil, errors.New("gmail requires OAuth client secrets")
		}
		baseCtx := context.WithoutCancel(ctx)
		ts, err := svc.TokenSource(baseCtx)
		if err != nil {
			return nil, err
		}
		return gmail.NewSender(baseCtx, c.Config.UserEmail, c.Logger, option.WithTokenSource(ts))
	})
}

func (c *Container) newPublisher() eventbus.Publisher {
	if !c.Config.EventsEnabled || c.Config.RabbitMQURL == "" {
		return eventbus.NewNoopPublisher(c.Logger)
	}
	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, eventbus.DefaultExchange, c.Logger)
	if err != nil {
		c.Logger.Warn("RabbitMQ unavailable, meeting events disabled", "error", err)
		return eventbus.NewNoopPublisher(c.Logger)
	}
	return publisher
}

func (c *Container) newOracle(ctx context.Context) (meetingServices.Oracle, error) {
	if c.Config.GeminiAPIKey == "" {
		c.Logger.Warn("GEMINI_API_KEY not set, free-text requests are disabled")
		return unconfiguredOracle{}, nil
	}
	oracle, err := nlp.NewGeminiOracle(ctx, c.Config.GeminiAPIKey, c.Config.GeminiModel, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create language oracle: %w", err)
	}
	return oracle, nil
}

// unconfiguredOracle answers every request with a parse failure.
type unconfiguredOracle struct{}

func (unconfiguredOracle) Parse(context.Context, string) meetingsDomain.ParsedRequest {
	return meetingsDomain.FailedRequest("The language model is not configured. Set GEMINI_API_KEY.", nil)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.Repositories != nil {
		if err := c.Repositories.Close(); err != nil {
			c.Logger.Warn("error closing contact store", "error", err)
		}
	}
}

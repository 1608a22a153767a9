package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Calendar providers.
const (
	CalendarProviderGoogle = "google"
	CalendarProviderCalDAV = "caldav"
)

// Contact store backends.
const (
	ContactsBackendFile     = "file"
	ContactsBackendSQLite   = "sqlite"
	ContactsBackendPostgres = "postgres"
	ContactsBackendRedis    = "redis"
)

// Notifiers.
const (
	NotifierGmail = "gmail"
	NotifierLog   = "log"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv        string
	LogLevel      string
	UserEmail     string
	Timezone      string
	EncryptionKey string

	// Language oracle
	GeminiAPIKey string
	GeminiModel  string

	// Google OAuth
	OAuthClientSecretsPath string
	CalendarTokenPath      string
	GmailTokenPath         string

	// Calendar
	CalendarProvider        string
	CalendarID              string
	CalDAVURL               string
	CalDAVUsername          string
	CalDAVPassword          string
	CalDAVCalendarPath      string
	CalendarTimeout         time.Duration
	CalendarBreakerFailures int
	CalendarBreakerTimeout  time.Duration

	// Slot search
	WorkdayStartHour int
	WorkdayEndHour   int

	// Notifications
	Notifier string

	// Contacts
	ContactsBackend string
	ContactsFile    string
	DatabaseURL     string
	SQLitePath      string
	RedisURL        string

	// Domain events
	EventsEnabled bool
	RabbitMQURL   string

	// Servers
	HTTPAddr     string
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		UserEmail:     getEnv("USER_EMAIL", os.Getenv("YOUR_COLLEGE_EMAIL_ID_FOR_TESTING")),
		Timezone:      getEnv("MEETING_TIMEZONE", "Asia/Kolkata"),
		EncryptionKey: getEnv("RENDEZVOUS_ENCRYPTION_KEY", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		OAuthClientSecretsPath: getEnv("OAUTH_CLIENT_SECRETS_PATH", "client_secret.json"),
		CalendarTokenPath:      getEnv("CALENDAR_TOKEN_PATH", "token_calendar.json"),
		GmailTokenPath:         getEnv("GMAIL_TOKEN_PATH", "token_gmail.json"),

		CalendarProvider:        strings.ToLower(getEnv("CALENDAR_PROVIDER", CalendarProviderGoogle)),
		CalendarID:              getEnv("CALENDAR_ID", "primary"),
		CalDAVURL:               getEnv("CALDAV_URL", ""),
		CalDAVUsername:          getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword:          getEnv("CALDAV_PASSWORD", ""),
		CalDAVCalendarPath:      getEnv("CALDAV_CALENDAR_PATH", ""),
		CalendarTimeout:         getDurationEnv("CALENDAR_TIMEOUT", 15*time.Second),
		CalendarBreakerFailures: getIntEnv("CALENDAR_BREAKER_FAILURES", 5),
		CalendarBreakerTimeout:  getDurationEnv("CALENDAR_BREAKER_TIMEOUT", 30*time.Second),

		WorkdayStartHour: getIntEnv("SLOT_WORKDAY_START", 9),
		WorkdayEndHour:   getIntEnv("SLOT_WORKDAY_END", 17),

		Notifier: strings.ToLower(getEnv("NOTIFIER", NotifierGmail)),

		ContactsBackend: strings.ToLower(getEnv("CONTACTS_BACKEND", ContactsBackendFile)),
		ContactsFile:    getEnv("CONTACTS_FILE", "contacts.json"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SQLitePath:      getEnv("SQLITE_PATH", defaultSQLitePath()),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),

		EventsEnabled: getBoolEnv("EVENTS_ENABLED", false),
		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),

		HTTPAddr:     getEnv("HTTP_ADDR", "0.0.0.0:5000"),
		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	return cfg, nil
}

// Validate checks the settings every binary depends on.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.UserEmail) == "" {
		errs = append(errs, errors.New("USER_EMAIL is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid MEETING_TIMEZONE %q: %w", c.Timezone, err))
	}

	switch c.CalendarProvider {
	case CalendarProviderGoogle:
	case CalendarProviderCalDAV:
		if c.CalDAVURL == "" {
			errs = append(errs, errors.New("CALDAV_URL is required for the caldav provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CALENDAR_PROVIDER %q", c.CalendarProvider))
	}

	switch c.ContactsBackend {
	case ContactsBackendFile, ContactsBackendSQLite, ContactsBackendRedis:
	case ContactsBackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres contacts backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CONTACTS_BACKEND %q", c.ContactsBackend))
	}

	switch c.Notifier {
	case NotifierGmail, NotifierLog:
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFIER %q", c.Notifier))
	}

	if c.WorkdayStartHour < 0 || c.WorkdayEndHour > 24 || c.WorkdayStartHour >= c.WorkdayEndHour {
		errs = append(errs, fmt.Errorf("invalid workday %d-%d", c.WorkdayStartHour, c.WorkdayEndHour))
	}

	return errors.Join(errs...)
}

// Location returns the meeting time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".rendezvous", "contacts.db")
	}
	return filepath.Join(home, ".rendezvous", "contacts.db")
}

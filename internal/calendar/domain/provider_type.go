package domain

// ProviderType identifies a calendar backend.
type ProviderType string

const (
	// ProviderGoogle is Google Calendar (OAuth2 + Calendar API v3).
	ProviderGoogle ProviderType = "google"
	// ProviderApple is iCloud Calendar over CalDAV with an app-specific password.
	ProviderApple ProviderType = "apple"
	// ProviderCalDAV is any CalDAV server (Fastmail, Nextcloud, Radicale).
	ProviderCalDAV ProviderType = "caldav"
)

func (p ProviderType) String() string {
	return string(p)
}

// IsValid reports whether the provider is supported.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderGoogle, ProviderApple, ProviderCalDAV:
		return true
	default:
		return false
	}
}

// RequiresOAuth reports whether the provider authenticates with OAuth2.
func (p ProviderType) RequiresOAuth() bool {
	return p == ProviderGoogle
}

// RequiresCalDAV reports whether the provider speaks CalDAV.
func (p ProviderType) RequiresCalDAV() bool {
	return p == ProviderApple || p == ProviderCalDAV
}

// SupportsConferencing reports whether created events get a video link.
func (p ProviderType) SupportsConferencing() bool {
	return p == ProviderGoogle
}

// DisplayName returns a human-readable provider name.
func (p ProviderType) DisplayName() string {
	switch p {
	case ProviderGoogle:
		return "Google Calendar"
	case ProviderApple:
		return "Apple Calendar"
	case ProviderCalDAV:
		return "CalDAV"
	default:
		return string(p)
	}
}

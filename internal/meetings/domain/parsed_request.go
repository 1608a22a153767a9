package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrMalformedHint is returned when a date or time hint cannot be parsed.
var ErrMalformedHint = errors.New("malformed date or time hint")

const (
	startLayout    = "2006-01-02 15:04"
	originalLayout = "2006-01-02T15:04"
	defaultTitle   = "New Meeting"
)

// Intent is what the user wants done.
type Intent string

const (
	IntentSchedule   Intent = "schedule"
	IntentReschedule Intent = "reschedule"
	IntentCancel     Intent = "cancel"
	IntentUnknown    Intent = "unknown"
)

// ParseIntent maps free text onto a known intent. Anything unrecognized is
// IntentUnknown.
func ParseIntent(s string) Intent {
	switch i := Intent(strings.ToLower(strings.TrimSpace(s))); i {
	case IntentSchedule, IntentReschedule, IntentCancel:
		return i
	default:
		return IntentUnknown
	}
}

// UnmarshalJSON normalizes the decoded intent.
func (i *Intent) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*i = IntentUnknown
		return nil
	}
	*i = ParseIntent(*s)
	return nil
}

// ParsedRequest is the structured form of a free-text meeting request.
// Missing fields mean the user did not say, not that parsing failed.
type ParsedRequest struct {
	Intent                  Intent   `json:"intent"`
	Participants            []string `json:"participants"`
	DurationMinutes         *int     `json:"duration_minutes"`
	TimePreferencesRaw      string   `json:"time_preferences_raw,omitempty"`
	StartDateHint           string   `json:"start_date_hint,omitempty"`
	StartTimeHint           string   `json:"start_time_hint,omitempty"`
	MeetingTitle            string   `json:"meeting_title,omitempty"`
	OriginalMeetingKeywords []string `json:"original_meeting_keywords,omitempty"`
	OriginalMeetingDateHint string   `json:"original_meeting_date_hint,omitempty"`
	OriginalMeetingTimeHint string   `json:"original_meeting_time_hint,omitempty"`
	Error                   string   `json:"error,omitempty"`
	Details                 string   `json:"details,omitempty"`
}

// FailedRequest is what an oracle returns when it cannot parse.
func FailedRequest(message string, cause error) ParsedRequest {
	p := ParsedRequest{Intent: IntentUnknown, Error: message}
	if cause != nil {
		p.Details = cause.Error()
	}
	return p
}

// Failed reports whether the oracle could not parse the request.
func (p ParsedRequest) Failed() bool {
	return p.Error != ""
}

// Duration returns the requested duration when it is positive.
func (p ParsedRequest) Duration() (int, bool) {
	if p.DurationMinutes == nil || *p.DurationMinutes <= 0 {
		return 0, false
	}
	return *p.DurationMinutes, true
}

// HasStart reports whether both the date and time of the new start are known.
func (p ParsedRequest) HasStart() bool {
	return strings.TrimSpace(p.StartDateHint) != "" && strings.TrimSpace(p.StartTimeHint) != ""
}

// HasPartialStart reports whether either the date or time is known.
func (p ParsedRequest) HasPartialStart() bool {
	return strings.TrimSpace(p.StartDateHint) != "" || strings.TrimSpace(p.StartTimeHint) != ""
}

// HasOriginal reports whether the existing meeting's date and time are known.
func (p ParsedRequest) HasOriginal() bool {
	return strings.TrimSpace(p.OriginalMeetingDateHint) != "" && strings.TrimSpace(p.OriginalMeetingTimeHint) != ""
}

// StartIn parses the new start hints in loc.
func (p ParsedRequest) StartIn(loc *time.Location) (time.Time, error) {
	return parseHint(startLayout, p.StartDateHint+" "+p.StartTimeHint, loc)
}

// OriginalStartIn parses the existing meeting's hints in loc.
func (p ParsedRequest) OriginalStartIn(loc *time.Location) (time.Time, error) {
	return parseHint(originalLayout, p.OriginalMeetingDateHint+"T"+p.OriginalMeetingTimeHint, loc)
}

// LookupQuery is the free-text query used to find the existing meeting.
func (p ParsedRequest) LookupQuery() string {
	if q := strings.TrimSpace(strings.Join(p.OriginalMeetingKeywords, " ")); q != "" {
		return q
	}
	return strings.TrimSpace(p.MeetingTitle)
}

// Title returns the meeting title or a placeholder.
func (p ParsedRequest) Title() string {
	if t := strings.TrimSpace(p.MeetingTitle); t != "" {
		return t
	}
	return defaultTitle
}

func parseHint(layout, value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, errors.Join(ErrMalformedHint, err)
	}
	return t, nil
}

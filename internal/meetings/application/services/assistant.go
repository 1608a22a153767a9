package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	directoryDomain "github.com/felixgeelhaar/rendezvous/internal/directory/domain"
	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

const (
	scheduledDescription = "Meeting scheduled via Book Meeting Assistant."
	manualDescription    = "Meeting request: "
	lookupTolerance      = time.Minute
)

// Oracle turns free text into a structured request. Failures are reported
// through ParsedRequest.Error rather than an error value.
type Oracle interface {
	Parse(ctx context.Context, text string) domain.ParsedRequest
}

// ParticipantResolver maps raw participant tokens to calendar identities.
type ParticipantResolver interface {
	Resolve(ctx context.Context, tokens []string) []directoryDomain.Participant
}

// Assistant answers free-text meeting requests. It only reads calendar state;
// mutations go through the meeting commands after the user confirms.
type Assistant struct {
	oracle   Oracle
	resolver ParticipantResolver
	calendar calendarApp.Service
	slots    SlotFinder
	loc      *time.Location
	logger   *slog.Logger
}

// NewAssistant creates an assistant that interprets times in loc.
func NewAssistant(
	oracle Oracle,
	resolver ParticipantResolver,
	calendar calendarApp.Service,
	slots SlotFinder,
	loc *time.Location,
	logger *slog.Logger,
) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Assistant{
		oracle:   oracle,
		resolver: resolver,
		calendar: calendar,
		slots:    slots,
		loc:      loc,
		logger:   logger,
	}
}

// request carries the per-request state shared by the intent branches.
type request struct {
	query        string
	parsed       domain.ParsedRequest
	participants []directoryDomain.Participant
	emails       []string
}

// ProcessMeetingRequest interprets query and returns exactly one result.
func (a *Assistant) ProcessMeetingRequest(ctx context.Context, query string) (result domain.ActionResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.ErrorContext(ctx, "meeting request panicked", "panic", r)
			result = domain.Render(domain.Failure{Message: "An unexpected error occurred while processing the request."})
		}
	}()

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Render(domain.Failure{Message: "Query is required."})
	}

	parsed := a.oracle.Parse(ctx, query)
	if parsed.Failed() {
		a.logger.WarnContext(ctx, "request could not be parsed", "error", parsed.Error, "details", parsed.Details)
		result = domain.Render(domain.Failure{Message: "Error parsing request: " + parsed.Error})
		result.ParsedData = &parsed
		return result
	}

	participants := a.resolver.Resolve(ctx, parsed.Participants)
	req := request{
		query:        query,
		parsed:       parsed,
		participants: participants,
		emails:       directoryDomain.Emails(participants),
	}

	a.logger.InfoContext(ctx, "processing meeting request",
		"intent", parsed.Intent,
		"participants", len(participants),
	)

	var outcome domain.Outcome
	switch parsed.Intent {
	case domain.IntentSchedule:
		outcome = a.schedule(ctx, req)
	case domain.IntentReschedule, domain.IntentCancel:
		outcome = a.modify(ctx, req)
	default:
		outcome = domain.Info{
			Message: "I couldn't understand your request. Please try rephrasing or provide more details for scheduling, rescheduling, or canceling a meeting. You can also fill out details manually below.",
			Draft:   a.manualDraft(req),
		}
	}

	result = domain.Render(outcome)
	result.ParsedData = &parsed
	result.ResolvedParticipants = participants
	return result
}

func (a *Assistant) schedule(ctx context.Context, req request) domain.Outcome {
	duration, hasDuration := req.parsed.Duration()

	switch {
	case hasDuration && req.parsed.HasStart():
		start, err := req.parsed.StartIn(a.loc)
		if err != nil {
			a.logger.WarnContext(ctx, "malformed start hint", "error", err)
			return domain.Info{
				Message:        "Error processing direct schedule attempt. Looking for suggestions.",
				SuggestedSlots: a.findSlots(ctx, req.emails, duration, nil),
			}
		}

		window := schedulingDomain.TimeInterval{Start: start, End: start.Add(time.Duration(duration) * time.Minute)}
		free, err := IsFree(ctx, a.calendar, req.emails, window)
		if err != nil {
			a.logger.WarnContext(ctx, "availability check failed", "error", err)
		}
		if err != nil || !free {
			return domain.Info{
				Message:        "Proposed time is busy. Looking for alternatives.",
				SuggestedSlots: a.findSlots(ctx, req.emails, duration, &start),
			}
		}

		return domain.Success{
			Message:        "Proposed time looks available. Confirm to schedule.",
			SuggestedSlots: []schedulingDomain.TimeInterval{window},
			Draft:          domain.NewDraft(req.parsed.Title(), req.emails, &window, scheduledDescription),
		}

	case hasDuration && req.parsed.HasPartialStart():
		return domain.Info{
			Message:        "Looking for available time slots.",
			SuggestedSlots: a.findSlots(ctx, req.emails, duration, nil),
		}

	default:
		return domain.Info{
			Message: "Not enough information to find specific slots. Please provide duration and/or time preferences. You can fill out details manually.",
			Draft:   a.manualDraft(req),
		}
	}
}

// modify handles reschedule and cancel, which both start by locating the
// existing meeting.
func (a *Assistant) modify(ctx context.Context, req request) domain.Outcome {
	intent := req.parsed.Intent
	if !req.parsed.HasOriginal() {
		return domain.Info{
			Message: fmt.Sprintf("Please provide both the date and time of the meeting you want to %s.", intent),
		}
	}

	original, err := req.parsed.OriginalStartIn(a.loc)
	if err != nil {
		a.logger.WarnContext(ctx, "malformed original meeting hint", "error", err)
		return domain.Info{
			Message: "Could not parse the original meeting date and time. Please use a format like 'YYYY-MM-DD HH:MM'.",
		}
	}

	window := schedulingDomain.TimeInterval{
		Start: original.Add(-lookupTolerance),
		End:   original.Add(lookupTolerance),
	}
	matches, err := a.calendar.ListEvents(ctx, window, req.parsed.LookupQuery())
	if err != nil {
		a.logger.ErrorContext(ctx, "meeting lookup failed", "error", err)
		return domain.Failure{Message: "Error looking up the meeting: " + err.Error()}
	}
	if len(matches) == 0 {
		return domain.Info{
			Message: fmt.Sprintf("Could not find a meeting to %s. Please provide more specific keywords or a date.", intent),
		}
	}

	if intent == domain.IntentCancel {
		return domain.Confirmation{
			Message: "Please confirm cancellation.",
			Details: domain.ConfirmationDetails{
				Intent:   domain.IntentCancel,
				Original: domain.SummarizeEvent(matches[0]),
			},
		}
	}
	return a.reschedule(ctx, req, matches)
}

func (a *Assistant) reschedule(ctx context.Context, req request, matches []calendarDomain.Event) domain.Outcome {
	if !req.parsed.HasStart() {
		existing := make([]domain.ExistingMeeting, 0, len(matches))
		for _, e := range matches {
			existing = append(existing, domain.NewExistingMeeting(e))
		}
		return domain.Info{
			Message:          "Found a matching meeting. Please provide a new date and time for rescheduling.",
			ExistingMeetings: existing,
		}
	}

	start, err := req.parsed.StartIn(a.loc)
	if err != nil {
		a.logger.WarnContext(ctx, "malformed new start hint", "error", err)
		return domain.Info{
			Message: "Could not parse the new date and time. Please use a format like 'YYYY-MM-DD HH:MM'.",
		}
	}

	event := matches[0]
	length := event.Duration()
	// All-day originals take the requested or default length.
	if event.AllDay || length <= 0 {
		a.logger.DebugContext(ctx, "original meeting has no usable length", "event_id", event.ID, "all_day", event.AllDay)
		minutes, ok := req.parsed.Duration()
		if !ok {
			minutes = 30
		}
		length = time.Duration(minutes) * time.Minute
	}
	window := schedulingDomain.TimeInterval{Start: start, End: start.Add(length)}

	free, err := IsFree(ctx, a.calendar, event.Attendees, window)
	if err != nil {
		a.logger.WarnContext(ctx, "availability check failed", "error", err)
	}
	if err != nil || !free {
		return domain.Info{
			Message:        "Proposed time is busy. Here are some alternative slots.",
			SuggestedSlots: a.findSlots(ctx, event.Attendees, int(length/time.Minute), &start),
		}
	}

	proposed := domain.SummarizeEvent(event)
	proposed.ID = ""
	proposed.Start = window.Start.Format(time.RFC3339)
	proposed.End = window.End.Format(time.RFC3339)

	return domain.Confirmation{
		Message: "Proposed time is available. Please confirm.",
		Details: domain.ConfirmationDetails{
			Intent:   domain.IntentReschedule,
			Original: domain.SummarizeEvent(event),
			New:      &proposed,
		},
	}
}

// findSlots never fails the request; a failed or cancelled search yields
// whatever was found.
func (a *Assistant) findSlots(ctx context.Context, emails []string, durationMinutes int, anchor *time.Time) []schedulingDomain.TimeInterval {
	slots, err := a.slots.FindSlots(ctx, emails, durationMinutes, anchor)
	if err != nil {
		a.logger.WarnContext(ctx, "slot search incomplete", "error", err, "found", len(slots))
	}
	return slots
}

func (a *Assistant) manualDraft(req request) *domain.MeetingDraft {
	return domain.NewDraft(req.parsed.Title(), req.emails, nil, manualDescription+req.query)
}

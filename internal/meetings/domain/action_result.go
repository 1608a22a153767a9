package domain

import (
	"fmt"

	directoryDomain "github.com/felixgeelhaar/rendezvous/internal/directory/domain"
	schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"
)

// Status is the wire status of an ActionResult.
type Status string

const (
	StatusSuccess      Status = "success"
	StatusError        Status = "error"
	StatusInfo         Status = "info"
	StatusConfirmation Status = "confirmation"
	StatusConflict     Status = "conflict"
)

// ActionResult is the response payload of every meeting operation.
type ActionResult struct {
	Status                Status                        `json:"status"`
	Message               string                        `json:"message"`
	SuggestedSlots        []Slot                        `json:"suggested_slots"`
	ConfirmationDetails   *ConfirmationDetails          `json:"confirmation_details,omitempty"`
	ExistingMeetings      []ExistingMeeting             `json:"existing_meetings,omitempty"`
	CalendarLink          string                        `json:"calendar_link,omitempty"`
	MeetLink              string                        `json:"meet_link,omitempty"`
	EventID               string                        `json:"event_id,omitempty"`
	InitialMeetingDetails *MeetingDraft                 `json:"initial_meeting_details,omitempty"`
	ParsedData            *ParsedRequest                `json:"parsed_data,omitempty"`
	ResolvedParticipants  []directoryDomain.Participant `json:"resolved_participants,omitempty"`
}

// Render converts an outcome to its wire form.
func Render(o Outcome) ActionResult {
	switch o := o.(type) {
	case Success:
		return ActionResult{
			Status:                StatusSuccess,
			Message:               o.Message,
			SuggestedSlots:        slots(o.SuggestedSlots),
			InitialMeetingDetails: o.Draft,
			CalendarLink:          o.CalendarLink,
			MeetLink:              o.MeetLink,
			EventID:               o.EventID,
		}
	case Info:
		return ActionResult{
			Status:                StatusInfo,
			Message:               o.Message,
			SuggestedSlots:        slots(o.SuggestedSlots),
			InitialMeetingDetails: o.Draft,
			ExistingMeetings:      o.ExistingMeetings,
		}
	case Confirmation:
		details := o.Details
		return ActionResult{
			Status:              StatusConfirmation,
			Message:             o.Message,
			SuggestedSlots:      slots(nil),
			ConfirmationDetails: &details,
		}
	case Conflict:
		return ActionResult{
			Status:         StatusConflict,
			Message:        o.Message,
			SuggestedSlots: slots(o.SuggestedSlots),
		}
	case Failure:
		return ActionResult{
			Status:         StatusError,
			Message:        o.Message,
			SuggestedSlots: slots(nil),
		}
	default:
		return ActionResult{
			Status:         StatusError,
			Message:        fmt.Sprintf("unsupported outcome %T", o),
			SuggestedSlots: slots(nil),
		}
	}
}

func slots(intervals []schedulingDomain.TimeInterval) []Slot {
	out := make([]Slot, 0, len(intervals))
	for _, interval := range intervals {
		out = append(out, NewSlot(interval))
	}
	return out
}

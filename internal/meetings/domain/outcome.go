package domain

import schedulingDomain "github.com/felixgeelhaar/rendezvous/internal/scheduling/domain"

// Outcome is the result of one meeting operation. The set of implementations
// is closed: Success, Info, Confirmation, Conflict and Failure.
type Outcome interface {
	outcome()
}

// Success means the request was satisfied or the proposed time works.
type Success struct {
	Message        string
	SuggestedSlots []schedulingDomain.TimeInterval
	Draft          *MeetingDraft
	CalendarLink   string
	MeetLink       string
	EventID        string
}

// Info asks the user for more input, optionally with alternatives.
type Info struct {
	Message          string
	SuggestedSlots   []schedulingDomain.TimeInterval
	Draft            *MeetingDraft
	ExistingMeetings []ExistingMeeting
}

// Confirmation must be approved before a destructive follow-up call.
type Confirmation struct {
	Message string
	Details ConfirmationDetails
}

// Conflict reports a busy proposed time with alternatives.
type Conflict struct {
	Message        string
	SuggestedSlots []schedulingDomain.TimeInterval
}

// Failure reports an error that stopped the operation.
type Failure struct {
	Message string
}

func (Success) outcome()      {}
func (Info) outcome()         {}
func (Confirmation) outcome() {}
func (Conflict) outcome()     {}
func (Failure) outcome()      {}

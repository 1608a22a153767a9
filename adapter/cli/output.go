package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
)

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// PrintResult writes a meeting result in human-readable form, or as JSON
// when --json is set.
func PrintResult(w io.Writer, result domain.ActionResult) error {
	if jsonOutput {
		return PrintJSON(w, result)
	}

	fmt.Fprintf(w, "[%s] %s\n", result.Status, result.Message)
	if result.EventID != "" {
		fmt.Fprintf(w, "  Event ID: %s\n", result.EventID)
	}
	if result.CalendarLink != "" {
		fmt.Fprintf(w, "  Calendar: %s\n", result.CalendarLink)
	}
	if result.MeetLink != "" {
		fmt.Fprintf(w, "  Meet:     %s\n", result.MeetLink)
	}

	if d := result.ConfirmationDetails; d != nil {
		fmt.Fprintf(w, "\nPlease confirm (%s):\n", d.Intent)
		printSummary(w, "Current", d.Original)
		if d.New != nil {
			printSummary(w, "New", *d.New)
		}
	}

	if len(result.SuggestedSlots) > 0 {
		fmt.Fprintln(w, "\nSuggested slots:")
		for i, slot := range result.SuggestedSlots {
			fmt.Fprintf(w, "  %d. %s -> %s\n", i+1, slot.Start.DateTime, slot.End.DateTime)
		}
	}

	if len(result.ExistingMeetings) > 0 {
		fmt.Fprintln(w, "\nMatching meetings:")
		for _, m := range result.ExistingMeetings {
			fmt.Fprintf(w, "  %s  %s  %s\n", m.ID, m.Start, m.Summary)
		}
	}

	if draft := result.InitialMeetingDetails; draft != nil && result.Status != domain.StatusSuccess {
		fmt.Fprintf(w, "\nDraft: %q with %s\n", draft.Summary, draft.Attendees)
	}
	return nil
}

func printSummary(w io.Writer, label string, s domain.EventSummary) {
	fmt.Fprintf(w, "  %-8s %s  %s -> %s  (%s)\n", label+":", s.Summary, s.Start, s.End, strings.Join(s.Attendees, ", "))
}

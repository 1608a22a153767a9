package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers prompts for the scheduling workflows.
func RegisterPrompts(srv *mcp.Server) error {
	if srv == nil {
		return errors.New("server is required")
	}

	srv.Prompt("schedule_meeting").
		Description("Find a time with the given people and book it after confirmation.").
		Argument("request", "The meeting request in plain language", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			request := args["request"]
			if request == "" {
				request = "[Describe who you want to meet, for how long and when]"
			}
			return userPrompt("Schedule a meeting", fmt.Sprintf(`Help me schedule this meeting:

**Request:** %s

1. Call meeting.ask with the request.
2. If it returns suggested slots, show them and ask me to pick one.
3. Book the chosen slot with meeting.schedule, using the resolved participants' emails.
4. If a participant could not be resolved, ask me for the email and offer to save it with contacts.add.`, request)), nil
		})

	srv.Prompt("reschedule_meeting").
		Description("Move an existing meeting after checking the new time.").
		Argument("request", "Which meeting to move and the new time", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Reschedule a meeting", fmt.Sprintf(`Help me move a meeting:

**Request:** %s

1. Call meeting.ask with the request to find the meeting and the proposed change.
2. Show me the current and the new time and wait for my confirmation.
3. Check the new window with meeting.update and dry_run set.
4. If it is free, apply it with meeting.update; otherwise offer the alternative slots.`, args["request"])), nil
		})

	srv.Prompt("weekly_agenda").
		Description("Summarize the coming week's meetings.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Weekly agenda", `Read the rendezvous://meetings/upcoming resource and summarize my next seven days:
- meetings per day, in order
- back-to-back stretches without a break
- meetings without a video link`), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}

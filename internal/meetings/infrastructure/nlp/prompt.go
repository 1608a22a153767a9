package nlp

import (
	"fmt"
	"time"
)

const promptTemplate = `Extract the meeting request below into one JSON object.
Today is %[1]s (%[2]s).

Fields:
- intent: one of "schedule", "reschedule", "cancel", "unknown".
- participants: every person named or emailed, as written. Names stay names.
- duration_minutes: total minutes as an integer ("1 hour" = 60, "2h 15m" = 135). Default 30; a "quick" meeting defaults to 15.
- time_preferences_raw: the phrase describing when, verbatim.
- start_date_hint: the new date as YYYY-MM-DD, resolving "today", "tomorrow", "next Tuesday" against today. If only a time is given, use today.
- start_time_hint: the new time as 24-hour HH:MM. Without an exact time use 09:00 for morning, 14:00 for afternoon and 19:00 for evening.
- meeting_title: the subject of the meeting.
- original_meeting_keywords: for reschedule or cancel, words that identify the existing meeting.
- original_meeting_date_hint: for reschedule or cancel, the existing meeting's date as YYYY-MM-DD.
- original_meeting_time_hint: for reschedule or cancel, the existing meeting's time as HH:MM.
Use null for anything not mentioned.

Respond with the JSON object only.

Example input: "Schedule a 45-minute sync with Akash and Raj next Tuesday at 10 AM to discuss project alpha."
Example output: {"intent":"schedule","participants":["Akash","Raj"],"duration_minutes":45,"time_preferences_raw":"next Tuesday at 10 AM","start_date_hint":"<next Tuesday>","start_time_hint":"10:00","meeting_title":"project alpha sync","original_meeting_keywords":null,"original_meeting_date_hint":null,"original_meeting_time_hint":null}

Example input: "reschedule the meeting with nitish which was on 25 august at 9:15 am to 30 aug 3 pm"
Example output: {"intent":"reschedule","participants":["nitish"],"duration_minutes":30,"time_preferences_raw":"30 aug 3 pm","start_date_hint":"<year>-08-30","start_time_hint":"15:00","meeting_title":null,"original_meeting_keywords":["meeting with nitish"],"original_meeting_date_hint":"<year>-08-25","original_meeting_time_hint":"09:15"}

Example input: "Cancel the 'team update' meeting for today."
Example output: {"intent":"cancel","participants":[],"duration_minutes":30,"time_preferences_raw":"for today","start_date_hint":"<today>","start_time_hint":null,"meeting_title":"team update","original_meeting_keywords":["team update"],"original_meeting_date_hint":"<today>","original_meeting_time_hint":null}

Input: %[3]q`

func buildPrompt(text string, now time.Time) string {
	return fmt.Sprintf(promptTemplate, now.Format(time.DateOnly), now.Weekday(), text)
}

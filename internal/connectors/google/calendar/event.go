package calendar

import (
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

// popupMethod is the only reminder method the engine writes.
const popupMethod = "popup"

// ReminderToEvent converts a reminder to a Google Calendar event.
// Default reminders are disabled and a single popup override is set; force
// fields make the zero values reach the API.
func ReminderToEvent(r domain.ReminderEvent) *calendar.Event {
	tz := r.TimeZone
	if tz == "" {
		tz = domain.ReminderTimeZone
	}

	return &calendar.Event{
		Summary:     r.Title,
		Description: r.Description,
		Start: &calendar.EventDateTime{
			DateTime: r.Start.UTC().Format(time.RFC3339),
			TimeZone: tz,
		},
		End: &calendar.EventDateTime{
			DateTime: r.End.UTC().Format(time.RFC3339),
			TimeZone: tz,
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{{
				Method:          popupMethod,
				Minutes:         r.PopupMinutes,
				ForceSendFields: []string{"Minutes"},
			}},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

// EventTitles returns the summaries of the listed events.
func EventTitles(events []*calendar.Event) []string {
	titles := make([]string, 0, len(events))
	for _, e := range events {
		if e == nil {
			continue
		}
		titles = append(titles, e.Summary)
	}
	return titles
}

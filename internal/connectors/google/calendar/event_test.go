package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

func TestReminderToEvent(t *testing.T) {
	contest := domain.ContestRecord{
		Platform: domain.PlatformCodeforces,
		Title:    "Round 1000",
		URL:      "https://codeforces.com/contest/2100",
		Start:    time.Date(2030, 1, 5, 14, 35, 0, 0, time.UTC),
	}

	ev := ReminderToEvent(contest.Reminder())

	assert.Equal(t, "Round 1000 (Reminder)", ev.Summary)
	assert.Equal(t, "Contest URL: https://codeforces.com/contest/2100", ev.Description)
	assert.Equal(t, "2030-01-05T13:35:00Z", ev.Start.DateTime)
	assert.Equal(t, "2030-01-05T13:36:00Z", ev.End.DateTime)
	assert.Equal(t, "UTC", ev.Start.TimeZone)
	require.Len(t, ev.Reminders.Overrides, 1)
	assert.Equal(t, "popup", ev.Reminders.Overrides[0].Method)
	assert.Equal(t, int64(0), ev.Reminders.Overrides[0].Minutes)
}

func TestReminderToEvent_SendsZeroValues(t *testing.T) {
	ev := ReminderToEvent(domain.ReminderEvent{
		Title: "X (Reminder)",
		Start: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2030, 1, 1, 0, 1, 0, 0, time.UTC),
	})

	raw, err := json.Marshal(ev.Reminders)
	require.NoError(t, err)

	assert.JSONEq(t, `{"useDefault":false,"overrides":[{"method":"popup","minutes":0}]}`, string(raw))
	assert.Equal(t, domain.ReminderTimeZone, ev.Start.TimeZone)
}

func TestEventTitles(t *testing.T) {
	titles := EventTitles([]*calendar.Event{
		{Summary: "A (Reminder)"},
		nil,
		{Summary: "B"},
	})

	assert.Equal(t, []string{"A (Reminder)", "B"}, titles)
	assert.Empty(t, EventTitles(nil))
}

func TestParseConfig(t *testing.T) {
	assert.Equal(t, DefaultConfig(), ParseConfig("  ", 0))

	cfg := ParseConfig("team@group.calendar.google.com", 25)
	assert.Equal(t, "team@group.calendar.google.com", cfg.CalendarID)
	assert.Equal(t, int64(25), cfg.MaxResults)
}

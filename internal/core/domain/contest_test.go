package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlatform_IsValid(t *testing.T) {
	for _, p := range AllPlatforms() {
		assert.True(t, p.IsValid(), p.String())
	}
	assert.False(t, Platform("AtCoder").IsValid())
	assert.False(t, Platform("").IsValid())
}

func TestContestRecord_ReminderTitle(t *testing.T) {
	c := ContestRecord{Platform: PlatformLeetCode, Title: "Weekly Contest 400"}
	assert.Equal(t, "Weekly Contest 400 (Reminder)", c.ReminderTitle())
}

func TestContestRecord_IsUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, ContestRecord{Start: now.Add(time.Second)}.IsUpcoming(now))
	assert.False(t, ContestRecord{Start: now}.IsUpcoming(now))
	assert.False(t, ContestRecord{Start: now.Add(-time.Hour)}.IsUpcoming(now))
}

func TestContestRecord_Reminder(t *testing.T) {
	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	c := ContestRecord{
		Platform: PlatformCodeforces,
		Title:    "Round 1",
		URL:      "https://codeforces.com/contest/1",
		Start:    start,
	}

	ev := c.Reminder()

	assert.Equal(t, "Round 1 (Reminder)", ev.Title)
	assert.Equal(t, "Contest URL: https://codeforces.com/contest/1", ev.Description)
	assert.Equal(t, time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC), ev.Start)
	assert.Equal(t, time.Date(2030, 1, 1, 9, 1, 0, 0, time.UTC), ev.End)
	assert.Equal(t, "UTC", ev.TimeZone)
	assert.Equal(t, int64(0), ev.PopupMinutes)
}

func TestContestRecord_Reminder_NormalisesZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	c := ContestRecord{Title: "Starters", Start: time.Date(2030, 1, 1, 20, 0, 0, 0, ist)}

	ev := c.Reminder()

	assert.Equal(t, time.UTC, ev.Start.Location())
	assert.Equal(t, time.Date(2030, 1, 1, 13, 30, 0, 0, time.UTC), ev.Start)
}

func TestUserCredential_HasRefreshToken(t *testing.T) {
	var nilUser *UserCredential
	assert.False(t, nilUser.HasRefreshToken())
	assert.False(t, (&UserCredential{UserID: "u"}).HasRefreshToken())
	assert.True(t, (&UserCredential{UserID: "u", RefreshToken: "rt"}).HasRefreshToken())
}

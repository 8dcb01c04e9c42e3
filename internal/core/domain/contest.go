package domain

import "time"

// Platform identifies a contest listing provider.
type Platform string

// Supported contest platforms.
const (
	PlatformLeetCode   Platform = "LeetCode"
	PlatformCodeChef   Platform = "CodeChef"
	PlatformCodeforces Platform = "Codeforces"
	PlatformMentorPick Platform = "MentorPick"
)

// AllPlatforms returns every supported platform in fetch order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformLeetCode,
		PlatformCodeChef,
		PlatformCodeforces,
		PlatformMentorPick,
	}
}

// IsValid reports whether p is a known platform.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformLeetCode, PlatformCodeChef, PlatformCodeforces, PlatformMentorPick:
		return true
	}
	return false
}

// String returns the platform name.
func (p Platform) String() string {
	return string(p)
}

// ReminderSuffix is appended to a contest title to form its calendar event title.
const ReminderSuffix = " (Reminder)"

// Reminder event shape.
const (
	// ReminderLeadTime is how long before the contest start the event begins.
	ReminderLeadTime = time.Hour

	// ReminderDuration is the length of the calendar event.
	ReminderDuration = time.Minute

	// ReminderTimeZone is the time zone label attached to event times.
	ReminderTimeZone = "UTC"
)

// ContestRecord is one upcoming contest normalised from a platform listing.
// It is a value type and is never persisted locally.
type ContestRecord struct {
	// Platform is the provider the listing came from.
	Platform Platform

	// Title is the contest name as published by the platform.
	Title string

	// URL is the contest landing page.
	URL string

	// Start is the contest start instant in UTC.
	Start time.Time
}

// ReminderTitle returns the calendar event title used for deduplication.
func (c ContestRecord) ReminderTitle() string {
	return c.Title + ReminderSuffix
}

// IsUpcoming reports whether the contest starts strictly after now.
func (c ContestRecord) IsUpcoming(now time.Time) bool {
	return c.Start.After(now)
}

// Reminder builds the calendar event that reminds the user of this contest.
func (c ContestRecord) Reminder() ReminderEvent {
	start := c.Start.UTC().Add(-ReminderLeadTime)
	return ReminderEvent{
		Title:        c.ReminderTitle(),
		Description:  "Contest URL: " + c.URL,
		Start:        start,
		End:          start.Add(ReminderDuration),
		TimeZone:     ReminderTimeZone,
		PopupMinutes: 0,
	}
}

// ReminderEvent is the calendar entry written for a contest.
type ReminderEvent struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string

	// PopupMinutes is the single popup override, in minutes before Start.
	PopupMinutes int64
}

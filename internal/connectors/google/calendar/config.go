// Package calendar writes contest reminders to Google Calendar.
package calendar

import (
	"strings"
	"time"
)

// DefaultCalendarID is the authenticated user's primary calendar.
const DefaultCalendarID = "primary"

// DefaultTimeout bounds a single Calendar API call.
const DefaultTimeout = 30 * time.Second

// Config holds Google Calendar connector configuration.
type Config struct {
	// CalendarID is the calendar reminders are written to.
	CalendarID string
	// MaxResults caps a duplicate lookup when the caller passes no limit.
	MaxResults int64
	// Timeout bounds each list or insert call.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CalendarID: DefaultCalendarID,
		MaxResults: 10,
		Timeout:    DefaultTimeout,
	}
}

// ParseConfig fills unset fields with defaults.
func ParseConfig(calendarID string, maxResults int64) Config {
	cfg := DefaultConfig()
	if id := strings.TrimSpace(calendarID); id != "" {
		cfg.CalendarID = id
	}
	if maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	return cfg
}

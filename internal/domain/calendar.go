package domain

import "time"

// EventType categorizes calendar entries.
type EventType string

const (
	EventTypeInterview EventType = "INTERVIEW"
	EventTypeMeeting   EventType = "MEETING"
	EventTypeOther     EventType = "OTHER"
)

// CalendarEvent is an entry on a user's calendar.
type CalendarEvent struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Type        EventType
	InterviewID *string
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

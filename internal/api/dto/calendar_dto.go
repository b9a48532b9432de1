package dto

import (
	"time"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// CalendarEventRequest creates or edits a personal event.
type CalendarEventRequest struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=2000"`
	StartTime   time.Time        `json:"start_time" validate:"required"`
	EndTime     time.Time        `json:"end_time" validate:"required,gtfield=StartTime"`
	Type        domain.EventType `json:"type" validate:"omitempty,oneof=MEETING OTHER"`
	Location    string           `json:"location" validate:"max=200"`
}

// CalendarEventResponse is the public view of a calendar event.
type CalendarEventResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	Type        domain.EventType `json:"type"`
	InterviewID *string          `json:"interview_id"`
	Location    string           `json:"location"`
}

// NotificationResponse is the public view of a notification.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Link      string                  `json:"link"`
	RefID     string                  `json:"ref_id"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}

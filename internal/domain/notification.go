package domain

import "time"

// NotificationType identifies what triggered a notification.
type NotificationType string

const (
	NotificationApplication NotificationType = "APPLICATION"
	NotificationComment     NotificationType = "COMMENT"
	NotificationCandidate   NotificationType = "CANDIDATE"
	NotificationInterview   NotificationType = "INTERVIEW"
	NotificationReminder    NotificationType = "REMINDER"
	NotificationEvaluation  NotificationType = "EVALUATION"
)

// Notification is an in-app message for one user.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Link      string
	RefID     string
	Read      bool
	CreatedAt time.Time
}

package domain

import "time"

// EmailStatus records the outcome of a send.
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "SENT"
	EmailStatusFailed EmailStatus = "FAILED"
)

// EmailTemplate names a predefined candidate email.
type EmailTemplate string

const (
	EmailTemplateInvitation EmailTemplate = "interview_invitation"
	EmailTemplateReminder   EmailTemplate = "interview_reminder"
	EmailTemplateOffer      EmailTemplate = "offer"
	EmailTemplateRejection  EmailTemplate = "rejection"
	EmailTemplateReset      EmailTemplate = "password_reset"
	EmailTemplateCustom     EmailTemplate = "custom"
)

// EmailMessage is a record of outbound mail.
type EmailMessage struct {
	ID          string
	CandidateID *string
	To          string
	Subject     string
	Body        string
	Template    EmailTemplate
	Status      EmailStatus
	Error       string
	SentBy      *string
	SentAt      *time.Time
	CreatedAt   time.Time
}

// InboxMessage is a message read from the mailbox.
type InboxMessage struct {
	ID         string
	ThreadID   string
	From       string
	To         string
	Subject    string
	Snippet    string
	Body       string
	ReceivedAt time.Time
}

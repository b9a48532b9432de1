package dto

import (
	"time"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// SendEmailRequest sends a templated email to a candidate.
type SendEmailRequest struct {
	CandidateID string               `json:"candidate_id" validate:"required,uuid"`
	Template    domain.EmailTemplate `json:"template" validate:"required,oneof=interview_invitation offer rejection custom"`
	Subject     string               `json:"subject" validate:"required_if=Template custom,max=300"`
	Body        string               `json:"body" validate:"required_if=Template custom,max=20000"`
}

// EmailResponse is a recorded outbound email.
type EmailResponse struct {
	ID          string               `json:"id"`
	CandidateID *string              `json:"candidate_id"`
	To          string               `json:"to"`
	Subject     string               `json:"subject"`
	Body        string               `json:"body"`
	Template    domain.EmailTemplate `json:"template"`
	Status      domain.EmailStatus   `json:"status"`
	Error       string               `json:"error,omitempty"`
	SentBy      *string              `json:"sent_by"`
	SentAt      *time.Time           `json:"sent_at"`
	CreatedAt   time.Time            `json:"created_at"`
}

// InboxMessageResponse is a message read from the mailbox.
type InboxMessageResponse struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"thread_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Snippet    string    `json:"snippet"`
	Body       string    `json:"body,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

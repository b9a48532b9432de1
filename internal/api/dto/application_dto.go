package dto

import (
	"time"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// ApplicationRequest creates or edits a recruitment request.
type ApplicationRequest struct {
	Title             string     `json:"title" validate:"required,max=200"`
	Department        string     `json:"department" validate:"max=120"`
	Quantity          int        `json:"quantity" validate:"required,min=1,max=1000"`
	Reason            string     `json:"reason" validate:"max=2000"`
	Description       string     `json:"description"`
	Requirements      string     `json:"requirements"`
	SalaryMin         *int64     `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax         *int64     `json:"salary_max" validate:"omitempty,min=0"`
	ExpectedStartDate *time.Time `json:"expected_start_date"`
}

// TransitionRequest carries an optional comment for a status change.
type TransitionRequest struct {
	Comment string `json:"comment" validate:"max=2000"`
}

// RejectRequest requires a reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

// ApplicationResponse is the public view of a recruitment request.
type ApplicationResponse struct {
	ID                string                   `json:"id"`
	Code              string                   `json:"code"`
	Title             string                   `json:"title"`
	Department        string                   `json:"department"`
	Quantity          int                      `json:"quantity"`
	Reason            string                   `json:"reason"`
	Description       string                   `json:"description"`
	Requirements      string                   `json:"requirements"`
	SalaryMin         *int64                   `json:"salary_min"`
	SalaryMax         *int64                   `json:"salary_max"`
	ExpectedStartDate *time.Time               `json:"expected_start_date"`
	Status            domain.ApplicationStatus `json:"status"`
	RejectReason      string                   `json:"reject_reason,omitempty"`
	CreatedBy         string                   `json:"created_by"`
	ReviewedBy        *string                  `json:"reviewed_by"`
	ApprovedBy        *string                  `json:"approved_by"`
	SubmittedAt       *time.Time               `json:"submitted_at"`
	ApprovedAt        *time.Time               `json:"approved_at"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

// HistoryResponse is one audit entry.
type HistoryResponse struct {
	ID        string                   `json:"id"`
	ChangedBy string                   `json:"changed_by"`
	OldStatus domain.ApplicationStatus `json:"old_status"`
	NewStatus domain.ApplicationStatus `json:"new_status"`
	Comment   string                   `json:"comment,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

// CommentRequest payload.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// CommentResponse is a comment on a recruitment request.
type CommentResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

package domain

import "time"

// ApplicationStatus is the approval state of a recruitment request (YCTD).
type ApplicationStatus string

const (
	ApplicationStatusDraft     ApplicationStatus = "Chờ nộp"
	ApplicationStatusSubmitted ApplicationStatus = "Đã nộp"
	ApplicationStatusReviewing ApplicationStatus = "Đang duyệt"
	ApplicationStatusApproved  ApplicationStatus = "Đã duyệt"
	ApplicationStatusRejected  ApplicationStatus = "Từ chối"
)

// IsValid reports whether s is a known status.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusDraft, ApplicationStatusSubmitted, ApplicationStatusReviewing,
		ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// Application is a recruitment request raised by a department.
type Application struct {
	ID                string
	Code              string
	Title             string
	Department        string
	Quantity          int
	Reason            string
	Description       string
	Requirements      string
	SalaryMin         *int64
	SalaryMax         *int64
	ExpectedStartDate *time.Time
	Status            ApplicationStatus
	RejectReason      string
	CreatedBy         string
	ReviewedBy        *string
	ApprovedBy        *string
	SubmittedAt       *time.Time
	ApprovedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ApplicationHistory is an immutable audit entry for a status change.
type ApplicationHistory struct {
	ID            string
	ApplicationID string
	ChangedBy     string
	OldStatus     ApplicationStatus
	NewStatus     ApplicationStatus
	Comment       string
	CreatedAt     time.Time
}

// Comment is a discussion note left on a recruitment request.
type Comment struct {
	ID            string
	ApplicationID string
	AuthorID      string
	AuthorName    string
	Content       string
	CreatedAt     time.Time
}

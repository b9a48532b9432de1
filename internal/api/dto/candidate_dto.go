package dto

import (
	"time"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// CandidateRequest creates or edits a candidate.
type CandidateRequest struct {
	PositionID string     `json:"position_id" validate:"required,uuid"`
	FullName   string     `json:"full_name" validate:"required,max=120"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      string     `json:"phone" validate:"max=30"`
	Source     string     `json:"source" validate:"max=60"`
	Notes      string     `json:"notes" validate:"max=5000"`
	AppliedAt  *time.Time `json:"applied_at"`
}

// StageRequest moves a candidate along the pipeline.
type StageRequest struct {
	Stage domain.Stage `json:"stage" validate:"required"`
}

// CandidateResponse is the public view of a candidate.
type CandidateResponse struct {
	ID         string                 `json:"id"`
	PositionID string                 `json:"position_id"`
	FullName   string                 `json:"full_name"`
	Email      string                 `json:"email"`
	Phone      string                 `json:"phone"`
	Source     string                 `json:"source"`
	CVURL      string                 `json:"cv_url,omitempty"`
	Stage      domain.Stage           `json:"stage"`
	Status     domain.CandidateStatus `json:"status"`
	Notes      string                 `json:"notes"`
	AppliedAt  time.Time              `json:"applied_at"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

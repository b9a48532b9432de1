package dto

import (
	"time"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// PositionRequest creates or edits a position. When creating from an approved request every
// field is optional and falls back to the request's values.
type PositionRequest struct {
	Title          string     `json:"title" validate:"max=200"`
	Department     string     `json:"department" validate:"max=120"`
	Level          string     `json:"level" validate:"max=60"`
	EmploymentType string     `json:"employment_type" validate:"max=60"`
	Location       string     `json:"location" validate:"max=200"`
	Quantity       int        `json:"quantity" validate:"min=0,max=1000"`
	SalaryRange    string     `json:"salary_range" validate:"max=120"`
	Description    string     `json:"description"`
	Requirements   string     `json:"requirements"`
	Benefits       string     `json:"benefits"`
	Deadline       *time.Time `json:"deadline"`
}

// PositionResponse is the public view of a position.
type PositionResponse struct {
	ID             string                `json:"id"`
	ApplicationID  *string               `json:"application_id"`
	Title          string                `json:"title"`
	Department     string                `json:"department"`
	Level          string                `json:"level"`
	EmploymentType string                `json:"employment_type"`
	Location       string                `json:"location"`
	Quantity       int                   `json:"quantity"`
	HiredCount     int                   `json:"hired_count"`
	SalaryRange    string                `json:"salary_range"`
	Description    string                `json:"description"`
	Requirements   string                `json:"requirements"`
	Benefits       string                `json:"benefits"`
	Deadline       *time.Time            `json:"deadline"`
	Status         domain.PositionStatus `json:"status"`
	CreatedBy      string                `json:"created_by"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

package domain

import "time"

// PositionStatus tracks whether a position still accepts hires.
type PositionStatus string

const (
	PositionStatusOpen   PositionStatus = "Đang tuyển"
	PositionStatusFilled PositionStatus = "Đã tuyển đủ"
	PositionStatusClosed PositionStatus = "Đã đóng"
)

// IsValid reports whether s is a known status.
func (s PositionStatus) IsValid() bool {
	switch s {
	case PositionStatusOpen, PositionStatusFilled, PositionStatusClosed:
		return true
	default:
		return false
	}
}

// Position is an open job opening, usually created from an approved request.
type Position struct {
	ID             string
	ApplicationID  *string
	Title          string
	Department     string
	Level          string
	EmploymentType string
	Location       string
	Quantity       int
	HiredCount     int
	SalaryRange    string
	Description    string
	Requirements   string
	Benefits       string
	Deadline       *time.Time
	Status         PositionStatus
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsFull reports whether every seat has been hired.
func (p *Position) IsFull() bool {
	return p.HiredCount >= p.Quantity
}

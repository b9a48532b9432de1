package domain

import "time"

// Stage is the candidate pipeline step.
type Stage string

const (
	StageNew        Stage = "new"
	StageReviewing  Stage = "reviewing"
	StageInterview1 Stage = "interview1"
	StageInterview2 Stage = "interview2"
	StageOffer      Stage = "offer"
	StageHired      Stage = "hired"
	StageRejected   Stage = "rejected"
)

// Stages lists the pipeline in order.
var Stages = []Stage{StageNew, StageReviewing, StageInterview1, StageInterview2, StageOffer, StageHired, StageRejected}

// IsValid reports whether s is a known stage.
func (s Stage) IsValid() bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}

// Rank orders stages along the pipeline; rejected ranks last.
func (s Stage) Rank() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// CandidateStatus is the coarse outcome derived from the stage.
type CandidateStatus string

const (
	CandidateStatusActive   CandidateStatus = "Đang xử lý"
	CandidateStatusHired    CandidateStatus = "Đã tuyển"
	CandidateStatusRejected CandidateStatus = "Đã loại"
)

// StatusForStage derives the candidate status from a stage.
func StatusForStage(s Stage) CandidateStatus {
	switch s {
	case StageHired:
		return CandidateStatusHired
	case StageRejected:
		return CandidateStatusRejected
	default:
		return CandidateStatusActive
	}
}

// Candidate is a person applying to a position.
type Candidate struct {
	ID         string
	PositionID string
	FullName   string
	Email      string
	Phone      string
	Source     string
	CVURL      string
	CVPublicID string
	Stage      Stage
	Status     CandidateStatus
	Notes      string
	AppliedAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
